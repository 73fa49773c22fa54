package echo

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
)

type dashboard interface {
	Stats() domain.Stats
	SetInterventionStatus(ctx context.Context, id int64, status string) (domain.Intervention, error)
}

type DashboardHandler struct {
	console dashboard
}

func NewDashboardHandler(console dashboard) *DashboardHandler {
	return &DashboardHandler{console: console}
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	return ok(c, http.StatusOK, h.console.Stats())
}

type statusRequest struct {
	Status string `json:"estado"`
}

func (h *DashboardHandler) SetInterventionStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("bad_request", "invalid request body")
	}
	updated, err := h.console.SetInterventionStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, updated)
}
