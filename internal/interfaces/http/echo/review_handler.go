package echo

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/geritapp/gerit/internal/application/review"
	domain "github.com/geritapp/gerit/internal/domain/review"
)

type reviewService interface {
	ListChanges(ctx context.Context, term string) ([]domain.ChangeList, error)
	GetChange(ctx context.Context, id string) (domain.ChangeList, error)
	Analyze(ctx context.Context, id string) (review.Result, error)
	Result(id string) (review.Result, error)
	Reset(id string)
}

type ReviewHandler struct {
	reviews reviewService
}

func NewReviewHandler(reviews reviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) ListChanges(c echo.Context) error {
	changes, err := h.reviews.ListChanges(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, changes)
}

func (h *ReviewHandler) GetChange(c echo.Context) error {
	change, err := h.reviews.GetChange(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, change)
}

// Analyze runs the review and answers with the stored result. A failed
// review is still a result; it is sent with 502 and the failed state.
func (h *ReviewHandler) Analyze(c echo.Context) error {
	res, err := h.reviews.Analyze(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrReviewFailed) {
		return c.JSON(http.StatusBadGateway, apiResponse{
			Data:  res,
			Error: &errorBody{Code: "review_failed", Message: res.Error},
		})
	}
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *ReviewHandler) GetReview(c echo.Context) error {
	res, err := h.reviews.Result(c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

func (h *ReviewHandler) ResetReview(c echo.Context) error {
	h.reviews.Reset(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
