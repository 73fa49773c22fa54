package echo

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/geritapp/gerit/internal/application/catalog"
	"github.com/geritapp/gerit/internal/liststate"
)

type entityCatalog[T any] interface {
	List(ctx context.Context, q catalog.Query) liststate.Page[T]
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int64, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Paging bounds the page_size a client may ask for.
type Paging struct {
	PageSize    int
	MaxPageSize int
}

// EntityHandler serves CRUD for one catalog.
type EntityHandler[T any] struct {
	catalog entityCatalog[T]
	paging  Paging
}

func NewEntityHandler[T any](c entityCatalog[T], paging Paging) *EntityHandler[T] {
	if paging.PageSize <= 0 {
		paging.PageSize = liststate.DefaultPageSize
	}
	if paging.MaxPageSize < paging.PageSize {
		paging.MaxPageSize = paging.PageSize
	}
	return &EntityHandler[T]{catalog: c, paging: paging}
}

func (h *EntityHandler[T]) register(g *echo.Group, name string) {
	g.GET("/"+name, h.List)
	g.POST("/"+name, h.Create)
	g.GET("/"+name+"/:id", h.Get)
	g.PUT("/"+name+"/:id", h.Update)
	g.DELETE("/"+name+"/:id", h.Delete)
}

func (h *EntityHandler[T]) List(c echo.Context) error {
	q, err := parseQuery(c)
	if err != nil {
		return err
	}
	q.Page = intParam(c, "page", 1)
	q.PageSize = min(intParam(c, "page_size", h.paging.PageSize), h.paging.MaxPageSize)
	if q.PageSize <= 0 {
		q.PageSize = h.paging.PageSize
	}
	return ok(c, http.StatusOK, h.catalog.List(c.Request().Context(), q))
}

func (h *EntityHandler[T]) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	item, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, item)
}

func (h *EntityHandler[T]) Create(c echo.Context) error {
	var item T
	if err := c.Bind(&item); err != nil {
		return badRequest("bad_request", "invalid request body")
	}
	created, err := h.catalog.Create(c.Request().Context(), item)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, created)
}

func (h *EntityHandler[T]) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var item T
	if err := c.Bind(&item); err != nil {
		return badRequest("bad_request", "invalid request body")
	}
	updated, err := h.catalog.Update(c.Request().Context(), id, item)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, updated)
}

func (h *EntityHandler[T]) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid_id", "id must be a positive integer")
	}
	return id, nil
}

func intParam(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return v
}

const dateLayout = "2006-01-02"

// parseQuery reads the list filters shared by listing and export:
// q, sort, dir, status, from and to (YYYY-MM-DD).
func parseQuery(c echo.Context) (catalog.Query, error) {
	q := catalog.Query{
		Search: c.QueryParam("q"),
		Status: c.QueryParam("status"),
		Sort:   liststate.Sort{Key: c.QueryParam("sort")},
	}
	switch dir := liststate.Direction(strings.ToLower(c.QueryParam("dir"))); dir {
	case liststate.Asc, liststate.Desc:
		q.Sort.Direction = dir
	case "":
	default:
		return q, badRequest("invalid_sort", "dir must be asc or desc")
	}

	for name, dst := range map[string]*time.Time{"from": &q.From, "to": &q.To} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return q, badRequest("invalid_date", name+" must be a YYYY-MM-DD date")
		}
		*dst = t
	}
	return q, nil
}
