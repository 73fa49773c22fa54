package echo

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/geritapp/gerit/internal/application/catalog"
	"github.com/geritapp/gerit/internal/application/fieldservice"
	app "github.com/geritapp/gerit/internal/application/importjob"
	"github.com/geritapp/gerit/internal/csvimport"
)

type entityResolver interface {
	Entity(name string) (fieldservice.Entity, error)
}

type uploadStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// ImportHandler previews and applies uploaded files. Async imports are
// saved to the upload store and queued for the worker.
type ImportHandler struct {
	entities  entityResolver
	uploads   uploadStore
	start     app.StartImport
	getJob    app.GetImportJob
	listJobs  app.ListImportJobs
	maxUpload int64
}

type ImportHandlerConfig struct {
	Entities  entityResolver
	Uploads   uploadStore
	Start     app.StartImport
	GetJob    app.GetImportJob
	ListJobs  app.ListImportJobs
	MaxUpload int64
}

func NewImportHandler(cfg ImportHandlerConfig) *ImportHandler {
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = 10 << 20
	}
	return &ImportHandler{
		entities:  cfg.Entities,
		uploads:   cfg.Uploads,
		start:     cfg.Start,
		getJob:    cfg.GetJob,
		listJobs:  cfg.ListJobs,
		maxUpload: cfg.MaxUpload,
	}
}

type uploadForm struct {
	file           *multipart.FileHeader
	mapping        csvimport.Mapping
	updateExisting bool
}

// readForm reads the upload. Rows matching an existing key update it unless
// update_existing is false.
func (h *ImportHandler) readForm(c echo.Context) (uploadForm, error) {
	form := uploadForm{updateExisting: true}

	fh, err := c.FormFile("file")
	if err != nil {
		return form, badRequest("missing_file", "multipart field \"file\" is required")
	}
	if fh.Size > h.maxUpload {
		return form, &requestError{status: http.StatusRequestEntityTooLarge, code: "too_large", message: "file exceeds the upload limit"}
	}
	if !csvimport.Supported(fh.Filename) {
		return form, app.ErrInvalidImportSource
	}
	form.file = fh

	if raw := c.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form.mapping); err != nil {
			return form, badRequest("invalid_mapping", "mapping must be a JSON object of column index to field")
		}
	}
	if raw := c.FormValue("update_existing"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return form, badRequest("bad_request", "update_existing must be a boolean")
		}
		form.updateExisting = v
	}
	return form, nil
}

func (h *ImportHandler) request(form uploadForm) (catalog.ImportRequest, error) {
	f, err := form.file.Open()
	if err != nil {
		return catalog.ImportRequest{}, err
	}
	defer f.Close()

	table, err := csvimport.ReadTable(form.file.Filename, f)
	if err != nil {
		return catalog.ImportRequest{}, err
	}
	return catalog.ImportRequest{
		Source:         form.file.Filename,
		Table:          table,
		Mapping:        form.mapping,
		UpdateExisting: form.updateExisting,
	}, nil
}

// Preview classifies the rows of an uploaded file without writing.
func (h *ImportHandler) Preview(entity string) echo.HandlerFunc {
	return func(c echo.Context) error {
		e, err := h.entities.Entity(entity)
		if err != nil {
			return err
		}
		form, err := h.readForm(c)
		if err != nil {
			return err
		}
		req, err := h.request(form)
		if err != nil {
			return err
		}
		preview, err := e.PreviewImport(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return ok(c, http.StatusOK, preview)
	}
}

// Import applies an uploaded file. With ?async=true the file is queued and
// the job id is returned with 202.
func (h *ImportHandler) Import(entity string) echo.HandlerFunc {
	return func(c echo.Context) error {
		e, err := h.entities.Entity(entity)
		if err != nil {
			return err
		}
		form, err := h.readForm(c)
		if err != nil {
			return err
		}

		if async, _ := strconv.ParseBool(c.QueryParam("async")); async {
			return h.enqueue(c, entity, form)
		}

		req, err := h.request(form)
		if err != nil {
			return err
		}
		outcome, err := e.Import(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return ok(c, http.StatusOK, outcome)
	}
}

func (h *ImportHandler) enqueue(c echo.Context, entity string, form uploadForm) error {
	if h.uploads == nil || h.start == nil {
		return &requestError{status: http.StatusNotImplemented, code: "async_unavailable", message: "background imports are not enabled"}
	}

	f, err := form.file.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	ctx := c.Request().Context()
	stored, err := h.uploads.Save(ctx, form.file.Filename, f)
	if err != nil {
		return err
	}

	out, err := h.start.Execute(ctx, app.StartImportInput{
		Entity:         entity,
		SourcePath:     stored,
		Mapping:        form.mapping,
		UpdateExisting: form.updateExisting,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusAccepted, out)
}

func (h *ImportHandler) GetJob(c echo.Context) error {
	if h.getJob == nil {
		return echo.ErrNotFound
	}
	job, err := h.getJob.Execute(c.Request().Context(), app.GetImportJobInput{ID: c.Param("id")})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, job)
}

func (h *ImportHandler) ListJobs(c echo.Context) error {
	if h.listJobs == nil {
		return echo.ErrNotFound
	}
	jobs, err := h.listJobs.Execute(c.Request().Context(), app.ListImportJobsInput{
		Entity: c.QueryParam("entity"),
		Limit:  intParam(c, "limit", 0),
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, jobs)
}

// Columns lists the import fields of an entity for building a mapping.
func (h *ImportHandler) Columns(entity string) echo.HandlerFunc {
	return func(c echo.Context) error {
		e, err := h.entities.Entity(entity)
		if err != nil {
			return err
		}
		return ok(c, http.StatusOK, e.ImportColumns())
	}
}
