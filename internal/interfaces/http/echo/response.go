package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/geritapp/gerit/internal/application/catalog"
	"github.com/geritapp/gerit/internal/application/fieldservice"
	"github.com/geritapp/gerit/internal/application/importjob"
	"github.com/geritapp/gerit/internal/csvimport"
	authdomain "github.com/geritapp/gerit/internal/domain/auth"
	fsdomain "github.com/geritapp/gerit/internal/domain/fieldservice"
	reviewdomain "github.com/geritapp/gerit/internal/domain/review"
	"github.com/geritapp/gerit/internal/export"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

// requestError is an error a handler already knows the answer for.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{status: http.StatusBadRequest, code: code, message: message}
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, apiResponse{Data: data})
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{catalog.ErrNotFound, http.StatusNotFound, "not_found", "entity not found"},
	{fieldservice.ErrUnknownEntity, http.StatusNotFound, "unknown_entity", "unknown entity"},
	{importjob.ErrJobNotFound, http.StatusNotFound, "not_found", "import job not found"},
	{reviewdomain.ErrChangeNotFound, http.StatusNotFound, "not_found", "change not found"},
	{reviewdomain.ErrNoReview, http.StatusNotFound, "no_review", "change has not been analyzed"},
	{export.ErrNothingToExport, http.StatusNotFound, "nothing_to_export", "no items match the current filters"},
	{importjob.ErrInvalidJobID, http.StatusBadRequest, "invalid_job_id", "id must be a valid UUID"},
	{importjob.ErrInvalidImportSource, http.StatusBadRequest, "invalid_source", "file must be .csv, .txt or .xlsx"},
	{csvimport.ErrUnsupportedFormat, http.StatusBadRequest, "invalid_source", "file must be .csv, .txt or .xlsx"},
	{csvimport.ErrNotEnoughLines, http.StatusBadRequest, "not_enough_lines", "file must contain a header and at least one data row"},
	{csvimport.ErrSheetNotFound, http.StatusBadRequest, "invalid_source", "workbook has no readable sheet"},
	{catalog.ErrUnknownFormat, http.StatusBadRequest, "unknown_format", "unknown export format"},
	{fsdomain.ErrInUse, http.StatusConflict, "in_use", ""},
	{authdomain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "invalid email or password"},
	{authdomain.ErrSessionExpired, http.StatusUnauthorized, "session_expired", "session expired"},
	{authdomain.ErrSessionNotFound, http.StatusUnauthorized, "unauthorized", "login required"},
	{reviewdomain.ErrReviewFailed, http.StatusBadGateway, "review_failed", ""},
	{catalog.ErrRemote, http.StatusBadGateway, "remote_failed", "clients service rejected the request"},
	{importjob.ErrEnqueueImportJob, http.StatusInternalServerError, "internal_error", "failed to enqueue import job"},
}

// writeError answers with the status and code the error maps to. Unknown
// errors are logged and reported as internal.
func writeError(c echo.Context, log *logrus.Logger, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return c.JSON(reqErr.status, apiResponse{Error: &errorBody{Code: reqErr.code, Message: reqErr.message}})
	}

	var validation *fsdomain.ValidationError
	if errors.As(err, &validation) {
		return c.JSON(http.StatusUnprocessableEntity, apiResponse{Error: &errorBody{
			Code:    "validation_failed",
			Message: "some fields are invalid",
			Fields:  validation.Fields,
		}})
	}

	var mapping *catalog.MappingError
	if errors.As(err, &mapping) {
		fields := make(map[string]string, len(mapping.Missing))
		for _, f := range mapping.Missing {
			fields[f] = "required field is not mapped"
		}
		return c.JSON(http.StatusUnprocessableEntity, apiResponse{Error: &errorBody{
			Code:    "invalid_mapping",
			Message: mapping.Error(),
			Fields:  fields,
		}})
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.status >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("request failed")
		}
		message := m.message
		if message == "" {
			message = userMessage(err)
		}
		return c.JSON(m.status, apiResponse{Error: &errorBody{Code: m.code, Message: message}})
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return c.JSON(he.Code, apiResponse{Error: &errorBody{
			Code:    httpErrorCode(he.Code),
			Message: http.StatusText(he.Code),
		}})
	}

	log.WithError(err).WithField("path", c.Path()).Error("request failed")
	return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
		Code:    "internal_error",
		Message: "internal error",
	}})
}

// userMessage keeps messages meant for people, such as guard reasons and
// the review failure notice.
func userMessage(err error) string {
	var guard *fsdomain.GuardError
	if errors.As(err, &guard) {
		return guard.Reason
	}
	if errors.Is(err, reviewdomain.ErrReviewFailed) {
		return "review failed"
	}
	return err.Error()
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusBadRequest:
		return "bad_request"
	default:
		if status >= http.StatusInternalServerError {
			return "internal_error"
		}
		return "error"
	}
}

// NewErrorHandler is installed as echo's HTTPErrorHandler so errors from
// middleware and the router get the same envelope as handler errors.
func NewErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			var he *echo.HTTPError
			status := http.StatusInternalServerError
			if errors.As(err, &he) {
				status = he.Code
			}
			_ = c.NoContent(status)
			return
		}
		if werr := writeError(c, log, err); werr != nil {
			log.WithError(werr).Error("write error response")
		}
	}
}
