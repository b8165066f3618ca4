package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gamificationDomain "github.com/felixgeelhaar/workday/internal/gamification/domain"
	schedulingDomain "github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/felixgeelhaar/workday/internal/shared/infrastructure/httpclient"
)

// APIError is the JSON body of every non-2xx response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "Invalid request",
	}
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "Resource not found",
	}
	ErrConflict = &APIError{
		Status:  http.StatusConflict,
		Code:    "conflict",
		Message: "Request conflicts with the current state",
	}
	ErrUnavailable = &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "unavailable",
		Message: "Upstream service unavailable",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	}
)

func badRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrBadRequest.Code, Message: message}
}

// toAPIError maps domain sentinels to status codes. Unknown errors become
// a 500 without leaking the message.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	with := func(base *APIError) *APIError {
		return &APIError{Status: base.Status, Code: base.Code, Message: err.Error()}
	}
	switch {
	case errors.Is(err, schedulingDomain.ErrBlockNotFound),
		errors.Is(err, schedulingDomain.ErrScheduleNotFound),
		errors.Is(err, gamificationDomain.ErrProfileNotFound),
		errors.Is(err, gamificationDomain.ErrAchievementNotFound):
		return with(ErrNotFound)
	case errors.Is(err, schedulingDomain.ErrInvalidDate),
		errors.Is(err, schedulingDomain.ErrInvalidTimeOfDay),
		errors.Is(err, schedulingDomain.ErrInvalidBlockType),
		errors.Is(err, schedulingDomain.ErrInvalidBlockStatus),
		errors.Is(err, schedulingDomain.ErrInvalidTemplateDuration),
		errors.Is(err, schedulingDomain.ErrNonPositiveDuration),
		errors.Is(err, gamificationDomain.ErrUnknownAction):
		return with(ErrBadRequest)
	case errors.Is(err, schedulingDomain.ErrBlockNotCompletable):
		return with(ErrConflict)
	case errors.Is(err, httpclient.ErrCircuitOpen):
		return with(ErrUnavailable)
	}
	return ErrInternalServer
}

func writeError(w http.ResponseWriter, err error) {
	apiErr := toAPIError(err)
	writeJSON(w, apiErr.Status, apiErr)
}

// fail writes err and logs it when it maps to a server error.
func fail(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, apiErr.Status, apiErr)
}
