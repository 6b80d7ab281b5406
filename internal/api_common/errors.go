package api_common

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/backend"
)

// HttpStatusError carries the status to respond with. The response message is what the caller sees; the internal
// error is only exposed in debug mode.
type HttpStatusError struct {
	Status      int
	ResponseMsg string
	InternalErr error
}

func (e *HttpStatusError) Error() string {
	if e.InternalErr != nil {
		return e.InternalErr.Error()
	}
	if e.ResponseMsg != "" {
		return e.ResponseMsg
	}
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.Status, http.StatusText(e.Status))
	}
	return "Unknown error"
}

func (e *HttpStatusError) Unwrap() error {
	return e.InternalErr
}

func (e *HttpStatusError) ResponseMsgOrDefault() string {
	if e.ResponseMsg != "" {
		return e.ResponseMsg
	}
	return http.StatusText(e.Status)
}

// ErrorResponse is the JSON body of every error returned by the API. Clients decode it to recover the message.
type ErrorResponse struct {
	Error      string `json:"error"`
	StackTrace string `json:"stack_trace,omitempty"`
}

func (e *HttpStatusError) toErrorResponse(cfg Debuggable) *ErrorResponse {
	resp := &ErrorResponse{
		Error: e.ResponseMsgOrDefault(),
	}

	if cfg != nil && cfg.IsDebugMode() && e.InternalErr != nil {
		resp.StackTrace = fmt.Sprintf("%+v", e.InternalErr)
	}

	return resp
}

func (e *HttpStatusError) WriteGinResponse(cfg Debuggable, gctx *gin.Context) {
	if e.InternalErr != nil {
		AddGinDebugHeaderError(cfg, gctx, e.InternalErr)
	}

	gctx.Header("Content-Type", "application/json")
	gctx.AbortWithStatusJSON(e.Status, e.toErrorResponse(cfg))
}

// StatusForBackendError picks the HTTP status for an error returned by a backend.
func StatusForBackendError(err error) int {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, backend.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, backend.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type HttpStatusErrorBuilder interface {
	WithStatus(status int) HttpStatusErrorBuilder
	WithStatusBadRequest() HttpStatusErrorBuilder
	WithStatusUnauthorized() HttpStatusErrorBuilder
	WithStatusNotFound() HttpStatusErrorBuilder

	// DefaultStatus sets the status if it has not already been set to something other than 500.
	DefaultStatus(status int) HttpStatusErrorBuilder

	WithResponseMsg(msg string) HttpStatusErrorBuilder
	WithResponseMsgf(format string, args ...interface{}) HttpStatusErrorBuilder
	WithInternalErr(err error) HttpStatusErrorBuilder

	// FromBackendErr takes the status from the backend error kind. Client facing messages are kept for everything
	// except internal failures.
	FromBackendErr(err error) HttpStatusErrorBuilder

	BuildStatusError() *HttpStatusError
	Build() error
}

type httpStatusErrorBuilder struct {
	err *HttpStatusError
}

func NewHttpStatusErrorBuilder() HttpStatusErrorBuilder {
	return &httpStatusErrorBuilder{
		err: &HttpStatusError{
			Status: http.StatusInternalServerError,
		},
	}
}

func (b *httpStatusErrorBuilder) WithStatus(status int) HttpStatusErrorBuilder {
	b.err.Status = status
	return b
}

func (b *httpStatusErrorBuilder) WithStatusBadRequest() HttpStatusErrorBuilder {
	return b.DefaultStatus(http.StatusBadRequest)
}

func (b *httpStatusErrorBuilder) WithStatusUnauthorized() HttpStatusErrorBuilder {
	return b.DefaultStatus(http.StatusUnauthorized)
}

func (b *httpStatusErrorBuilder) WithStatusNotFound() HttpStatusErrorBuilder {
	return b.DefaultStatus(http.StatusNotFound)
}

func (b *httpStatusErrorBuilder) DefaultStatus(status int) HttpStatusErrorBuilder {
	if b.err.Status == 0 || b.err.Status == http.StatusInternalServerError {
		b.err.Status = status
	}
	return b
}

func (b *httpStatusErrorBuilder) WithResponseMsg(msg string) HttpStatusErrorBuilder {
	b.err.ResponseMsg = msg
	return b
}

func (b *httpStatusErrorBuilder) WithResponseMsgf(format string, args ...interface{}) HttpStatusErrorBuilder {
	b.err.ResponseMsg = fmt.Sprintf(format, args...)
	return b
}

func (b *httpStatusErrorBuilder) WithInternalErr(err error) HttpStatusErrorBuilder {
	var existing *HttpStatusError
	if errors.As(err, &existing) {
		b.err.Status = existing.Status
		b.err.ResponseMsg = existing.ResponseMsg
	}
	b.err.InternalErr = err
	return b
}

func (b *httpStatusErrorBuilder) FromBackendErr(err error) HttpStatusErrorBuilder {
	b.err.InternalErr = err
	b.err.Status = StatusForBackendError(err)
	if b.err.Status != http.StatusInternalServerError {
		b.err.ResponseMsg = err.Error()
	}
	return b
}

func (b *httpStatusErrorBuilder) BuildStatusError() *HttpStatusError {
	return b.err
}

func (b *httpStatusErrorBuilder) Build() error {
	return b.BuildStatusError()
}
