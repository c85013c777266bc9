package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/lexinote/internal/convert"
	"github.com/and161185/lexinote/internal/errs"
)

const maxBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) convert.ErrorResponse {
	return convert.ErrorResponse{Error: msg}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: bad json: %v", errs.ErrInvalidArgument, err)
	}
	return nil
}

// statusOf maps domain sentinels to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrCategoryNotEmpty):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNoCategorySelected),
		errors.Is(err, errs.ErrNoProviders),
		errors.Is(err, errs.ErrInvalidProvider):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, errs.ErrTranslationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := statusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.log.Error(op, zap.String("path", r.URL.Path), zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, code, errorBody(msg))
}
