package apisrv

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/crownline/pageant-manager/internal/entity"
	gerr "github.com/crownline/pageant-manager/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

// RespondJSON writes a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("can't encode response",
			slog.String("err", err.Error()),
		)
	}
}

// RespondError maps domain errors onto HTTP statuses. Validation problems are
// the client's fault; unknown errors stay opaque 500s with the detail only in
// the log.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		RespondJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message})
	case errors.Is(err, gerr.ErrNotFound):
		RespondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, gerr.ErrCountryTaken), errors.Is(err, gerr.ErrSlugTaken):
		RespondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, gerr.ErrNothingSelected), errors.Is(err, gerr.ErrConfirmationRequired):
		RespondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.Default().ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
		RespondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(w http.ResponseWriter, msg string) {
	RespondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// TooManyRequests reports a rate-limited submission.
func TooManyRequests(w http.ResponseWriter, msg string) {
	RespondJSON(w, http.StatusTooManyRequests, errorResponse{Error: msg})
}
