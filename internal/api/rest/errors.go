package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	app "smartcity-ml/internal/application"
	"smartcity-ml/internal/domain/entity"
)

// errBadRequest некорректная форма или тело запроса.
var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case entity.IsClientError(err),
		errors.Is(err, errBadRequest),
		errors.Is(err, app.ErrUnknownScorer):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func outcomeFor(status int) string {
	switch {
	case status < 400:
		return "ok"
	case status < 500:
		return "client_error"
	default:
		return "server_error"
	}
}

// detailFor внутренние ошибки наружу не отдаём.
func detailFor(status int, err error) string {
	switch status {
	case http.StatusInternalServerError:
		return "internal error"
	case http.StatusGatewayTimeout:
		return "model inference timed out"
	case http.StatusRequestEntityTooLarge:
		return "upload is too large"
	default:
		return err.Error()
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
