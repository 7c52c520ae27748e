package rest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"smartcity-ml/internal/analytics"
	app "smartcity-ml/internal/application"
	"smartcity-ml/internal/domain/port"
)

const headerInspectionID = "X-Inspection-ID"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "ML Service Running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleReady модель опциональна, её наличие только отражается в ответе.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ready",
		"model_loaded": s.damage.ModelLoaded(),
	})
}

func (s *Server) handlePredictDamage(w http.ResponseWriter, r *http.Request) {
	const endpoint = "predict-damage"
	id := uuid.NewString()
	w.Header().Set(headerInspectionID, id)

	kind, err := app.ParseScorerKind(r.URL.Query().Get("model"))
	if err != nil {
		s.fail(w, endpoint, id, err)
		return
	}

	data, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, endpoint, id, err)
		return
	}

	insp, err := s.damage.Predict(r.Context(), data, kind)
	if err != nil {
		s.fail(w, endpoint, id, err)
		return
	}

	log.Info().
		Str("inspection_id", id).
		Str("damage_type", string(insp.Result.DamageType)).
		Float64("severity", insp.Result.Severity).
		Int("regions", len(insp.Regions)).
		Msg("damage scored")
	s.obs.IncCounter(port.MetricRequestsTotal, 1, endpoint, "ok")
	respondJSON(w, http.StatusOK, insp.Result)
}

func (s *Server) handleDetectAnomaly(w http.ResponseWriter, r *http.Request) {
	const endpoint = "detect-anomaly"
	id := uuid.NewString()
	w.Header().Set(headerInspectionID, id)

	data, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, endpoint, id, err)
		return
	}

	result, err := s.analytics.DetectAnomaly(r.Context(), bytes.NewReader(data))
	if err != nil {
		s.fail(w, endpoint, id, err)
		return
	}

	log.Info().
		Str("inspection_id", id).
		Bool("anomaly_detected", result.AnomalyDetected).
		Int("flagged", len(result.AnomalyIndices)).
		Msg("usage log scored")
	s.obs.IncCounter(port.MetricRequestsTotal, 1, endpoint, "ok")
	respondJSON(w, http.StatusOK, result)
}

// handleForecast принимает массив [{"energy":...}] или объект {"history":[...]}.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	const endpoint = "forecast-demand"
	id := uuid.NewString()
	w.Header().Set(headerInspectionID, id)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.fail(w, endpoint, id, err)
		return
	}

	history, err := analytics.DecodeHistory(raw)
	if err != nil {
		s.fail(w, endpoint, id, err)
		return
	}

	result, err := s.analytics.Forecast(r.Context(), history)
	if err != nil {
		s.fail(w, endpoint, id, err)
		return
	}

	log.Info().
		Str("inspection_id", id).
		Float64("expected_next_peak", result.ExpectedNextPeak).
		Str("trend", string(result.Trend)).
		Msg("demand forecast")
	s.obs.IncCounter(port.MetricRequestsTotal, 1, endpoint, "ok")
	respondJSON(w, http.StatusOK, result)
}

// readUpload достаёт файл из поля file multipart-формы, иначе читает тело целиком.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, fmt.Errorf("%w: form field \"file\" is required", errBadRequest)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	defer file.Close()

	return io.ReadAll(file)
}

func (s *Server) fail(w http.ResponseWriter, endpoint, inspectionID string, err error) {
	status := statusFor(err)
	s.obs.IncCounter(port.MetricRequestsTotal, 1, endpoint, outcomeFor(status))

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("inspection_id", inspectionID).
		Str("endpoint", endpoint).
		Int("status", status).
		Msg("request failed")

	respondError(w, status, detailFor(status, err))
}
