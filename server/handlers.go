package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aouyang1/go-aqi-forecaster/aqi"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = iota

var errBadRequest = errors.New("bad request")

// requestID tags each request with the id from the incoming header or a new one
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) requestLogger(r *http.Request) *slog.Logger {
	id, _ := r.Context().Value(requestIDKey).(string)
	return s.logger.With("request_id", id, "path", r.URL.Path)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// parseRequest reads days and components from the query falling back to the defaults
func (s *Server) parseRequest(r *http.Request) (aqi.Request, error) {
	req := aqi.Request{
		ForecastDays:   s.opt.DefaultDays,
		ShowComponents: s.opt.ShowComponents,
	}

	q := r.URL.Query()
	if v := q.Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("days %q is not an integer, %w", v, aqi.ErrInvalidForecastDays)
		}
		req.ForecastDays = days
	}
	if v := q.Get("components"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("components %q is not a boolean, %w, %w", v, errBadRequest, aqi.ErrConfiguration)
		}
		req.ShowComponents = show
	}
	return req, aqi.ValidateForecastDays(req.ForecastDays)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) (*aqi.Presentation, bool) {
	req, err := s.parseRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	p, err := s.forecaster.Run(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	s.requestLogger(r).Debug("served forecast", "forecast_days", req.ForecastDays, "status", p.Status.String())
	return p, true
}

func (s *Server) forecastJSON(w http.ResponseWriter, r *http.Request) {
	p, ok := s.run(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) forecastHTML(w http.ResponseWriter, r *http.Request) {
	p, ok := s.run(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		s.writeError(w, r, fmt.Errorf("unable to render chart, %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.writeBody(w, r, buf.Bytes())
}

func (s *Server) forecastExport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.run(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := p.Export.WriteCSV(&buf); err != nil {
		s.writeError(w, r, fmt.Errorf("unable to write export, %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Export.Filename))
	s.writeBody(w, r, buf.Bytes())
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// statusCode maps an error to the http status. Invalid request parameters are client
// errors while every other configuration problem is on the server.
func statusCode(err error) int {
	switch {
	case errors.Is(err, aqi.ErrInvalidForecastDays):
		return http.StatusBadRequest
	case errors.Is(err, aqi.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)
	logger := s.requestLogger(r)
	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "status", code, "error", err)
	} else {
		logger.Warn("rejected request", "status", code, "error", err)
	}
	id, _ := r.Context().Value(requestIDKey).(string)
	s.writeJSON(w, r, code, errorResponse{Error: err.Error(), RequestID: id})
}

// writeJSON encodes v as the response body, failures after the status is sent are logged
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.requestLogger(r).Error("unable to write response", "error", err)
	}
}

func (s *Server) writeBody(w http.ResponseWriter, r *http.Request, body []byte) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.requestLogger(r).Error("unable to write response", "error", err)
	}
}
