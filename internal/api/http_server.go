// Package api exposes a small authenticated HTTP surface over the
// booking engine for the studio's admin tooling.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"smartstudio/internal/config"
	"smartstudio/internal/database"
	"smartstudio/internal/domain"
	"smartstudio/internal/metrics"
	"smartstudio/internal/models"
	"smartstudio/internal/schedule"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type HTTPServer struct {
	cfg      config.APIConfig
	bookings domain.BookingService
	server   *http.Server
	validate *validator.Validate
	logger   *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, bookings domain.BookingService, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		validate: validator.New(),
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/v1/availability", srv.handleAvailability)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/level", srv.handleLevel)
	mux.HandleFunc("/api/v1/equipment", srv.handleEquipment)

	auth := NewAuth(cfg)
	handler := srv.loggingMiddleware(auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAvailability returns the per-hour occupancy for one date, the
// same heat view the studio dashboard renders.
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	occupancy, err := s.bookings.Occupancy(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load occupancy")
		return
	}

	type hourInfo struct {
		Hour   int  `json:"hour"`
		Booked bool `json:"booked"`
		IsPeak bool `json:"is_peak"`
	}
	hours := make([]hourInfo, 0, len(occupancy))
	for h := schedule.OpenHour; h <= schedule.CloseHour; h++ {
		hours = append(hours, hourInfo{
			Hour:   h,
			Booked: occupancy[h] > 0,
			IsPeak: h >= schedule.PeakStartHour && h <= schedule.PeakEndHour,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"date": date, "hours": hours})
}

type createBookingRequest struct {
	CustomerName  string   `json:"customer_name" validate:"required"`
	Phone         string   `json:"phone" validate:"required,min=9"`
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartHour     int      `json:"start_hour" validate:"min=8,max=23"`
	DurationHours int      `json:"duration_hours" validate:"required,min=1"`
	Equipment     []string `json:"equipment"`
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	bookings, err := s.bookings.BookingsForDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "bookings": bookings})
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft := &models.Draft{
		Mode:          models.ModeBooking,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Date:          req.Date,
		StartHour:     &req.StartHour,
		DurationHours: &req.DurationHours,
		Equipment:     req.Equipment,
	}

	receipt, err := s.bookings.FinalizeBooking(r.Context(), draft)
	if errors.Is(err, database.ErrSlotTaken) {
		writeError(w, http.StatusConflict, "slot already booked")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func (s *HTTPServer) handleLevel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	level, hours, err := s.bookings.LevelForPhone(r.Context(), phone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute level")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"phone":       phone,
		"total_hours": hours,
		"level":       level,
	})
}

func (s *HTTPServer) handleEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	names, err := s.bookings.EquipmentNames(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load equipment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equipment": names})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		metrics.IncHTTP(r.URL.Path)
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return "", false
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return "", false
	}
	return raw, true
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
