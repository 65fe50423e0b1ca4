package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

// AttendanceService is the write side used by the time-tracking routes
type AttendanceService interface {
	MarkArrival(ctx context.Context, personID, remarks string) (*entity.PopulatedRecord, error)
	MarkDeparture(ctx context.Context, personID, remarks string) (*entity.PopulatedRecord, error)
	CorrectRecord(ctx context.Context, id string, patch entity.RecordPatch) (*entity.PopulatedRecord, error)
	UpdateRemarks(ctx context.Context, id, remarks string) (*entity.PopulatedRecord, error)
	DeleteRecord(ctx context.Context, id string) error
}

// QueryService is the read side used by the time-tracking routes
type QueryService interface {
	Today(ctx context.Context) ([]*entity.PopulatedRecord, error)
	ByDay(ctx context.Context, day time.Time) ([]*entity.PopulatedRecord, error)
	ByPerson(ctx context.Context, personID string, start, end *time.Time) ([]*entity.PopulatedRecord, error)
}

// SummaryService builds daily summaries
type SummaryService interface {
	Today(ctx context.Context) (*entity.DailySummary, error)
	ForDay(ctx context.Context, day time.Time) (*entity.DailySummary, error)
}

// TimeTrackingHandler serves /time-tracking
type TimeTrackingHandler struct {
	attendance AttendanceService
	query      QueryService
	summaries  SummaryService
	logger     logger.Logger
}

// NewTimeTrackingHandler creates the time-tracking handler
func NewTimeTrackingHandler(attendance AttendanceService, query QueryService, summaries SummaryService, logger logger.Logger) *TimeTrackingHandler {
	return &TimeTrackingHandler{
		attendance: attendance,
		query:      query,
		summaries:  summaries,
		logger:     logger,
	}
}

// Register mounts the time-tracking endpoints on the router
func (h *TimeTrackingHandler) Register(r chi.Router) {
	r.Route("/time-tracking", func(r chi.Router) {
		r.Post("/arrival", h.HandleArrival)
		r.Post("/departure", h.HandleDeparture)
		r.Get("/today", h.HandleToday)
		r.Get("/date/{day}", h.HandleByDay)
		r.Get("/personnel/{personId}", h.HandleByPerson)
		r.Get("/summary/{day}", h.HandleSummary)
		r.Patch("/{id}", h.HandleCorrect)
		r.Patch("/{id}/remarks", h.HandleRemarks)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// HandleArrival handles POST /time-tracking/arrival
func (h *TimeTrackingHandler) HandleArrival(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.attendance.MarkArrival(r.Context(), req.PersonID, req.Remarks)
	if err != nil {
		h.fail(w, r, "mark arrival", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(record))
}

// HandleDeparture handles POST /time-tracking/departure
func (h *TimeTrackingHandler) HandleDeparture(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.attendance.MarkDeparture(r.Context(), req.PersonID, req.Remarks)
	if err != nil {
		h.fail(w, r, "mark departure", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(record))
}

// HandleToday handles GET /time-tracking/today
func (h *TimeTrackingHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	records, err := h.query.Today(r.Context())
	if err != nil {
		h.fail(w, r, "list today", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponses(records))
}

// HandleByDay handles GET /time-tracking/date/{day}
func (h *TimeTrackingHandler) HandleByDay(w http.ResponseWriter, r *http.Request) {
	day, err := entity.ParseDay("day", chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.query.ByDay(r.Context(), day)
	if err != nil {
		h.fail(w, r, "list by day", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponses(records))
}

// HandleByPerson handles GET /time-tracking/personnel/{personId}
func (h *TimeTrackingHandler) HandleByPerson(w http.ResponseWriter, r *http.Request) {
	start, err := optionalDay(r, "startDate")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := optionalDay(r, "endDate")
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.query.ByPerson(r.Context(), chi.URLParam(r, "personId"), start, end)
	if err != nil {
		h.fail(w, r, "list by person", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponses(records))
}

// HandleSummary handles GET /time-tracking/summary/{day}; day may be "today"
func (h *TimeTrackingHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	var (
		summary *entity.DailySummary
		err     error
	)

	if param := chi.URLParam(r, "day"); strings.EqualFold(param, "today") {
		summary, err = h.summaries.Today(r.Context())
	} else {
		day, perr := entity.ParseDay("day", param)
		if perr != nil {
			writeError(w, perr)
			return
		}
		summary, err = h.summaries.ForDay(r.Context(), day)
	}
	if err != nil {
		h.fail(w, r, "daily summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toDailySummaryResponse(summary))
}

// HandleCorrect handles PATCH /time-tracking/{id}
func (h *TimeTrackingHandler) HandleCorrect(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, entity.NewValidationError("body", "could not be read"))
		return
	}
	patch, err := decodeRecordPatch(body)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.attendance.CorrectRecord(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, "correct record", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(record))
}

// HandleRemarks handles PATCH /time-tracking/{id}/remarks
func (h *TimeTrackingHandler) HandleRemarks(w http.ResponseWriter, r *http.Request) {
	var req remarksRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// "" clears; a missing key is a validation error
	if req.Remarks == nil {
		writeError(w, entity.NewValidationError("remarks", "is required"))
		return
	}

	record, err := h.attendance.UpdateRemarks(r.Context(), chi.URLParam(r, "id"), *req.Remarks)
	if err != nil {
		h.fail(w, r, "update remarks", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(record))
}

// HandleDelete handles DELETE /time-tracking/{id}
func (h *TimeTrackingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendance.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete record", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Time record deleted successfully"})
}

// fail logs server-side failures and writes the mapped error
func (h *TimeTrackingHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	logFailure(h.logger, r, op, err)
	writeError(w, err)
}

func logFailure(log logger.Logger, r *http.Request, op string, err error) {
	if isClientError(err) {
		log.Debug("Request rejected", "operation", op, "error", err,
			"requestId", middleware.GetReqID(r.Context()))
		return
	}
	log.Error("Request failed", "operation", op, "error", err,
		"requestId", middleware.GetReqID(r.Context()))
}

func isClientError(err error) bool {
	for _, known := range []error{entity.ErrValidation, entity.ErrPersonNotFound, entity.ErrRecordNotFound, entity.ErrConflict} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

func optionalDay(r *http.Request, name string) (*time.Time, error) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return nil, nil
	}
	day, err := entity.ParseDay(name, value)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// decodeJSON decodes the request body into v, writing a 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, entity.NewValidationError("body", "must be valid JSON"))
		return false
	}
	return true
}
