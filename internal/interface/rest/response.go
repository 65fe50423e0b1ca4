package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"personnel-tracker/internal/domain/entity"
)

// errorResponse is the JSON body of every failed request
type errorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []entity.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes and error codes
func writeError(w http.ResponseWriter, err error) {
	var verr *entity.ValidationError
	var serr *entity.StorageError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "validation_error",
			Message: verr.Error(),
			Fields:  verr.Errors,
		})
	case errors.Is(err, entity.ErrPersonNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "person_not_found", Message: "Personnel not found"})
	case errors.Is(err, entity.ErrRecordNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "record_not_found", Message: "Time record not found"})
	case errors.Is(err, entity.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "conflict", Message: err.Error()})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage_error", Message: "Storage failure"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: "Internal server error"})
	}
}

// messageResponse confirms an operation without returning a resource
type messageResponse struct {
	Message string `json:"message"`
}
