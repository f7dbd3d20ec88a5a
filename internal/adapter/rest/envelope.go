package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
)

// Envelope is the body of every response.
type Envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	ID      string             `json:"id,omitempty"`
	Item    interface{}        `json:"item,omitempty"`
	Items   interface{}        `json:"items,omitempty"`
	Errors  domain.FieldErrors `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Envelope{Success: status < http.StatusBadRequest, Message: message})
}

// errorEnvelope maps domain errors onto a status code and a failure envelope.
func errorEnvelope(err error) (int, Envelope) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, Envelope{Message: verr.Error(), Errors: verr.Fields}
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrUnsupportedPredicate):
		return http.StatusBadRequest, Envelope{Message: err.Error()}
	case errors.Is(err, domain.ErrUnknownCategory):
		return http.StatusNotFound, Envelope{Message: domain.ErrUnknownCategory.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, Envelope{Message: domain.ErrForbidden.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, Envelope{Message: domain.ErrNotFound.Error()}
	case errors.Is(err, domain.ErrSearch):
		return http.StatusBadGateway, Envelope{Message: "search is temporarily unavailable"}
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, Envelope{Message: "a storage service is temporarily unavailable"}
	default:
		return http.StatusInternalServerError, Envelope{Message: "internal server error"}
	}
}
