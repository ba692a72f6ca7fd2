package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Sriram-PR/docnav/pkg/utils"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response
type errorBody struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps sentinel errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, utils.ErrDocumentNotFound),
		errors.Is(err, utils.ErrCollectionUnknown),
		errors.Is(err, utils.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrInvalidRequest),
		errors.Is(err, utils.ErrPartialSelection):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	category := utils.CategorizeError(err)
	if status == http.StatusInternalServerError {
		s.log.WithField("error_type", category).Errorf("Request error: %v", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Category: category})
}

// decodeBody reads a JSON request body into v
func decodeBody(r *http.Request, w http.ResponseWriter, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %w", utils.ErrInvalidRequest, err)
	}
	return nil
}
