package handler

// RESPONSE HELPERS:
// Every mutating JSON endpoint answers with the same envelope:
//
//	{"success": true,  "message": "Location added successfully!"}
//	{"success": false, "message": "Location already exists."}
//
// The frontend only ever reads success and message (plus the optional fact
// on generation), regardless of status code. writeError is where domain
// errors from the service layer get translated to HTTP — services return
// apperror values, never status codes.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/weather-dashboard/internal/apperror"
	"github.com/sakif/weather-dashboard/internal/auth"
	"github.com/sakif/weather-dashboard/internal/model"
)

// Response is the standard JSON envelope for the mutating endpoints.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Fact    *model.Fact `json:"fact,omitempty"` // set by /generate_chatgpt_fact only
}

// writeJSON sends a JSON response with the given status code.
//
// Headers must be set before WriteHeader, and WriteHeader before the body —
// once the body starts, header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its status code and sends the envelope.
//
// errors.Is() walks the whole error chain (via Unwrap), so a service error
// wrapped with fmt.Errorf("...: %w", appErr) still matches its sentinel.
//
// Status mapping, per the page's contract:
//
//	validation, conflict, capacity → 400 (duplicates are a 400 here, not 409)
//	not found                      → 404
//	forbidden (no session)         → 403
//	config, upstream               → 500 (message preserved — the envelope
//	                                 carries the provider's failure text)
//	anything else                  → 500 with a generic message
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrConflict),
			errors.Is(err, apperror.ErrCapacity):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrConfig), errors.Is(err, apperror.ErrUpstream):
			status = http.StatusInternalServerError
		}

		writeJSON(w, status, Response{Success: false, Message: appErr.Message})
		return
	}

	// Unknown error — never leak internals (SQL, file paths) to the client.
	writeJSON(w, http.StatusInternalServerError, Response{
		Success: false,
		Message: "An internal error occurred.",
	})
}

// requireUser is the session gate every mutating endpoint runs first.
//
// The action string makes the 403 message endpoint-specific:
// "You must be logged in to add a location." and so on. Returns the
// username and true when a session is present; writes the 403 envelope
// and returns false otherwise.
func requireUser(w http.ResponseWriter, r *http.Request, action string) (string, bool) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Forbidden("You must be logged in to "+action+"."))
		return "", false
	}
	return username, true
}
