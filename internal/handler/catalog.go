package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/weather-dashboard/internal/service"
)

// CatalogHandler serves the mutating JSON endpoints: adding locations and
// adding, removing, and generating facts.
//
// All four require a session — but the check is per-handler, not
// router-level, because each endpoint has its own 403 message. The frontend
// shows these verbatim.
type CatalogHandler struct {
	locations *service.LocationService
	facts     *service.FactService
	logger    *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(
	locations *service.LocationService,
	facts *service.FactService,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		locations: locations,
		facts:     facts,
		logger:    logger,
	}
}

// HandleAddLocation adds a location to the catalog (POST /add_location).
//
// Form fields: city, country. The service validates the pair against the
// weather provider before storing it.
func (h *CatalogHandler) HandleAddLocation(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUser(w, r, "add a location")
	if !ok {
		return
	}

	city := r.FormValue("city")
	country := r.FormValue("country")

	if _, err := h.locations.Add(r.Context(), city, country); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("location added via form",
		slog.String("username", username),
		slog.String("city", city),
	)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Location added successfully!"})
}

// HandleAddFact stores a user-written fact (POST /generate_fact).
//
// Form field: fact. Capped at the configured maximum.
func (h *CatalogHandler) HandleAddFact(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUser(w, r, "add a fact")
	if !ok {
		return
	}

	text := r.FormValue("fact")

	if _, err := h.facts.Add(r.Context(), text); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("fact added", slog.String("username", username))
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Fact added successfully!"})
}

// HandleRemoveFact deletes a fact by id (POST /remove_fact).
//
// Form field: fact_id. A malformed id is a 400, an unknown one a 404.
func (h *CatalogHandler) HandleRemoveFact(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUser(w, r, "remove a fact")
	if !ok {
		return
	}

	id := r.FormValue("fact_id")

	if err := h.facts.Remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("fact removed",
		slog.String("username", username),
		slog.String("fact_id", id),
	)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Fact removed successfully!"})
}

// HandleGenerateFact asks the language-model gateway for a fresh fact and
// stores it (POST /generate_chatgpt_fact). No form fields.
//
// The success envelope carries the stored fact so the frontend can append
// it without reloading. Missing API key and provider failures both come
// back as 500 with the provider's message in the envelope.
func (h *CatalogHandler) HandleGenerateFact(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUser(w, r, "generate a fact")
	if !ok {
		return
	}

	fact, err := h.facts.GenerateAndSave(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("fact generated",
		slog.String("username", username),
		slog.String("fact_id", fact.ID),
	)
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Fact generated successfully!",
		Fact:    fact,
	})
}
