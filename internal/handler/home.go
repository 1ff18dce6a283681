package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/weather-dashboard/internal/auth"
	"github.com/sakif/weather-dashboard/internal/model"
	"github.com/sakif/weather-dashboard/internal/service"
	"github.com/sakif/weather-dashboard/internal/weather"
)

// defaultSelector is the location shown when the user hasn't picked one.
const defaultSelector = "Tel Aviv,IL"

// HomeHandler renders the dashboard (GET and POST /).
//
// POST is how the location dropdown works: selecting a city submits the
// form back to / with a "location" field, and the page re-renders with
// that city's weather. GET reads the same field from the query string, so
// a bookmarked /?location=Tokyo,JP works too.
type HomeHandler struct {
	locations *service.LocationService
	facts     *service.FactService
	weather   service.WeatherProvider
	index     *template.Template
	logger    *slog.Logger
}

// NewHomeHandler parses the dashboard template and wires the services.
func NewHomeHandler(
	locations *service.LocationService,
	facts *service.FactService,
	provider service.WeatherProvider,
	templateDir string,
	logger *slog.Logger,
) (*HomeHandler, error) {
	index, err := parsePage(templateDir, "index.html")
	if err != nil {
		return nil, err
	}
	return &HomeHandler{
		locations: locations,
		facts:     facts,
		weather:   provider,
		index:     index,
		logger:    logger,
	}, nil
}

// homePageData feeds the dashboard template.
type homePageData struct {
	Title     string
	Username  string // empty when browsing anonymously
	LoggedIn  bool
	Weather   *weather.Info // nil renders the "unavailable" notice
	Selected  string        // the "city,country" selector of the shown location
	Max       int
	Locations []model.Location
	Facts     []model.Fact
}

// HandleHome renders the dashboard.
//
// Order matters here:
//  1. Seed the default catalogs if either is empty (first visit bootstraps
//     the database)
//  2. Resolve which location to show — form/query value, else the default
//  3. Fetch weather; a nil result is NOT an error, the page renders with
//     an "unavailable" notice instead
//
// The selector is "city,country"; one with no comma is a client mistake
// and gets a plain 400.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.locations.EnsureDefaults(ctx); err != nil {
		h.logger.Error("failed to seed locations", slog.String("error", err.Error()))
		http.Error(w, "An internal error occurred.", http.StatusInternalServerError)
		return
	}
	if err := h.facts.EnsureDefaults(ctx); err != nil {
		h.logger.Error("failed to seed facts", slog.String("error", err.Error()))
		http.Error(w, "An internal error occurred.", http.StatusInternalServerError)
		return
	}

	selected := r.FormValue("location")
	if selected == "" {
		selected = defaultSelector
	}
	city, country, ok := strings.Cut(selected, ",")
	if !ok {
		http.Error(w, "location must be city,country", http.StatusBadRequest)
		return
	}

	locations, err := h.locations.List(ctx)
	if err != nil {
		h.logger.Error("failed to list locations", slog.String("error", err.Error()))
		http.Error(w, "An internal error occurred.", http.StatusInternalServerError)
		return
	}
	facts, err := h.facts.List(ctx)
	if err != nil {
		h.logger.Error("failed to list facts", slog.String("error", err.Error()))
		http.Error(w, "An internal error occurred.", http.StatusInternalServerError)
		return
	}

	// nil on any upstream failure — the page still renders.
	info := h.weather.Current(ctx, city, country)

	username, loggedIn := auth.UsernameFromContext(ctx)

	data := homePageData{
		Title:     "Weather Dashboard",
		Username:  username,
		LoggedIn:  loggedIn,
		Weather:   info,
		Selected:  selected,
		Max:       h.facts.MaxFacts(),
		Locations: locations,
		Facts:     facts,
	}
	if err := h.index.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render dashboard", slog.String("error", err.Error()))
	}
}
