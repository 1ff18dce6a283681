// Package handler contains the HTTP layer: request parsing, session gating,
// template rendering, and the JSON envelope the frontend consumes.
//
// Handlers never touch the database directly — they call services and
// translate the domain errors that come back into status codes (writeError)
// or re-rendered forms (the auth pages).
package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/sakif/weather-dashboard/internal/apperror"
	"github.com/sakif/weather-dashboard/internal/auth"
	"github.com/sakif/weather-dashboard/internal/service"
)

// AuthHandler serves the register/login/logout pages and flows.
//
// ERROR UX: auth failures do not produce JSON — they re-render the form
// with the message inline, so the user keeps their place. Only successful
// submissions redirect (303 See Other, so the browser re-GETs the target
// instead of replaying the POST).
type AuthHandler struct {
	service  *service.AuthService
	login    *template.Template
	register *template.Template
	logger   *slog.Logger
}

// NewAuthHandler parses the auth page templates and wires the service.
func NewAuthHandler(svc *service.AuthService, templateDir string, logger *slog.Logger) (*AuthHandler, error) {
	login, err := parsePage(templateDir, "login.html")
	if err != nil {
		return nil, err
	}
	register, err := parsePage(templateDir, "register.html")
	if err != nil {
		return nil, err
	}
	return &AuthHandler{
		service:  svc,
		login:    login,
		register: register,
		logger:   logger,
	}, nil
}

// authPageData feeds the login and register templates.
type authPageData struct {
	Title   string
	Message string
}

// HandleRegisterForm shows the registration page (GET /register).
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, "")
}

// HandleRegister processes a registration submission (POST /register).
//
// Success → redirect to /login. Validation and duplicate-username errors
// re-render the form with the message; anything else is a 500 page.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	err := h.service.Register(r.Context(), username, password)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			h.renderRegister(w, appErr.Message)
			return
		}
		h.logger.Error("registration failed", slog.String("error", err.Error()))
		http.Error(w, "An internal error occurred.", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLoginForm shows the login page (GET /login).
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, "")
}

// HandleLogin processes a login submission (POST /login).
//
// On success the session token goes into the cookie and the user lands on
// the dashboard. Bad credentials re-render the form — same message whether
// the username or the password was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	token, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			h.renderLogin(w, appErr.Message)
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		http.Error(w, "An internal error occurred.", http.StatusInternalServerError)
		return
	}

	auth.SetCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie and sends the user home
// (GET /logout). Idempotent: works fine with no session at all.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, message string) {
	data := authPageData{Title: "Register", Message: message}
	if err := h.register.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render register page", slog.String("error", err.Error()))
	}
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, message string) {
	data := authPageData{Title: "Login", Message: message}
	if err := h.login.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render login page", slog.String("error", err.Error()))
	}
}
