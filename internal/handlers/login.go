package handlers

import (
	"net/http"
	"net/url"
	"strings"

	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/views/pages"
)

const (
	sessionReturnToKey = "auth:return_to"
	loginRetryMessage  = "Giriş yapılamadı. Lütfen tekrar deneyin."
)

// Login renders the sign-in form and processes submissions. A ?next= panel
// path given on GET is remembered in the session and used after sign-in.
func Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectTo(w, r, panelPath(r.URL.Query().Get("next")))
			return
		}
		message := ""
		if sessionManager != nil {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
			if next := panelPath(r.URL.Query().Get("next")); next != "/app" {
				sessionManager.Put(r.Context(), sessionReturnToKey, next)
			}
		}
		renderLogin(w, r, message, "")
	case http.MethodPost:
		submitLogin(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func submitLogin(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil || shopStore == nil {
		applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil, "hasStore", shopStore != nil)
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		renderLogin(w, r, "E-posta ve şifre gerekli.", email)
		return
	}

	if !authenticate(w, r, email, password) {
		applog.Debug(r.Context(), "authentication failed", "email", strings.ToLower(email))
		message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		if message == "" {
			message = loginRetryMessage
		}
		renderLogin(w, r, message, email)
		return
	}

	applog.Info(r.Context(), "merchant signed in", "email", strings.ToLower(email))
	redirectTo(w, r, panelPath(sessionManager.PopString(r.Context(), sessionReturnToKey)))
}

func renderLogin(w http.ResponseWriter, r *http.Request, message, email string) {
	if isHTMX(r) {
		renderComponent(w, r, pages.LoginPartial(message, email))
		return
	}
	renderComponent(w, r, pages.Login(message, email))
}

// panelPath accepts only local merchant panel paths as a post-login target
// and falls back to /app for anything else.
func panelPath(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/app"
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return "/app"
	}
	if parsed.Path != "/app" {
		return "/app"
	}
	return parsed.RequestURI()
}

// loginURL is the sign-in page that returns the merchant to r afterwards.
func loginURL(r *http.Request) string {
	if next := panelPath(r.URL.RequestURI()); next != "/app" {
		return "/login?next=" + url.QueryEscape(next)
	}
	return "/login"
}
