package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/store"
	"keyiflimasa/internal/views/pages"
)

const minPasswordLength = 8

type profileSignup struct {
	pages.SignupForm
	Password string
}

// Signup displays the shop registration form and processes new merchants.
func Signup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	applog.Debug(r.Context(), "handling signup request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		renderSignup(w, r, "", pages.SignupForm{})
	case http.MethodPost:
		if sessionManager == nil || shopStore == nil {
			applog.Debug(r.Context(), "registration dependencies unavailable", "hasSession", sessionManager != nil, "hasStore", shopStore != nil)
			http.Error(w, "registration not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse signup form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		form := profileSignup{
			SignupForm: pages.SignupForm{
				FullName: strings.TrimSpace(r.PostFormValue("full_name")),
				ShopName: strings.TrimSpace(r.PostFormValue("shop_name")),
				Email:    strings.ToLower(strings.TrimSpace(r.PostFormValue("email"))),
				Phone:    strings.TrimSpace(r.PostFormValue("phone")),
			},
			Password: r.PostFormValue("password"),
		}
		confirm := r.PostFormValue("confirm_password")

		if message := validateSignup(form, confirm); message != "" {
			applog.Debug(r.Context(), "signup rejected", "reason", message)
			renderSignup(w, r, message, form.SignupForm)
			return
		}

		profile, err := createProfile(r, form)
		if err != nil {
			if errors.Is(err, store.ErrEmailTaken) {
				renderSignup(w, r, "Bu e-posta ile kayıtlı bir hesap zaten var.", form.SignupForm)
				return
			}
			applog.Error(r.Context(), "failed to create profile", "error", err)
			renderSignup(w, r, "Hesabın şu an oluşturulamadı. Lütfen tekrar deneyin.", form.SignupForm)
			return
		}

		applog.Info(r.Context(), "shop registered", "profileID", profile.ID, "slug", profile.ShopSlug)

		if err := establishSession(r, profile); err != nil {
			applog.Error(r.Context(), "failed to establish session after signup", "error", err)
			renderSignup(w, r, "Hesabın oluşturuldu ama giriş yapılamadı. Lütfen giriş yap.", form.SignupForm)
			return
		}

		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func validateSignup(form profileSignup, confirm string) string {
	switch {
	case form.ShopName == "":
		return "Dükkan adı gerekli."
	case form.Email == "" || !strings.Contains(form.Email, "@"):
		return "Geçerli bir e-posta adresi gir."
	case len(form.Password) < minPasswordLength:
		return "Şifre en az 8 karakter olmalı."
	case form.Password != confirm:
		return "Şifreler eşleşmiyor."
	}
	return ""
}

func renderSignup(w http.ResponseWriter, r *http.Request, message string, form pages.SignupForm) {
	var component templ.Component
	if isHTMX(r) {
		component = pages.SignupPartial(message, form)
	} else {
		component = pages.Signup(message, form)
	}

	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render signup component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
