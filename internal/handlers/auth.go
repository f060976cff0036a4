package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"

	"keyiflimasa/internal/checkout"
	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/storage"
	"keyiflimasa/internal/store"
	"keyiflimasa/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionLoginMessageKey  = "auth:message"
	sessionUserIDKey        = "auth:profile:id"
	sessionUserEmailKey     = "auth:profile:email"
	sessionShopNameKey      = "auth:profile:shop"
)

// Dependencies are the services the handlers need. Images may be nil when
// object storage is not configured.
type Dependencies struct {
	Store         *store.Store
	Checkout      *checkout.Service
	Images        storage.ImageStore
	PublicBaseURL string
}

var (
	sessionManager *scs.SessionManager
	shopStore      *store.Store
	orderService   *checkout.Service
	imageStore     storage.ImageStore
	publicBaseURL  string
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, deps Dependencies) {
	sessionManager = sm
	shopStore = deps.Store
	orderService = deps.Checkout
	imageStore = deps.Images
	publicBaseURL = strings.TrimRight(deps.PublicBaseURL, "/")
}

func createProfile(r *http.Request, form profileSignup) (*models.Profile, error) {
	if shopStore == nil {
		return nil, errors.New("store not configured")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Email:        form.Email,
		FullName:     form.FullName,
		Phone:        form.Phone,
		ShopName:     form.ShopName,
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := shopStore.CreateProfile(r.Context(), profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// authenticate verifies the provided credentials and populates the session if successful.
func authenticate(w http.ResponseWriter, r *http.Request, email, password string) bool {
	if sessionManager == nil || shopStore == nil {
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return false
	}

	profile, err := shopStore.ProfileByEmail(r.Context(), email)
	if err != nil {
		if store.IsNotFound(err) {
			sessionManager.Put(r.Context(), sessionLoginMessageKey, "E-posta veya şifre hatalı.")
		} else {
			applog.Error(r.Context(), "failed to load profile during login", "error", err)
			sessionManager.Put(r.Context(), sessionLoginMessageKey, loginRetryMessage)
		}
		return false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		sessionManager.Put(r.Context(), sessionLoginMessageKey, "E-posta veya şifre hatalı.")
		return false
	}

	if err := establishSession(r, profile); err != nil {
		applog.Error(r.Context(), "failed to establish session", "error", err)
		sessionManager.Put(r.Context(), sessionLoginMessageKey, loginRetryMessage)
		return false
	}

	return true
}

func establishSession(r *http.Request, profile *models.Profile) error {
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}
	if err := sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	sessionManager.Put(r.Context(), sessionAuthenticatedKey, true)
	sessionManager.Put(r.Context(), sessionUserIDKey, int(profile.ID))
	sessionManager.Put(r.Context(), sessionUserEmailKey, profile.Email)
	sessionManager.Put(r.Context(), sessionShopNameKey, profile.ShopName)
	return nil
}

// RequireAuthentication ensures the merchant has an active session before accessing the resource.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActiveSession(r) {
			if strings.HasPrefix(r.URL.Path, "/app/api/") {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if isHTMX(r) {
				redirectToLogin(w, r)
				return
			}
			http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logout destroys the current session and redirects to the login screen.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sessionManager != nil {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}

	redirectToLogin(w, r)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func redirectToApp(w http.ResponseWriter, r *http.Request) {
	redirectTo(w, r, "/app")
}

func redirectTo(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	if sessionManager == nil {
		return false
	}
	return sessionManager.GetBool(r.Context(), sessionAuthenticatedKey) && sessionManager.GetInt(r.Context(), sessionUserIDKey) > 0
}

func currentProfileID(r *http.Request) (uint, bool) {
	if !ActiveSession(r) {
		return 0, false
	}
	return uint(sessionManager.GetInt(r.Context(), sessionUserIDKey)), true
}

func loadCurrentProfile(r *http.Request) (*models.Profile, error) {
	id, ok := currentProfileID(r)
	if !ok {
		return nil, errors.New("no authenticated profile")
	}
	if shopStore == nil {
		return nil, errors.New("store not configured")
	}
	return shopStore.ProfileByID(r.Context(), id)
}

// merchantID resolves the session profile for JSON APIs, writing the error
// response itself when it cannot.
func merchantID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	if shopStore == nil {
		applog.Debug(r.Context(), "merchant request without store", "path", r.URL.Path)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return 0, false
	}
	id, ok := currentProfileID(r)
	if !ok {
		applog.Debug(r.Context(), "merchant request missing authenticated profile", "path", r.URL.Path)
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return id, true
}

func shopURL(slug string) string {
	return publicBaseURL + "/dukkan/" + slug
}
