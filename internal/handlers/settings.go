package handlers

import (
	"net/http"
	"strings"

	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/store"
	"keyiflimasa/models"
)

type settingsRequest struct {
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	ShopName        string `json:"shop_name"`
	ShopDescription string `json:"shop_description"`
	Address         string `json:"address"`
}

type settingsResponse struct {
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	ShopName        string `json:"shop_name"`
	ShopSlug        string `json:"shop_slug"`
	ShopURL         string `json:"shop_url"`
	ShopDescription string `json:"shop_description"`
	ShopImageURL    string `json:"shop_image_url"`
	Address         string `json:"address"`
}

// Settings reads and updates the merchant's shop profile. POST
// /app/api/settings/image replaces the shop photo.
func Settings(w http.ResponseWriter, r *http.Request) {
	profileID, ok := merchantID(w, r)
	if !ok {
		return
	}

	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/app/api/settings"), "/")
	switch {
	case action == "image" && r.Method == http.MethodPost:
		uploadShopImage(w, r, profileID)
	case action == "" && r.Method == http.MethodGet:
		profile, err := shopStore.ProfileByID(r.Context(), profileID)
		if err != nil {
			respondStoreError(w, r, err, "unable to load settings")
			return
		}
		writeJSON(w, http.StatusOK, projectSettings(*profile))
	case action == "" && (r.Method == http.MethodPut || r.Method == http.MethodPost):
		updateSettings(w, r, profileID)
	case action == "" || action == "image":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func updateSettings(w http.ResponseWriter, r *http.Request, profileID uint) {
	var payload settingsRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid settings payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.ShopName) == "" {
		writeJSONError(w, http.StatusBadRequest, "shop_name is required")
		return
	}

	profile, err := shopStore.UpdateProfile(r.Context(), profileID, store.ProfileUpdate{
		FullName:        payload.FullName,
		Phone:           payload.Phone,
		ShopName:        payload.ShopName,
		ShopDescription: payload.ShopDescription,
		Address:         payload.Address,
	})
	if err != nil {
		respondStoreError(w, r, err, "unable to save settings")
		return
	}
	if sessionManager != nil {
		sessionManager.Put(r.Context(), sessionShopNameKey, profile.ShopName)
	}
	writeJSON(w, http.StatusOK, projectSettings(*profile))
}

func uploadShopImage(w http.ResponseWriter, r *http.Request, profileID uint) {
	url, ok := receiveImage(w, r, "shops", profileID)
	if !ok {
		return
	}
	if err := shopStore.SetShopImage(r.Context(), profileID, url); err != nil {
		respondStoreError(w, r, err, "unable to save shop image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"shop_image_url": url})
}

func projectSettings(profile models.Profile) settingsResponse {
	return settingsResponse{
		Email:           profile.Email,
		FullName:        profile.FullName,
		Phone:           profile.Phone,
		ShopName:        profile.ShopName,
		ShopSlug:        profile.ShopSlug,
		ShopURL:         shopURL(profile.ShopSlug),
		ShopDescription: profile.ShopDescription,
		ShopImageURL:    profile.ShopImageURL,
		Address:         profile.Address,
	}
}
