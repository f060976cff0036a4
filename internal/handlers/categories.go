package handlers

import (
	"net/http"
	"strings"

	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/store"
	"keyiflimasa/models"
)

const categoriesPathPrefix = "/app/api/categories"

type categoryRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

type categoryResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

// CategoryResource handles CRUD for menu categories.
func CategoryResource(w http.ResponseWriter, r *http.Request) {
	profileID, ok := merchantID(w, r)
	if !ok {
		return
	}

	identifier, rest := resourcePath(r.URL.Path, categoriesPathPrefix)
	if identifier == "" {
		switch r.Method {
		case http.MethodGet:
			categories, err := shopStore.ListCategories(r.Context(), profileID)
			if err != nil {
				applog.Error(r.Context(), "failed to list categories", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "unable to load categories")
				return
			}
			responses := make([]categoryResponse, 0, len(categories))
			for _, category := range categories {
				responses = append(responses, projectCategory(category))
			}
			writeJSON(w, http.StatusOK, responses)
		case http.MethodPost:
			input, ok := decodeCategory(w, r)
			if !ok {
				return
			}
			category, err := shopStore.CreateCategory(r.Context(), profileID, input)
			if err != nil {
				respondStoreError(w, r, err, "unable to create category")
				return
			}
			writeJSON(w, http.StatusCreated, projectCategory(*category))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	id, err := parseID(identifier)
	if err != nil || len(rest) > 0 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		input, ok := decodeCategory(w, r)
		if !ok {
			return
		}
		category, err := shopStore.UpdateCategory(r.Context(), profileID, id, input)
		if err != nil {
			respondStoreError(w, r, err, "unable to update category")
			return
		}
		writeJSON(w, http.StatusOK, projectCategory(*category))
	case http.MethodDelete:
		if err := shopStore.DeleteCategory(r.Context(), profileID, id); err != nil {
			respondStoreError(w, r, err, "unable to delete category")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func decodeCategory(w http.ResponseWriter, r *http.Request) (store.CategoryInput, bool) {
	var payload categoryRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return store.CategoryInput{}, false
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return store.CategoryInput{}, false
	}
	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	return store.CategoryInput{Name: payload.Name, SortOrder: payload.SortOrder, IsActive: active}, true
}

func projectCategory(category models.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		SortOrder: category.SortOrder,
		IsActive:  category.IsActive,
	}
}
