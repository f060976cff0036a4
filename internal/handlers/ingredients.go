package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"keyiflimasa/internal/importer"
	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/store"
	"keyiflimasa/internal/views/pages"
	"keyiflimasa/models"
)

const ingredientsPathPrefix = "/app/api/ingredients"

type ingredientRequest struct {
	Name         string     `json:"name"`
	Unit         string     `json:"unit"`
	PricePerUnit flexAmount `json:"price_per_unit"`
}

type ingredientResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type importResponse struct {
	Parsed   int `json:"parsed"`
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Repriced int `json:"repriced"`
}

// IngredientResource handles CRUD and price list imports for the merchant's ingredients.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	profileID, ok := merchantID(w, r)
	if !ok {
		return
	}

	identifier, rest := resourcePath(r.URL.Path, ingredientsPathPrefix)
	if identifier == "" {
		switch r.Method {
		case http.MethodGet:
			listIngredients(w, r, profileID)
		case http.MethodPost:
			createIngredient(w, r, profileID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if identifier == "import" && len(rest) == 0 {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		importIngredients(w, r, profileID)
		return
	}

	id, err := parseID(identifier)
	if err != nil || len(rest) > 0 {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", identifier)
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		ingredient, err := shopStore.GetIngredient(r.Context(), profileID, id)
		if err != nil {
			respondStoreError(w, r, err, "unable to load ingredient")
			return
		}
		writeJSON(w, http.StatusOK, projectIngredient(*ingredient))
	case http.MethodPut:
		updateIngredient(w, r, profileID, id)
	case http.MethodDelete:
		if err := shopStore.DeleteIngredient(r.Context(), profileID, id); err != nil {
			respondStoreError(w, r, err, "unable to delete ingredient")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listIngredients(w http.ResponseWriter, r *http.Request, profileID uint) {
	ingredients, err := shopStore.ListIngredients(r.Context(), profileID)
	if err != nil {
		applog.Error(r.Context(), "failed to list ingredients", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredients")
		return
	}
	filtered := pages.FilterIngredients(ingredients, pages.FiltersFromRequest(r))
	responses := make([]ingredientResponse, 0, len(filtered))
	for _, ingredient := range filtered {
		responses = append(responses, projectIngredient(ingredient))
	}
	writeJSON(w, http.StatusOK, responses)
}

func decodeIngredient(w http.ResponseWriter, r *http.Request) (store.IngredientInput, bool) {
	var payload ingredientRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid ingredient payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return store.IngredientInput{}, false
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return store.IngredientInput{}, false
	}
	if payload.PricePerUnit.IsNegative() {
		writeJSONError(w, http.StatusBadRequest, "price_per_unit must not be negative")
		return store.IngredientInput{}, false
	}
	return store.IngredientInput{
		Name:         payload.Name,
		Unit:         payload.Unit,
		PricePerUnit: payload.PricePerUnit.Decimal,
	}, true
}

func createIngredient(w http.ResponseWriter, r *http.Request, profileID uint) {
	input, ok := decodeIngredient(w, r)
	if !ok {
		return
	}
	ingredient, err := shopStore.CreateIngredient(r.Context(), profileID, input)
	if err != nil {
		applog.Error(r.Context(), "failed to create ingredient", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create ingredient")
		return
	}
	writeJSON(w, http.StatusCreated, projectIngredient(*ingredient))
}

func updateIngredient(w http.ResponseWriter, r *http.Request, profileID, id uint) {
	input, ok := decodeIngredient(w, r)
	if !ok {
		return
	}
	ingredient, err := shopStore.UpdateIngredient(r.Context(), profileID, id, input)
	if err != nil {
		respondStoreError(w, r, err, "unable to update ingredient")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(*ingredient))
}

func importIngredients(w http.ResponseWriter, r *http.Request, profileID uint) {
	r.Body = http.MaxBytesReader(w, r.Body, importer.MaxUploadSize+(64<<10))
	file, header, err := r.FormFile("file")
	if err != nil {
		applog.Debug(r.Context(), "price list upload missing", "error", err)
		writeJSONError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, importer.MaxUploadSize+1)); err != nil {
		writeJSONError(w, http.StatusBadRequest, "unable to read upload")
		return
	}
	if buf.Len() > importer.MaxUploadSize {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "file is too large")
		return
	}

	rows, err := importer.Parse(header.Filename, header.Header.Get("Content-Type"), buf.Bytes())
	if err != nil {
		applog.Debug(r.Context(), "price list could not be parsed", "file", header.Filename, "error", err)
		status := http.StatusBadRequest
		if errors.Is(err, importer.ErrUnsupported) {
			status = http.StatusUnsupportedMediaType
		}
		writeJSONError(w, status, err.Error())
		return
	}

	result, err := shopStore.UpsertIngredients(r.Context(), profileID, rows)
	if err != nil {
		applog.Error(r.Context(), "failed to import ingredients", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to import ingredients")
		return
	}
	applog.Info(r.Context(), "price list imported", "file", header.Filename, "created", result.Created, "updated", result.Updated)
	writeJSON(w, http.StatusOK, importResponse{
		Parsed:   len(rows),
		Created:  result.Created,
		Updated:  result.Updated,
		Repriced: result.Repriced,
	})
}

func projectIngredient(ingredient models.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:           ingredient.ID,
		Name:         ingredient.Name,
		Unit:         ingredient.Unit,
		PricePerUnit: ingredient.PricePerUnit,
		UpdatedAt:    ingredient.UpdatedAt,
	}
}

// respondStoreError maps a store failure onto a JSON error response.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case store.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrUnknownCategory), errors.Is(err, store.ErrUnknownIngredient):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInvalidTransition):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		applog.Error(r.Context(), message, "error", err)
		writeJSONError(w, http.StatusInternalServerError, message)
	}
}
