package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/pricing"
	"keyiflimasa/internal/store"
	"keyiflimasa/internal/views/pages"
	"keyiflimasa/models"
)

const recipesPathPrefix = "/app/api/recipes"

// flexPortions accepts 4 or "4". A missing or blank value means the recipe
// default, anything else goes through pricing.ParsePortions.
type flexPortions struct {
	value int
	set   bool
}

func (f *flexPortions) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	text := string(trimmed)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
	}
	f.value, f.set = pricing.ParsePortions(text), true
	return nil
}

func (f flexPortions) portions() int {
	if !f.set {
		return pricing.DefaultPortions
	}
	return f.value
}

// flexMargin accepts 2.5, "2.5" or "2,5". Anything unparseable, zero or
// negative becomes pricing.DefaultMargin.
type flexMargin struct {
	value decimal.Decimal
}

func (f *flexMargin) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	text := string(trimmed)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
	}
	f.value = pricing.ParseMargin(text)
	return nil
}

func (f flexMargin) margin() decimal.Decimal {
	return pricing.NormalizeMargin(f.value)
}

type recipeLineRequest struct {
	IngredientID uint       `json:"ingredient_id"`
	Amount       flexAmount `json:"amount"`
}

type recipeRequest struct {
	CategoryID  *uint               `json:"category_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Portions    flexPortions        `json:"portions"`
	Margin      flexMargin          `json:"margin"`
	IsActive    *bool               `json:"is_active"`
	Ingredients []recipeLineRequest `json:"ingredients"`
}

type recipeLineResponse struct {
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"name,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	LineCost     decimal.Decimal `json:"line_cost"`
	Missing      bool            `json:"missing,omitempty"`
}

type recipeResponse struct {
	ID           uint                 `json:"id"`
	CategoryID   *uint                `json:"category_id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Portions     int                  `json:"portions"`
	Margin       decimal.Decimal      `json:"margin"`
	Cost         decimal.Decimal      `json:"cost"`
	SalePrice    decimal.Decimal      `json:"sale_price"`
	PortionPrice decimal.Decimal      `json:"portion_price"`
	Profit       decimal.Decimal      `json:"profit"`
	ImageURL     string               `json:"image_url"`
	IsActive     bool                 `json:"is_active"`
	Ingredients  []recipeLineResponse `json:"ingredients,omitempty"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// RecipeResource handles recipe CRUD, draft quotes and recipe photos.
func RecipeResource(w http.ResponseWriter, r *http.Request) {
	profileID, ok := merchantID(w, r)
	if !ok {
		return
	}

	identifier, rest := resourcePath(r.URL.Path, recipesPathPrefix)
	if identifier == "" {
		switch r.Method {
		case http.MethodGet:
			listRecipes(w, r, profileID)
		case http.MethodPost:
			saveRecipe(w, r, profileID, 0)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if identifier == "quote" && len(rest) == 0 {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		quoteRecipe(w, r, profileID)
		return
	}

	id, err := parseID(identifier)
	if err != nil {
		applog.Debug(r.Context(), "invalid recipe identifier", "identifier", identifier)
		http.NotFound(w, r)
		return
	}

	if len(rest) == 1 && rest[0] == "image" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		uploadRecipeImage(w, r, profileID, id)
		return
	}
	if len(rest) > 0 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showRecipe(w, r, profileID, id)
	case http.MethodPut:
		saveRecipe(w, r, profileID, id)
	case http.MethodDelete:
		if err := shopStore.DeleteRecipe(r.Context(), profileID, id); err != nil {
			respondStoreError(w, r, err, "unable to delete recipe")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listRecipes(w http.ResponseWriter, r *http.Request, profileID uint) {
	ctx := r.Context()
	recipes, err := shopStore.ListRecipes(ctx, profileID)
	if err != nil {
		applog.Error(ctx, "failed to list recipes", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}
	catalog, err := shopStore.LoadCatalog(ctx, profileID)
	if err != nil {
		applog.Error(ctx, "failed to load catalog", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}

	filtered := pages.FilterRecipes(recipes, pages.FiltersFromRequest(r))
	if value := r.URL.Query().Get("category_id"); value != "" {
		if categoryID, err := strconv.ParseUint(value, 10, 64); err == nil {
			kept := filtered[:0:0]
			for _, recipe := range filtered {
				if recipe.CategoryID != nil && *recipe.CategoryID == uint(categoryID) {
					kept = append(kept, recipe)
				}
			}
			filtered = kept
		}
	}

	responses := make([]recipeResponse, 0, len(filtered))
	for _, recipe := range filtered {
		responses = append(responses, projectRecipe(recipe, catalog.Quote(store.PricingRecipe(recipe)), false))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showRecipe(w http.ResponseWriter, r *http.Request, profileID, id uint) {
	ctx := r.Context()
	recipe, err := shopStore.GetRecipe(ctx, profileID, id)
	if err != nil {
		respondStoreError(w, r, err, "unable to load recipe")
		return
	}
	catalog, err := shopStore.LoadCatalog(ctx, profileID)
	if err != nil {
		applog.Error(ctx, "failed to load catalog", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipe(*recipe, catalog.Quote(store.PricingRecipe(*recipe)), true))
}

func decodeRecipe(w http.ResponseWriter, r *http.Request, requireName bool) (store.RecipeInput, bool) {
	var payload recipeRequest
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return store.RecipeInput{}, false
	}
	if requireName && strings.TrimSpace(payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return store.RecipeInput{}, false
	}

	input := store.RecipeInput{
		CategoryID:  payload.CategoryID,
		Name:        payload.Name,
		Description: payload.Description,
		Portions:    payload.Portions.portions(),
		Margin:      payload.Margin.margin(),
		IsActive:    payload.IsActive == nil || *payload.IsActive,
	}
	if input.CategoryID != nil && *input.CategoryID == 0 {
		input.CategoryID = nil
	}
	for _, line := range payload.Ingredients {
		if line.IngredientID == 0 {
			writeJSONError(w, http.StatusBadRequest, "ingredient_id is required")
			return store.RecipeInput{}, false
		}
		if line.Amount.IsNegative() {
			writeJSONError(w, http.StatusBadRequest, "amount must not be negative")
			return store.RecipeInput{}, false
		}
		input.Lines = append(input.Lines, store.RecipeLine{IngredientID: line.IngredientID, Amount: line.Amount.Decimal})
	}
	return input, true
}

// saveRecipe creates the recipe when id is zero and updates it otherwise.
func saveRecipe(w http.ResponseWriter, r *http.Request, profileID, id uint) {
	input, ok := decodeRecipe(w, r, true)
	if !ok {
		return
	}

	ctx := r.Context()
	var (
		recipe *models.Recipe
		err    error
		status = http.StatusOK
	)
	if id == 0 {
		recipe, err = shopStore.CreateRecipe(ctx, profileID, input)
		status = http.StatusCreated
	} else {
		recipe, err = shopStore.UpdateRecipe(ctx, profileID, id, input)
	}
	if err != nil {
		respondStoreError(w, r, err, "unable to save recipe")
		return
	}

	catalog, err := shopStore.LoadCatalog(ctx, profileID)
	if err != nil {
		applog.Error(ctx, "failed to load catalog after save", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}
	applog.Info(ctx, "recipe saved", "recipeID", recipe.ID, "salePrice", recipe.SalePrice.StringFixed(2))
	writeJSON(w, status, projectRecipe(*recipe, catalog.Quote(store.PricingRecipe(*recipe)), true))
}

// quoteRecipe prices an unsaved draft for the live preview in the editor.
func quoteRecipe(w http.ResponseWriter, r *http.Request, profileID uint) {
	input, ok := decodeRecipe(w, r, false)
	if !ok {
		return
	}
	catalog, err := shopStore.LoadCatalog(r.Context(), profileID)
	if err != nil {
		applog.Error(r.Context(), "failed to load catalog for quote", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to price recipe")
		return
	}
	lines := make([]pricing.Association, 0, len(input.Lines))
	for _, line := range input.Lines {
		lines = append(lines, pricing.Association{IngredientID: line.IngredientID, Amount: line.Amount})
	}
	writeJSON(w, http.StatusOK, catalog.DraftQuote(lines, input.Margin, input.Portions))
}

func uploadRecipeImage(w http.ResponseWriter, r *http.Request, profileID, id uint) {
	if _, err := shopStore.GetRecipe(r.Context(), profileID, id); err != nil {
		respondStoreError(w, r, err, "unable to load recipe")
		return
	}
	url, ok := receiveImage(w, r, "recipes", profileID)
	if !ok {
		return
	}
	if err := shopStore.SetRecipeImage(r.Context(), profileID, id, url); err != nil {
		respondStoreError(w, r, err, "unable to save recipe image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}

// projectRecipe includes the ingredient lines only when detailed, since
// list queries do not load the ingredients behind them.
func projectRecipe(recipe models.Recipe, quote pricing.Quote, detailed bool) recipeResponse {
	resp := recipeResponse{
		ID:           recipe.ID,
		CategoryID:   recipe.CategoryID,
		Name:         recipe.Name,
		Description:  recipe.Description,
		Portions:     recipe.Portions,
		Margin:       recipe.Margin,
		Cost:         quote.Cost,
		SalePrice:    recipe.SalePrice,
		PortionPrice: pricing.PortionPrice(recipe.SalePrice, recipe.Portions),
		Profit:       recipe.SalePrice.Sub(quote.Cost),
		ImageURL:     recipe.ImageURL,
		IsActive:     recipe.IsActive,
		UpdatedAt:    recipe.UpdatedAt,
	}
	if !detailed {
		return resp
	}
	for _, line := range recipe.Ingredients {
		entry := recipeLineResponse{IngredientID: line.IngredientID, Amount: line.Amount, LineCost: decimal.Zero}
		if line.Ingredient != nil {
			entry.Name = line.Ingredient.Name
			entry.Unit = line.Ingredient.Unit
			entry.LineCost = line.Amount.Mul(line.Ingredient.PricePerUnit)
		} else {
			entry.Missing = true
		}
		resp.Ingredients = append(resp.Ingredients, entry)
	}
	return resp
}
