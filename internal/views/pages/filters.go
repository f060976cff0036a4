package pages

import (
	"net/http"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"keyiflimasa/models"
)

var turkishFold = cases.Lower(language.Turkish)

// Filters capture the client-driven search state for list endpoints.
type Filters struct {
	Query string
}

// FiltersFromRequest extracts filter inputs from an HTTP request.
func FiltersFromRequest(r *http.Request) Filters {
	return Filters{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
}

// FilterIngredients keeps ingredients whose name or unit contains the query.
func FilterIngredients(all []models.Ingredient, filters Filters) []models.Ingredient {
	if filters.Query == "" {
		return all
	}
	query := turkishFold.String(filters.Query)
	filtered := make([]models.Ingredient, 0, len(all))
	for _, ingredient := range all {
		if containsFold(ingredient.Name, query) || containsFold(ingredient.Unit, query) {
			filtered = append(filtered, ingredient)
		}
	}
	return filtered
}

// FilterRecipes keeps recipes whose name or description contains the query.
func FilterRecipes(all []models.Recipe, filters Filters) []models.Recipe {
	if filters.Query == "" {
		return all
	}
	query := turkishFold.String(filters.Query)
	filtered := make([]models.Recipe, 0, len(all))
	for _, recipe := range all {
		if containsFold(recipe.Name, query) || containsFold(recipe.Description, query) {
			filtered = append(filtered, recipe)
		}
	}
	return filtered
}

func containsFold(value, lowerQuery string) bool {
	return strings.Contains(turkishFold.String(value), lowerQuery)
}
