package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"keyiflimasa/internal/checkout"
	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/pricing"
	"keyiflimasa/internal/store"
	"keyiflimasa/internal/views/pages"
	"keyiflimasa/models"
)

const (
	shopPathPrefix       = "/dukkan/"
	sessionCartKeyPrefix = "cart:"
	sessionCheckoutKey   = "checkout:key:"
)

type cartLineResponse struct {
	RecipeID  uint            `json:"recipe_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Count int                `json:"count"`
	Total decimal.Decimal    `json:"total"`
}

// ShopResource serves a shop's public menu, its session cart and checkout.
func ShopResource(w http.ResponseWriter, r *http.Request) {
	if shopStore == nil || orderService == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	slug, rest := resourcePath(r.URL.Path, shopPathPrefix)
	if slug == "" {
		http.NotFound(w, r)
		return
	}
	ctx := applog.WithAttrs(r.Context(), "shop", slug)
	r = r.WithContext(ctx)

	shop, err := shopStore.ProfileBySlug(ctx, slug)
	if err != nil {
		if store.IsNotFound(err) {
			applog.Debug(ctx, "shop not found")
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load shop", "error", err)
		http.Error(w, "unable to load shop", http.StatusInternalServerError)
		return
	}
	if !shop.IsActive {
		http.NotFound(w, r)
		return
	}

	action := strings.Join(rest, "/")
	switch {
	case action == "" && (r.Method == http.MethodGet || r.Method == http.MethodHead):
		showShop(w, r, shop)
	case action == "cart" && r.Method == http.MethodGet:
		showCart(w, r, shop)
	case action == "cart/add" && r.Method == http.MethodPost:
		addToCart(w, r, shop)
	case action == "cart/adjust" && r.Method == http.MethodPost:
		adjustCart(w, r, shop)
	case action == "checkout" && r.Method == http.MethodPost:
		checkoutCart(w, r, shop)
	case action == "" || action == "cart" || action == "cart/add" || action == "cart/adjust" || action == "checkout":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func loadCart(r *http.Request, slug string) pricing.Cart {
	var cart pricing.Cart
	if sessionManager == nil {
		return cart
	}
	raw := sessionManager.GetString(r.Context(), sessionCartKeyPrefix+slug)
	if raw == "" {
		return cart
	}
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		applog.Warn(r.Context(), "discarding unreadable session cart", "error", err)
		return pricing.Cart{}
	}
	return cart
}

func saveCart(r *http.Request, slug string, cart pricing.Cart) {
	if sessionManager == nil {
		return
	}
	if cart.Empty() {
		sessionManager.Remove(r.Context(), sessionCartKeyPrefix+slug)
		return
	}
	encoded, err := json.Marshal(cart)
	if err != nil {
		applog.Error(r.Context(), "failed to encode session cart", "error", err)
		return
	}
	sessionManager.Put(r.Context(), sessionCartKeyPrefix+slug, string(encoded))
}

// checkoutKey returns the idempotency key for the next checkout of this
// shop, minting one when the session has none.
func checkoutKey(r *http.Request, slug string) string {
	if sessionManager == nil {
		return uuid.NewString()
	}
	key := sessionManager.GetString(r.Context(), sessionCheckoutKey+slug)
	if key == "" {
		key = uuid.NewString()
		sessionManager.Put(r.Context(), sessionCheckoutKey+slug, key)
	}
	return key
}

// buildShopView prices the session cart against the live menu and writes
// back the cart with lines for vanished recipes removed.
func buildShopView(r *http.Request, shop *models.Profile) (pages.ShopView, store.Menu, error) {
	menu, err := shopStore.ActiveMenu(r.Context(), shop.ID)
	if err != nil {
		return pages.ShopView{}, menu, err
	}
	cart := loadCart(r, shop.ShopSlug)
	cartView, kept := pages.BuildCartView(menu, cart)
	if len(kept.Lines) != len(cart.Lines) {
		saveCart(r, shop.ShopSlug, kept)
	}
	return pages.ShopView{
		Shop:           shop,
		Sections:       pages.BuildMenuSections(menu, kept),
		Cart:           cartView,
		IdempotencyKey: checkoutKey(r, shop.ShopSlug),
	}, menu, nil
}

func showShop(w http.ResponseWriter, r *http.Request, shop *models.Profile) {
	view, _, err := buildShopView(r, shop)
	if err != nil {
		applog.Error(r.Context(), "failed to load menu", "error", err)
		http.Error(w, "unable to load menu", http.StatusInternalServerError)
		return
	}
	renderComponent(w, r, pages.Shop(view))
}

func showCart(w http.ResponseWriter, r *http.Request, shop *models.Profile) {
	view, _, err := buildShopView(r, shop)
	if err != nil {
		applog.Error(r.Context(), "failed to load menu for cart", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load cart")
		return
	}
	writeJSON(w, http.StatusOK, projectCart(view.Cart))
}

func projectCart(view pages.CartView) cartResponse {
	resp := cartResponse{Lines: make([]cartLineResponse, 0, len(view.Lines)), Count: view.Count, Total: view.Total}
	for _, line := range view.Lines {
		resp.Lines = append(resp.Lines, cartLineResponse{
			RecipeID:  line.RecipeID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Total:     line.Total,
		})
	}
	return resp
}

func addToCart(w http.ResponseWriter, r *http.Request, shop *models.Profile) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	recipeID, err := parseID(r.PostFormValue("recipe_id"))
	if err != nil {
		http.Error(w, "invalid recipe", http.StatusBadRequest)
		return
	}

	menu, err := shopStore.ActiveMenu(r.Context(), shop.ID)
	if err != nil {
		applog.Error(r.Context(), "failed to load menu for cart", "error", err)
		http.Error(w, "unable to load menu", http.StatusInternalServerError)
		return
	}
	if menu.FindRecipe(recipeID) == nil {
		applog.Debug(r.Context(), "cart add for recipe not on menu", "recipeID", recipeID)
		http.NotFound(w, r)
		return
	}

	saveCart(r, shop.ShopSlug, loadCart(r, shop.ShopSlug).Add(recipeID))
	respondCart(w, r, shop, "")
}

// adjustCart applies delta (default +1), or an explicit quantity when one is posted.
func adjustCart(w http.ResponseWriter, r *http.Request, shop *models.Profile) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	recipeID, err := parseID(r.PostFormValue("recipe_id"))
	if err != nil {
		http.Error(w, "invalid recipe", http.StatusBadRequest)
		return
	}

	cart := loadCart(r, shop.ShopSlug)
	if value := strings.TrimSpace(r.PostFormValue("quantity")); value != "" {
		quantity, err := strconv.Atoi(value)
		if err != nil {
			http.Error(w, "invalid quantity", http.StatusBadRequest)
			return
		}
		cart, err = cart.Set(recipeID, quantity)
		if err != nil {
			http.Error(w, "invalid quantity", http.StatusBadRequest)
			return
		}
	} else {
		delta := 1
		if value := strings.TrimSpace(r.PostFormValue("delta")); value != "" {
			delta, err = strconv.Atoi(value)
			if err != nil {
				http.Error(w, "invalid delta", http.StatusBadRequest)
				return
			}
		}
		cart = cart.Adjust(recipeID, delta)
	}

	saveCart(r, shop.ShopSlug, cart)
	respondCart(w, r, shop, "")
}

func respondCart(w http.ResponseWriter, r *http.Request, shop *models.Profile, message string) {
	if !isHTMX(r) {
		http.Redirect(w, r, shopPathPrefix+shop.ShopSlug, http.StatusSeeOther)
		return
	}
	view, _, err := buildShopView(r, shop)
	if err != nil {
		applog.Error(r.Context(), "failed to load menu for cart", "error", err)
		http.Error(w, "unable to load cart", http.StatusInternalServerError)
		return
	}
	view.Message = message
	renderComponent(w, r, pages.CartPanel(view))
}

func checkoutCart(w http.ResponseWriter, r *http.Request, shop *models.Profile) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	customer := checkout.Customer{
		Name:         r.PostFormValue("name"),
		Phone:        r.PostFormValue("phone"),
		Address:      r.PostFormValue("address"),
		Note:         r.PostFormValue("note"),
		DeliveryDate: r.PostFormValue("delivery_date"),
		DeliveryTime: r.PostFormValue("delivery_time"),
	}
	key := strings.TrimSpace(r.PostFormValue("idempotency_key"))
	if key == "" {
		key = checkoutKey(r, shop.ShopSlug)
	}
	cart := loadCart(r, shop.ShopSlug)

	order, err := orderService.PlaceOrder(r.Context(), shop, cart, customer, key)
	if err != nil {
		var unavailable *checkout.UnavailableError
		status, message := http.StatusInternalServerError, "Sipariş gönderilemedi. Lütfen tekrar deneyin."
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			status, message = http.StatusUnprocessableEntity, "Sepetin boş."
		case errors.Is(err, checkout.ErrMissingCustomer):
			status, message = http.StatusUnprocessableEntity, "Lütfen adını ve telefon numaranı yaz."
		case errors.As(err, &unavailable):
			status, message = http.StatusConflict, "Sepetindeki bir ürün artık menüde yok, sepetini güncelledik."
			saveCart(r, shop.ShopSlug, cart.Adjust(unavailable.RecipeID, -cart.Quantity(unavailable.RecipeID)))
		case errors.Is(err, checkout.ErrSubmission):
			status = http.StatusServiceUnavailable
		default:
			applog.Error(r.Context(), "unexpected checkout failure", "error", err)
		}
		renderCheckoutFailure(w, r, shop, customer, status, message)
		return
	}

	saveCart(r, shop.ShopSlug, pricing.Cart{})
	if sessionManager != nil {
		sessionManager.Remove(r.Context(), sessionCheckoutKey+shop.ShopSlug)
	}
	renderComponent(w, r, pages.OrderPlaced(shop, order))
}

func renderCheckoutFailure(w http.ResponseWriter, r *http.Request, shop *models.Profile, customer checkout.Customer, status int, message string) {
	view, _, err := buildShopView(r, shop)
	if err != nil {
		applog.Error(r.Context(), "failed to reload menu after checkout failure", "error", err)
		http.Error(w, message, status)
		return
	}
	view.Message = message
	view.Customer = pages.CustomerForm{
		Name:    customer.Name,
		Phone:   customer.Phone,
		Address: customer.Address,
		Note:    customer.Note,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if isHTMX(r) {
		err = pages.CartPanel(view).Render(r.Context(), w)
	} else {
		err = pages.Shop(view).Render(r.Context(), w)
	}
	if err != nil {
		applog.Error(r.Context(), "failed to render checkout failure", "error", err)
	}
}
