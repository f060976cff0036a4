package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"keyiflimasa/internal/checkout"
	"keyiflimasa/internal/db"
	"keyiflimasa/internal/events"
	"keyiflimasa/internal/storage"
	"keyiflimasa/internal/store"
	"keyiflimasa/models"
)

var testDatabases atomic.Int64

type testEnv struct {
	store   *store.Store
	sm      *scs.SessionManager
	shop    *models.Profile
	domates *models.Ingredient
	soup    *models.Recipe
	cookies []*http.Cookie
}

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers-test-%d?mode=memory&cache=shared", testDatabases.Add(1))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return store.New(database)
}

// newTestEnv installs handler dependencies backed by a fresh database with
// one shop selling a tomato soup: 0.5 kg tomatoes at 10/kg, margin 2.5 and
// four portions, so 13 per pot and 4 per portion.
func newTestEnv(t *testing.T, images storage.ImageStore) *testEnv {
	t.Helper()
	st := openTestStore(t)
	sm, restoreSession := withTestSessionManager(t)
	originalStore, originalOrders, originalImages, originalBase := shopStore, orderService, imageStore, publicBaseURL
	Configure(sm, Dependencies{
		Store:         st,
		Checkout:      checkout.New(st, events.NopPublisher{}),
		Images:        images,
		PublicBaseURL: "http://shop.test/",
	})
	t.Cleanup(func() {
		restoreSession()
		shopStore, orderService, imageStore, publicBaseURL = originalStore, originalOrders, originalImages, originalBase
	})

	ctx := context.Background()
	shop := &models.Profile{
		Email:        "ayse@example.com",
		PasswordHash: "x",
		ShopName:     "Ayşe'nin Mutfağı",
		Phone:        "5321234567",
		IsActive:     true,
	}
	if err := st.CreateProfile(ctx, shop); err != nil {
		t.Fatalf("failed to seed shop: %v", err)
	}
	domates, err := st.CreateIngredient(ctx, shop.ID, store.IngredientInput{Name: "Domates", Unit: "kg", PricePerUnit: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("failed to seed ingredient: %v", err)
	}
	soup, err := st.CreateRecipe(ctx, shop.ID, store.RecipeInput{
		Name:     "Domates Çorbası",
		Portions: 4,
		Margin:   decimal.RequireFromString("2.5"),
		IsActive: true,
		Lines:    []store.RecipeLine{{IngredientID: domates.ID, Amount: decimal.RequireFromString("0.5")}},
	})
	if err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return &testEnv{store: st, sm: sm, shop: shop, domates: domates, soup: soup}
}

// serve runs the request through the session middleware, carrying cookies
// between calls like a browser would.
func (e *testEnv) serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range e.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.sm.LoadAndSave(handler).ServeHTTP(rr, req)
	if cookies := rr.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return rr
}

func authenticateRequest(t *testing.T, sm *scs.SessionManager, req *http.Request, profileID uint) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	sm.Put(req.Context(), sessionUserIDKey, int(profileID))
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	return req
}

// api calls a merchant JSON handler as the seeded shop.
func (e *testEnv) api(t *testing.T, handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req = authenticateRequest(t, e.sm, req, e.shop.ID)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

type fakeImageStore struct {
	keys []string
}

func (f *fakeImageStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://img.test/" + key, nil
}
