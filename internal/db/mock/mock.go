package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"keyiflimasa/internal/db"
	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/pricing"
	"keyiflimasa/internal/store"
	"keyiflimasa/models"
)

const (
	DemoEmail    = "ayse@keyiflimasa.app"
	DemoPassword = "keyifli"
	DemoShopSlug = "aysenin-mutfagi"
)

var instances atomic.Int64

// New returns an in-memory sqlite database seeded with a demo home kitchen.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:keyiflimasa-mock-%d?mode=memory&cache=shared", instances.Add(1))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, store.New(database)); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, s *store.Store) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	shop := &models.Profile{
		Email:           DemoEmail,
		PasswordHash:    string(password),
		FullName:        "Ayşe Yılmaz",
		Phone:           "5321234567",
		ShopName:        "Ayşe'nin Mutfağı",
		ShopDescription: "Ev yapımı çorbalar, sulu yemekler ve sütlü tatlılar.",
		Address:         "Moda, Kadıköy / İstanbul",
	}
	if err := s.CreateProfile(ctx, shop); err != nil {
		return err
	}

	pantry := map[string]store.IngredientInput{
		"domates":  {Name: "Domates", Unit: "kg", PricePerUnit: decimal.NewFromInt(10)},
		"sogan":    {Name: "Kuru Soğan", Unit: "kg", PricePerUnit: decimal.NewFromInt(18)},
		"mercimek": {Name: "Kırmızı Mercimek", Unit: "kg", PricePerUnit: decimal.NewFromInt(60)},
		"tereyagi": {Name: "Tereyağı", Unit: "kg", PricePerUnit: decimal.NewFromInt(380)},
		"un":       {Name: "Un", Unit: "kg", PricePerUnit: decimal.NewFromInt(25)},
		"sut":      {Name: "Süt", Unit: "lt", PricePerUnit: decimal.NewFromInt(38)},
		"pirinc":   {Name: "Baldo Pirinç", Unit: "kg", PricePerUnit: decimal.NewFromInt(70)},
		"seker":    {Name: "Toz Şeker", Unit: "kg", PricePerUnit: decimal.NewFromInt(45)},
		"yumurta":  {Name: "Yumurta", Unit: "adet", PricePerUnit: decimal.RequireFromString("4.5")},
		"biber":    {Name: "Sivri Biber", Unit: "kg", PricePerUnit: decimal.NewFromInt(40)},
	}
	ingredients := make(map[string]uint, len(pantry))
	for key, input := range pantry {
		ingredient, err := s.CreateIngredient(ctx, shop.ID, input)
		if err != nil {
			return err
		}
		ingredients[key] = ingredient.ID
	}

	categories := make(map[string]uint)
	for i, name := range []string{"Çorbalar", "Ana Yemekler", "Tatlılar"} {
		category, err := s.CreateCategory(ctx, shop.ID, store.CategoryInput{Name: name, SortOrder: i, IsActive: true})
		if err != nil {
			return err
		}
		categories[name] = category.ID
	}

	line := func(key, amount string) store.RecipeLine {
		return store.RecipeLine{IngredientID: ingredients[key], Amount: decimal.RequireFromString(amount)}
	}
	category := func(name string) *uint {
		id := categories[name]
		return &id
	}

	recipeInputs := []store.RecipeInput{
		{
			CategoryID:  category("Çorbalar"),
			Name:        "Domates Çorbası",
			Description: "Közlenmiş domates, tereyağı ve kaşar rendesi ile.",
			Portions:    4,
			Margin:      decimal.RequireFromString("2.5"),
			IsActive:    true,
			Lines:       []store.RecipeLine{line("domates", "0.5"), line("tereyagi", "0.05"), line("un", "0.05")},
		},
		{
			CategoryID:  category("Çorbalar"),
			Name:        "Mercimek Çorbası",
			Description: "Limon ve pul biber ile servis edilir.",
			Portions:    6,
			Margin:      decimal.NewFromInt(3),
			IsActive:    true,
			Lines:       []store.RecipeLine{line("mercimek", "0.3"), line("sogan", "0.2"), line("tereyagi", "0.04")},
		},
		{
			CategoryID: category("Ana Yemekler"),
			Name:       "Menemen",
			Portions:   2,
			Margin:     decimal.RequireFromString("2.5"),
			IsActive:   true,
			Lines:      []store.RecipeLine{line("domates", "0.4"), line("biber", "0.15"), line("yumurta", "4"), line("tereyagi", "0.02")},
		},
		{
			CategoryID:  category("Tatlılar"),
			Name:        "Fırın Sütlaç",
			Description: "Üstü kızarmış, tarçınlı.",
			Portions:    6,
			Margin:      decimal.RequireFromString("2.5"),
			IsActive:    true,
			Lines:       []store.RecipeLine{line("sut", "1"), line("pirinc", "0.1"), line("seker", "0.15")},
		},
		{
			Name:     "Kış Turşusu",
			Portions: 10,
			IsActive: false,
		},
	}
	recipes := make([]*models.Recipe, 0, len(recipeInputs))
	for _, input := range recipeInputs {
		recipe, err := s.CreateRecipe(ctx, shop.ID, input)
		if err != nil {
			return err
		}
		recipes = append(recipes, recipe)
	}

	now := time.Now().UTC()
	orders := []struct {
		customer string
		phone    string
		ago      time.Duration
		status   models.OrderStatus
		lines    map[int]int
	}{
		{"Mehmet Kaya", "5301112233", 2 * time.Hour, models.OrderPending, map[int]int{0: 2, 3: 2}},
		{"Zeynep Demir", "5334445566", 26 * time.Hour, models.OrderPreparing, map[int]int{1: 4}},
		{"Can Öztürk", "5427778899", 3 * 24 * time.Hour, models.OrderDelivered, map[int]int{2: 1, 3: 1}},
		{"Elif Şahin", "5059990011", 5 * 24 * time.Hour, models.OrderCancelled, map[int]int{0: 1}},
	}
	for i, sample := range orders {
		order := &models.Order{
			ProfileID:     shop.ID,
			OrderNumber:   fmt.Sprintf("SIP-%s-%04d", now.Add(-sample.ago).Format("20060102"), 1001+i),
			CustomerName:  sample.customer,
			CustomerPhone: sample.phone,
			Status:        sample.status,
		}
		order.CreatedAt = now.Add(-sample.ago)

		var lines []pricing.PricedLine
		for idx := 0; idx < len(recipes); idx++ {
			qty, ok := sample.lines[idx]
			if !ok {
				continue
			}
			recipe := recipes[idx]
			price := pricing.PortionPrice(recipe.SalePrice, recipe.Portions)
			lines = append(lines, pricing.PricedLine{RecipeID: recipe.ID, Name: recipe.Name, UnitPrice: price, Quantity: qty})
			recipeID := recipe.ID
			order.Items = append(order.Items, models.OrderItem{RecipeID: &recipeID, RecipeName: recipe.Name, Quantity: qty, Price: price})
		}
		total, err := pricing.CartTotal(lines)
		if err != nil {
			return err
		}
		order.Total = total
		if err := s.CreateOrder(ctx, order); err != nil {
			return err
		}
	}

	return nil
}
