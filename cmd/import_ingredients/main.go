package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"keyiflimasa/internal/config"
	"keyiflimasa/internal/db"
	"keyiflimasa/internal/importer"
	"keyiflimasa/internal/store"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: import_ingredients <shop-slug> <price-list.csv|.pdf|.txt>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), store.New(database), os.Args[1], os.Args[2], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, s *store.Store, slug, path string, out io.Writer) error {
	if strings.TrimSpace(slug) == "" {
		return errors.New("shop slug must not be empty")
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("price list path must not be empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read price list: %w", err)
	}

	rows, err := importer.Parse(path, "", data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	shop, err := s.ProfileBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("find shop %q: %w", slug, err)
	}

	result, err := s.UpsertIngredients(ctx, shop.ID, rows)
	if err != nil {
		return fmt.Errorf("upsert ingredients: %w", err)
	}

	fmt.Fprintf(out, "Imported %d ingredients into %s from %s (%d new, %d updated, %d recipes repriced)\n",
		result.Created+result.Updated, shop.ShopSlug, filepath.Base(path), result.Created, result.Updated, result.Repriced)
	return nil
}
