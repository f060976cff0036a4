// Package importer reads supplier price lists into ingredient rows.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"keyiflimasa/internal/pricing"
	"keyiflimasa/internal/store"
)

// MaxUploadSize caps uploaded price lists.
const MaxUploadSize = 2 << 20

var (
	ErrEmpty       = errors.New("importer: no price rows found")
	ErrUnsupported = errors.New("importer: unsupported file type")

	knownUnits = map[string]string{
		"kg": "kg", "kilo": "kg",
		"g": "g", "gr": "g", "gram": "g",
		"lt": "lt", "l": "lt", "litre": "lt",
		"ml": "ml",
		"adet": "adet", "ad": "adet",
		"paket": "paket", "pk": "paket",
		"demet": "demet",
	}

	// "<name> [unit] [₺]<price> [TL]"
	priceLine  = regexp.MustCompile(`^(.+?)\s+(?:([\p{L}]+)\s+)?₺?\s*(\d[\d.]*(?:,\d+)?)\s*(?:TL|tl|₺)?$`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Parse chooses a parser from the file name or content type.
func Parse(name, contentType string, data []byte) ([]store.IngredientInput, error) {
	kind := strings.ToLower(contentType)
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".pdf" || strings.Contains(kind, "pdf"):
		return ParsePDF(data)
	case ext == ".csv" || strings.Contains(kind, "csv"):
		return ParseCSV(bytes.NewReader(data))
	case ext == ".txt" || strings.HasPrefix(kind, "text/"):
		return ParseText(string(data))
	default:
		return nil, ErrUnsupported
	}
}

// ParseCSV reads name,unit,price or name,price rows. A header row and
// semicolon separators are detected automatically.
func ParseCSV(r io.Reader) ([]store.IngredientInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	firstLine, _, _ := bytes.Cut(data, []byte("\n"))
	if semis := bytes.Count(firstLine, []byte(";")); semis > 0 && semis >= bytes.Count(firstLine, []byte(",")) {
		reader.Comma = ';'
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var rows []store.IngredientInput
	for idx, record := range records {
		row, ok := csvRow(record)
		if !ok {
			if idx == 0 {
				continue
			}
			return nil, fmt.Errorf("csv line %d: expected name and price", idx+1)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return rows, nil
}

func csvRow(record []string) (store.IngredientInput, bool) {
	var name, unit, price string
	switch len(record) {
	case 0, 1:
		return store.IngredientInput{}, false
	case 2:
		name, price = record[0], record[1]
	default:
		name, unit, price = record[0], record[1], record[2]
	}
	amount, err := pricing.ParseAmount(cleanPrice(price))
	if err != nil || amount.Sign() < 0 || strings.TrimSpace(name) == "" {
		return store.IngredientInput{}, false
	}
	return store.IngredientInput{Name: strings.TrimSpace(name), Unit: normalizeUnit(unit), PricePerUnit: amount}, true
}

// ParseText reads one "<name> [unit] <price>" entry per line and skips
// lines that do not end in a price.
func ParseText(text string) ([]store.IngredientInput, error) {
	var rows []store.IngredientInput
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(whitespace.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		match := priceLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		name, unit := match[1], match[2]
		if unit != "" {
			if _, ok := knownUnits[strings.ToLower(unit)]; !ok {
				name = name + " " + unit
				unit = ""
			}
		}
		amount, err := pricing.ParseAmount(match[3])
		if err != nil {
			continue
		}
		rows = append(rows, store.IngredientInput{Name: strings.TrimSpace(name), Unit: normalizeUnit(unit), PricePerUnit: amount})
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return rows, nil
}

// ParsePDF extracts the plain text of every page and parses it as lines.
func ParsePDF(data []byte) ([]store.IngredientInput, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		for _, row := range rows {
			for _, word := range row.Content {
				builder.WriteString(word.S)
				builder.WriteString(" ")
			}
			builder.WriteString("\n")
		}
	}
	return ParseText(builder.String())
}

func cleanPrice(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "₺")
	value = strings.TrimSuffix(strings.TrimSuffix(value, "TL"), "tl")
	return strings.TrimSpace(value)
}

func normalizeUnit(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := knownUnits[unit]; ok {
		return canonical
	}
	if unit == "" {
		return "kg"
	}
	return unit
}
