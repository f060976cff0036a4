package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Ayşe'nin Mutfağı", "aysenin-mutfagi"},
		{"  Çiğdem   Ev Yemekleri ", "cigdem-ev-yemekleri"},
		{"İSTANBUL Börek", "istanbul-borek"},
		{"Keyifli -- Masa!", "keyifli-masa"},
		{"---", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := Slug(tt.input); got != tt.want {
				t.Fatalf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		same bool
	}{
		{"İsot", "isot", true},
		{"İSOT", " isot ", true},
		{"Isırgan", "ısırgan", true},
		{"ISIRGAN", "ısırgan", true},
		{"Isırgan", "isırgan", false},
		{"Çörek Otu", "çörek otu", true},
	}

	for _, tt := range tests {
		if got := NameKey(tt.a) == NameKey(tt.b); got != tt.same {
			t.Fatalf("NameKey(%q) == NameKey(%q) is %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}

func TestCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount string
		want   string
	}{
		{"12.5", "₺12,50"},
		{"0", "₺0,00"},
		{"4", "₺4,00"},
	}

	for _, tt := range tests {
		if got := Currency(decimal.RequireFromString(tt.amount)); got != tt.want {
			t.Fatalf("Currency(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestPhone(t *testing.T) {
	t.Parallel()

	if got := Phone("0532-123-45-67"); got != "0532-123-45-67" {
		t.Fatalf("eleven digits should pass through, got %q", got)
	}
	if got := Phone("532 123 45 67"); got != "(532) 123 45 67" {
		t.Fatalf("Phone = %q", got)
	}
	if got := WhatsAppURL("(532) 123 45 67"); got != "https://wa.me/905321234567" {
		t.Fatalf("WhatsAppURL = %q", got)
	}
}

func TestDateTimeUsesShopLocation(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 9, 21, 30, 0, 0, time.UTC)
	if got := DateTime(ts); got != "10.03.2025 00:30" {
		t.Fatalf("DateTime = %q", got)
	}
	if got := DateTime(time.Time{}); got != "" {
		t.Fatalf("zero DateTime = %q", got)
	}
	if got := DayMonth(ts); got != "10.03" {
		t.Fatalf("DayMonth = %q", got)
	}
}
