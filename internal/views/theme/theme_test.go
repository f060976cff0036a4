package theme

import (
	"testing"

	"keyiflimasa/models"
)

func TestStatusReturnsPalette(t *testing.T) {
	badge := Status(models.OrderCancelled)
	if badge.Label != "İptal" {
		t.Fatalf("expected Turkish label, got %q", badge.Label)
	}
	if badge.TextClass != "text-red-700" {
		t.Fatalf("unexpected text class %q", badge.TextClass)
	}
}

func TestStatusFallsBackToNeutral(t *testing.T) {
	badge := Status(models.OrderStatus("archived"))
	if badge.BgClass != neutral.BgClass {
		t.Fatalf("expected neutral palette, got %q", badge.BgClass)
	}
	if badge.Label != "archived" {
		t.Fatalf("expected raw status as label, got %q", badge.Label)
	}
}
