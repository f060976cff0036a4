package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"keyiflimasa/models"
)

func TestLinkState(t *testing.T) {
	if got := linkState("orders", "orders"); got != "active" {
		t.Fatalf("expected active state when sections match, got %q", got)
	}
	if got := linkState("menu", "orders"); got != "inactive" {
		t.Fatalf("expected inactive state when sections differ, got %q", got)
	}
}

func TestStatCardRendersValues(t *testing.T) {
	var buf bytes.Buffer
	err := StatCard("Bugünkü Ciro", "₺120,00", "3 sipariş", "💰").Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render stat card: %v", err)
	}
	output := buf.String()
	for _, token := range []string{"Bugünkü Ciro", "₺120,00", "3 sipariş"} {
		if !strings.Contains(output, token) {
			t.Fatalf("expected output to contain %q: %s", token, output)
		}
	}
}

func TestOrderTableRendersEntries(t *testing.T) {
	rows := []OrderRow{{Number: "SIP-20250301-1001", Customer: "Ali <script>", Total: "₺24,00", PlacedAt: "01.03.2025 10:00", Status: models.OrderReady}}
	var buf bytes.Buffer
	if err := OrderTable(rows).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render order table: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "SIP-20250301-1001") {
		t.Fatalf("expected rendered table to include order number: %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("expected customer name to be escaped: %s", out)
	}
	if !strings.Contains(out, "Hazır") {
		t.Fatalf("expected status label: %s", out)
	}
}

func TestOrderTableEmptyState(t *testing.T) {
	var buf bytes.Buffer
	if err := OrderTable(nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render order table: %v", err)
	}
	if !strings.Contains(buf.String(), "Henüz sipariş yok") {
		t.Fatalf("expected empty state: %s", buf.String())
	}
}

func TestSidebarRendersActiveSection(t *testing.T) {
	data := SidebarData{
		ShopName: "Ayşe'nin Mutfağı",
		Active:   "orders",
		Links: []SidebarLink{{
			Label:   "Siparişler",
			Path:    "/app?section=orders",
			Section: "orders",
		}},
	}
	var buf bytes.Buffer
	if err := Sidebar(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render sidebar: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "data-state=\"active\"") {
		t.Fatalf("expected active data-state attribute in sidebar output: %s", out)
	}
	if !strings.Contains(out, "data-nav-section=\"orders\"") {
		t.Fatalf("expected data-nav-section attribute for active link: %s", out)
	}
}

func TestFlashSkipsEmptyMessage(t *testing.T) {
	var buf bytes.Buffer
	if err := Flash("", true).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render flash: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
