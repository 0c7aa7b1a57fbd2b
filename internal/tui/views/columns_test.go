package views

import (
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/frigo/internal/api"
	"github.com/matheus3301/frigo/internal/status"
	"github.com/matheus3301/frigo/internal/tui/ui"
	"github.com/shopspring/decimal"
)

func TestOutstandingSkipsPaid(t *testing.T) {
	purchases := []api.Purchase{
		{ID: "1", Total: decimal.RequireFromString("100.10"), Status: 0},
		{ID: "2", Total: decimal.RequireFromString("50"), Status: 1},
		{ID: "3", Total: decimal.RequireFromString("0.20"), Status: 0, Vencida: true},
	}
	if got := Outstanding(purchases); !got.Equal(decimal.RequireFromString("100.30")) {
		t.Errorf("Outstanding() = %s, want 100.30", got)
	}
	if !Outstanding(nil).IsZero() {
		t.Error("no purchases owe nothing")
	}
}

func TestPurchaseStatus(t *testing.T) {
	theme := ui.Dark()
	tests := []struct {
		p     api.Purchase
		want  string
		color bool
	}{
		{api.Purchase{Status: 1, Vencida: true}, "paid", true},
		{api.Purchase{Vencida: true}, "overdue", true},
		{api.Purchase{}, "open", false},
	}
	for _, tt := range tests {
		if got := purchaseStatus(tt.p); got != tt.want {
			t.Errorf("purchaseStatus() = %q, want %q", got, tt.want)
		}
		if _, ok := purchaseColor(tt.p, theme); ok != tt.color {
			t.Errorf("%s: colored = %v, want %v", tt.want, ok, tt.color)
		}
	}
}

func TestPurchaseColumns(t *testing.T) {
	if n := len(PurchasesSpec().Columns); n != len(ClientPurchasesSpec().Columns)+1 {
		t.Errorf("report should have one extra client column, got %d", n)
	}
}

func TestFormatStatus(t *testing.T) {
	theme := ui.Dark()
	fetched := time.Date(2026, 3, 5, 10, 30, 0, 0, time.Local)

	got := formatStatus(StatusLine{Total: "R$ 10,00", State: status.Loaded, FetchedAt: fetched, Shown: 2, Size: 5}, theme)
	for _, want := range []string{"Total:", "R$ 10,00", "2 of 5", "updated 10:30:00"} {
		if !strings.Contains(got, want) {
			t.Errorf("status %q missing %q", got, want)
		}
	}

	got = formatStatus(StatusLine{State: status.Loaded, FetchedAt: fetched, FromCache: true}, theme)
	if !strings.Contains(got, "cached 05/03 10:30") || strings.Contains(got, "Total") {
		t.Errorf("cached status = %q", got)
	}

	if got := formatStatus(StatusLine{State: status.Loading}, theme); !strings.Contains(got, "loading") {
		t.Errorf("loading status = %q", got)
	}
	if got := formatStatus(StatusLine{State: status.Error}, theme); !strings.Contains(got, "fetch failed") {
		t.Errorf("error status = %q", got)
	}
}
