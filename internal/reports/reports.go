// Package reports summarises a shop's sales for the earnings page and the
// dashboard.
package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"keyiflimasa/internal/format"
	"keyiflimasa/models"
)

// Period selects how far back a report looks.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"

	topProductCount = 5
	recentCount     = 5
)

// ParsePeriod falls back to PeriodWeek for unknown values.
func ParsePeriod(value string) Period {
	switch Period(strings.ToLower(strings.TrimSpace(value))) {
	case PeriodMonth:
		return PeriodMonth
	case PeriodAll:
		return PeriodAll
	default:
		return PeriodWeek
	}
}

// Label is the Turkish button caption of the period.
func (p Period) Label() string {
	switch p {
	case PeriodMonth:
		return "30 Gün"
	case PeriodAll:
		return "Tümü"
	default:
		return "7 Gün"
	}
}

// Since returns the earliest order creation time included in the period.
// PeriodAll returns the zero time.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodMonth:
		return now.AddDate(0, 0, -30)
	case PeriodAll:
		return time.Time{}
	default:
		return now.AddDate(0, 0, -7)
	}
}

type Summary struct {
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
	Average decimal.Decimal `json:"average"`
}

type DailyRevenue struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ProductSales struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Report struct {
	Period      Period         `json:"period"`
	Summary     Summary        `json:"summary"`
	Daily       []DailyRevenue `json:"daily"`
	TopProducts []ProductSales `json:"top_products"`
}

// Build aggregates the orders created within period. Cancelled orders are
// ignored. Orders must carry their items for the product ranking.
func Build(orders []models.Order, period Period, now time.Time) Report {
	since := period.Since(now)
	loc := format.Location()

	report := Report{
		Period:  period,
		Summary: Summary{Revenue: decimal.Zero, Average: decimal.Zero},
		Daily:   []DailyRevenue{},
	}

	sorted := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == models.OrderCancelled {
			continue
		}
		if !since.IsZero() && order.CreatedAt.Before(since) {
			continue
		}
		sorted = append(sorted, order)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	dailyIndex := make(map[string]int)
	products := make(map[string]*ProductSales)
	for _, order := range sorted {
		report.Summary.Orders++
		report.Summary.Revenue = report.Summary.Revenue.Add(order.Total)

		key := order.CreatedAt.In(loc).Format("2006-01-02")
		idx, ok := dailyIndex[key]
		if !ok {
			idx = len(report.Daily)
			dailyIndex[key] = idx
			report.Daily = append(report.Daily, DailyRevenue{Label: format.DayMonth(order.CreatedAt), Revenue: decimal.Zero})
		}
		report.Daily[idx].Revenue = report.Daily[idx].Revenue.Add(order.Total)

		for _, item := range order.Items {
			entry, ok := products[item.RecipeName]
			if !ok {
				entry = &ProductSales{Name: item.RecipeName, Revenue: decimal.Zero}
				products[item.RecipeName] = entry
			}
			entry.Count += item.Quantity
			entry.Revenue = entry.Revenue.Add(item.LineTotal())
		}
	}

	if report.Summary.Orders > 0 {
		report.Summary.Average = report.Summary.Revenue.Div(decimal.NewFromInt(int64(report.Summary.Orders))).Round(2)
	}

	report.TopProducts = make([]ProductSales, 0, len(products))
	for _, entry := range products {
		report.TopProducts = append(report.TopProducts, *entry)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if cmp := a.Revenue.Cmp(b.Revenue); cmp != 0 {
			return cmp > 0
		}
		return a.Name < b.Name
	})
	if len(report.TopProducts) > topProductCount {
		report.TopProducts = report.TopProducts[:topProductCount]
	}
	return report
}

// Dashboard is the landing page summary for a merchant.
type Dashboard struct {
	TodayOrders  int             `json:"today_orders"`
	TodayRevenue decimal.Decimal `json:"today_revenue"`
	OpenOrders   int             `json:"open_orders"`
	ProductCount int64           `json:"product_count"`
	Recent       []models.Order  `json:"recent"`
}

// BuildDashboard computes today's figures in shop local time. orders should
// be sorted newest first, as the store returns them.
func BuildDashboard(orders []models.Order, productCount int64, now time.Time) Dashboard {
	loc := format.Location()
	local := now.In(loc)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	dashboard := Dashboard{
		TodayRevenue: decimal.Zero,
		ProductCount: productCount,
		Recent:       []models.Order{},
	}
	for _, order := range orders {
		if order.Status.Open() {
			dashboard.OpenOrders++
		}
		if order.Status == models.OrderCancelled {
			continue
		}
		if !order.CreatedAt.Before(startOfDay) && order.CreatedAt.Before(endOfDay) {
			dashboard.TodayOrders++
			dashboard.TodayRevenue = dashboard.TodayRevenue.Add(order.Total)
		}
	}

	if len(orders) > recentCount {
		dashboard.Recent = append(dashboard.Recent, orders[:recentCount]...)
	} else {
		dashboard.Recent = append(dashboard.Recent, orders...)
	}
	return dashboard
}
