// Package calendar lays out a shop's orders on a month grid.
package calendar

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"keyiflimasa/internal/format"
	"keyiflimasa/models"
)

// GridSize is six Monday-first weeks.
const GridSize = 42

var (
	WeekdayNames = []string{"Pzt", "Sal", "Çar", "Per", "Cum", "Cmt", "Paz"}
	MonthNames   = []string{
		"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
		"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
	}
)

type Day struct {
	Date         time.Time       `json:"date"`
	Orders       []models.Order  `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	CurrentMonth bool            `json:"current_month"`
	Today        bool            `json:"today"`
}

type Month struct {
	Year       int             `json:"year"`
	Month      time.Month      `json:"month"`
	Title      string          `json:"title"`
	Days       []Day           `json:"days"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"order_count"`
	BusyDays   int             `json:"busy_days"`
}

// Range returns the [from, to) interval covering the month in shop local time.
func Range(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, format.Location())
	return from, from.AddDate(0, 1, 0)
}

// Title renders "Mart 2025".
func Title(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", MonthNames[month-1], year)
}

// Build places orders on the grid by creation date in shop local time.
// Cancelled orders are listed on their day but excluded from revenue.
func Build(year int, month time.Month, orders []models.Order, today time.Time) Month {
	loc := format.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	// Monday is column zero.
	lead := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -lead)

	todayLocal := today.In(loc)
	todayKey := dayKey(todayLocal)

	byDay := make(map[string][]models.Order)
	for _, order := range orders {
		created := order.CreatedAt.In(loc)
		if created.Year() != year || created.Month() != month {
			continue
		}
		key := dayKey(created)
		byDay[key] = append(byDay[key], order)
	}

	result := Month{
		Year:    year,
		Month:   month,
		Title:   Title(year, month),
		Days:    make([]Day, 0, GridSize),
		Revenue: decimal.Zero,
	}
	for i := 0; i < GridSize; i++ {
		date := start.AddDate(0, 0, i)
		day := Day{Date: date, Revenue: decimal.Zero}
		if date.Month() == month && date.Year() == year {
			key := dayKey(date)
			day.CurrentMonth = true
			day.Today = key == todayKey
			day.Orders = byDay[key]
			for _, order := range day.Orders {
				if order.Status == models.OrderCancelled {
					continue
				}
				day.Revenue = day.Revenue.Add(order.Total)
				result.OrderCount++
			}
			if len(day.Orders) > 0 {
				result.BusyDays++
			}
			result.Revenue = result.Revenue.Add(day.Revenue)
		}
		result.Days = append(result.Days, day)
	}
	return result
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
