package report

import (
	"fmt"
	"strconv"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"
)

// Table is a rendered admin report, ready for CSV or PDF export
type Table struct {
	Title    string
	Filename string
	Headers  []string
	Rows     [][]string
}

// Format is an export format accepted by the report endpoints
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat reads the ?format= query value; empty means JSON
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV, FormatPDF:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

func avgMoney(paise float64) string {
	return fmt.Sprintf("%.2f", paise/100)
}

func avg(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func day(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// DailyRevenueTable lays out paid revenue per day
func DailyRevenueTable(rows []models.DailyRevenueRow) *Table {
	t := &Table{
		Title:    "Daily Revenue Report",
		Filename: "daily_revenue_report",
		Headers: []string{
			"Date", "Total Orders", "Revenue (INR)", "Avg Revenue (INR)",
			"Max Order (INR)", "Min Order (INR)",
			"Unique Customers", "Total Rental Days", "Avg Rental Days",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Date.Format("2006-01-02"),
			strconv.Itoa(r.Orders),
			rental.FormatMoney(r.Revenue),
			avgMoney(r.AvgRevenue),
			rental.FormatMoney(r.MaxOrder),
			rental.FormatMoney(r.MinOrder),
			strconv.Itoa(r.UniqueCustomers),
			strconv.Itoa(r.TotalDays),
			avg(r.AvgDays),
		})
	}
	return t
}

// MostRentedTable lays out paid rentals per gadget
func MostRentedTable(rows []models.GadgetRentalRow) *Table {
	t := &Table{
		Title:    "Most Rented Gadgets Report",
		Filename: "most_rented_gadgets_report",
		Headers: []string{
			"Gadget", "Category", "Total Rentals", "Total Days",
			"Unique Users", "Total Revenue (INR)", "Avg Revenue (INR)",
			"Avg Days", "Last Rented",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Gadget,
			r.Category,
			strconv.Itoa(r.TotalRentals),
			strconv.Itoa(r.TotalDays),
			strconv.Itoa(r.UniqueUsers),
			rental.FormatMoney(r.TotalRevenue),
			avgMoney(r.AvgRevenue),
			avg(r.AvgDays),
			day(r.LastRented),
		})
	}
	return t
}

// UserActivityTable lays out paid rentals per customer
func UserActivityTable(rows []models.UserActivityRow) *Table {
	t := &Table{
		Title:    "User Activity Report",
		Filename: "user_activity_report",
		Headers: []string{
			"User", "Email", "Phone",
			"Total Orders", "Total Revenue (INR)", "Avg Revenue (INR)",
			"Total Rental Days", "Avg Days",
			"Last Order Date",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Name,
			r.Email,
			r.Phone,
			strconv.Itoa(r.Orders),
			rental.FormatMoney(r.Revenue),
			avgMoney(r.AvgRevenue),
			strconv.Itoa(r.TotalDays),
			avg(r.AvgDays),
			day(r.LastOrder),
		})
	}
	return t
}
