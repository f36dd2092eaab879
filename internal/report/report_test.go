package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"gadget-rental/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "json": FormatJSON, "csv": FormatCSV, "pdf": FormatPDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestDailyRevenueCSV(t *testing.T) {
	table := DailyRevenueTable([]models.DailyRevenueRow{{
		Date:            time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
		Orders:          2,
		Revenue:         450050,
		AvgRevenue:      225025,
		MaxOrder:        300000,
		MinOrder:        150050,
		UniqueCustomers: 1,
		TotalDays:       5,
		AvgDays:         2.5,
	}})

	out, err := table.WriteCSV()
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Date", records[0][0])
	assert.Equal(t, []string{"2024-06-12", "2", "4500.50", "2250.25", "3000.00", "1500.50", "1", "5", "2.50"}, records[1])
}

func TestMostRentedAndUserActivityRows(t *testing.T) {
	last := time.Date(2024, 6, 9, 15, 30, 0, 0, time.UTC)

	gadgets := MostRentedTable([]models.GadgetRentalRow{
		{Gadget: "Sony A7 IV", Category: "Cameras", TotalRentals: 3, TotalDays: 6, UniqueUsers: 2, TotalRevenue: 900000, AvgRevenue: 300000, AvgDays: 2, LastRented: &last},
		{Gadget: "GoPro Hero 12", Category: "Cameras", TotalRentals: 1},
	})
	assert.Equal(t, "most_rented_gadgets_report", gadgets.Filename)
	require.Len(t, gadgets.Rows, 2)
	assert.Equal(t, "2024-06-09", gadgets.Rows[0][8])
	assert.Equal(t, "", gadgets.Rows[1][8])
	assert.Len(t, gadgets.Rows[0], len(gadgets.Headers))

	users := UserActivityTable([]models.UserActivityRow{
		{Name: "Arun", Email: "arun@example.com", Orders: 1, Revenue: 150000, AvgRevenue: 150000, TotalDays: 1, AvgDays: 1, LastOrder: &last},
	})
	require.Len(t, users.Rows, 1)
	assert.Equal(t, []string{"Arun", "arun@example.com", "", "1", "1500.00", "1500.00", "1", "1.00", "2024-06-09"}, users.Rows[0])
}

func TestRenderPDF(t *testing.T) {
	rows := make([]models.UserActivityRow, 60)
	for i := range rows {
		rows[i] = models.UserActivityRow{Name: "Customer", Email: "c@example.com", Orders: i}
	}

	out, err := UserActivityTable(rows).RenderPDF(time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	empty, err := DailyRevenueTable(nil).RenderPDF(time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))
}
