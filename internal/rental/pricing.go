// Package rental holds the pricing, deposit and order lifecycle rules of the
// store. It does no I/O; callers load state, ask rental what is allowed, and
// persist the result.
package rental

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidWindow is wrapped by every rental date validation failure
var ErrInvalidWindow = errors.New("invalid rental window")

// Policy carries the business constants used when pricing a rental
type Policy struct {
	// DepositThreshold is compared with price per day times days, in paise.
	DepositThreshold int64
	DepositRate      float64
	MaxRentalDays    int
}

// DefaultPolicy: deposit of half the subtotal above INR 1000, rentals up to 30 days
func DefaultPolicy() Policy {
	return Policy{
		DepositThreshold: 100000,
		DepositRate:      0.5,
		MaxRentalDays:    30,
	}
}

// Day truncates t to midnight UTC of its calendar date
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidWindow, s)
	}
	return t, nil
}

// RentalDays counts both the start and the end day
func RentalDays(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours()/24) + 1
}

// ValidateWindow checks a requested rental period against today's date
func (p Policy) ValidateWindow(start, end, today time.Time) error {
	start, end, today = Day(start), Day(end), Day(today)

	if start.Before(today) {
		return fmt.Errorf("%w: start date cannot be in the past", ErrInvalidWindow)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date cannot be before start date", ErrInvalidWindow)
	}
	if RentalDays(start, end) > p.MaxRentalDays {
		return fmt.Errorf("%w: maximum rental period is %d days", ErrInvalidWindow, p.MaxRentalDays)
	}
	return nil
}

// LineSubtotal is the rental price of qty units over days
func LineSubtotal(pricePerDay int64, qty, days int) int64 {
	return pricePerDay * int64(qty) * int64(days)
}

// LineDeposit is the security deposit for a line. High-value rentals, where one
// unit over the whole period costs more than the threshold, pay a share of the
// subtotal up front.
func (p Policy) LineDeposit(pricePerDay int64, qty, days int) int64 {
	if pricePerDay*int64(days) <= p.DepositThreshold {
		return 0
	}
	return applyRate(LineSubtotal(pricePerDay, qty, days), p.DepositRate)
}

// Line is a cart line to be priced
type Line struct {
	CartItemID  int64     `json:"cart_item_id"`
	GadgetID    int64     `json:"gadget_id"`
	GadgetName  string    `json:"gadget_name"`
	PricePerDay int64     `json:"price_per_day"`
	Quantity    int       `json:"quantity"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// QuotedLine is a priced cart line
type QuotedLine struct {
	Line
	Days     int   `json:"days"`
	Subtotal int64 `json:"subtotal"`
	Deposit  int64 `json:"deposit"`
	Discount int64 `json:"discount"`
}

// Quote is the full price breakdown of a cart
type Quote struct {
	Lines           []QuotedLine `json:"lines"`
	RentalTotal     int64        `json:"rental_total"`
	DepositTotal    int64        `json:"deposit_total"`
	PromoCode       string       `json:"promo_code,omitempty"`
	DiscountPercent float64      `json:"discount_percent,omitempty"`
	Discount        int64        `json:"discount"`
	Payable         int64        `json:"payable"`
}

// QuoteCart prices every line and applies an optional percentage discount to
// the rental total. Deposits are never discounted. The discount is split over
// the lines in proportion to their subtotals so that the per-line shares add
// up to the cart discount exactly.
func (p Policy) QuoteCart(lines []Line, promoCode string, discountPercent float64) Quote {
	q := Quote{Lines: make([]QuotedLine, 0, len(lines))}

	for _, l := range lines {
		days := RentalDays(l.StartDate, l.EndDate)
		ql := QuotedLine{
			Line:     l,
			Days:     days,
			Subtotal: LineSubtotal(l.PricePerDay, l.Quantity, days),
			Deposit:  p.LineDeposit(l.PricePerDay, l.Quantity, days),
		}
		q.RentalTotal += ql.Subtotal
		q.DepositTotal += ql.Deposit
		q.Lines = append(q.Lines, ql)
	}

	if promoCode != "" && discountPercent > 0 {
		q.PromoCode = promoCode
		q.DiscountPercent = discountPercent
		q.Discount = applyRate(q.RentalTotal, discountPercent/100)
		apportion(q.Lines, q.Discount, q.RentalTotal)
	}

	q.Payable = q.RentalTotal + q.DepositTotal - q.Discount
	return q
}

func apportion(lines []QuotedLine, discount, total int64) {
	if total == 0 || len(lines) == 0 {
		return
	}
	var given int64
	for i := range lines[:len(lines)-1] {
		share := discount * lines[i].Subtotal / total
		lines[i].Discount = share
		given += share
	}
	lines[len(lines)-1].Discount = discount - given
}

func applyRate(amount int64, rate float64) int64 {
	return int64(math.Round(float64(amount) * rate))
}

// FormatMoney renders paise as rupees with two decimals
func FormatMoney(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s%d.%02d", sign, paise/100, paise%100)
}
