package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the ISO calendar-date format used for storage and JSON.
const DateLayout = "2006-01-02"

// MaxItemNameLength bounds the item name of a sale.
const MaxItemNameLength = 200

type (
	Date struct {
		time.Time
	}

	// Sale is one sold line: an item, its quantity and price, how it was paid.
	Sale struct {
		ID            int64     `json:"id"`
		Date          Date      `json:"date"`
		ItemName      string    `json:"item_name"`
		Category      string    `json:"category"`
		Quantity      int64     `json:"quantity"`
		UnitPrice     Money     `json:"unit_price"`
		TotalAmount   Money     `json:"total_amount"`
		PaymentMethod string    `json:"payment_method"`
		CustomerName  string    `json:"customer_name,omitempty"`
		Notes         string    `json:"notes,omitempty"`
		CreatedAt     time.Time `json:"created_at"`
	}

	// SaleInput carries the caller-supplied fields of a sale. The total and
	// the bookkeeping fields are derived when it is turned into a Sale.
	SaleInput struct {
		Date          Date   `json:"date"`
		ItemName      string `json:"item_name"`
		Category      string `json:"category"`
		Quantity      int64  `json:"quantity"`
		UnitPrice     Money  `json:"unit_price"`
		PaymentMethod string `json:"payment_method"`
		CustomerName  string `json:"customer_name,omitempty"`
		Notes         string `json:"notes,omitempty"`
	}

	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
)

// MsgEmptyReport is the user-facing message for a report range with no sales.
const MsgEmptyReport = "No sales found in the selected date range"

// SeedCategories are inserted once into an empty category table.
var SeedCategories = []string{"Shirts", "Pants", "Dresses", "Jackets", "Accessories", "Shoes"}

// PaymentMethods are the suggested payment methods. Any non-empty value is accepted.
var PaymentMethods = []string{"Cash", "Card", "Online", "Check"}

var (
	ErrValidation   = errors.New("validation failed")
	ErrDuplicate    = errors.New("duplicate")
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("invalid date range")
	ErrEmptyReport  = errors.New("no sales found in the selected date range")

	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrMissingDate        = errors.New("date is required")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrAmountTooLarge     = errors.New("total amount is too large")
	ErrInvalidQuantity    = errors.New("quantity must be greater than 0")
	ErrEmptyItemName      = errors.New("item name is required")
	ErrItemNameTooLong    = fmt.Errorf("item name too long (max %d characters)", MaxItemNameLength)
	ErrEmptyCategory      = errors.New("category is required")
	ErrEmptyPaymentMethod = errors.New("payment method is required")
)

// ValidationError reports which field of an input was rejected.
// It matches both ErrValidation and the field-specific sentinel.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrMissingDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) FirstOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

func (d Date) LastOfMonth() Date {
	return NewDate(d.Year(), d.Month()+1, 0)
}

// Compare returns -1, 0 or +1 by calendar order.
func (d Date) Compare(o Date) int {
	return strings.Compare(d.String(), o.String())
}

// Within reports whether d falls in the inclusive range [start, end].
func (d Date) Within(start, end Date) bool {
	return d.Compare(start) >= 0 && d.Compare(end) <= 0
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Normalize trims the free-text fields.
func (in SaleInput) Normalize() SaleInput {
	in.ItemName = strings.TrimSpace(in.ItemName)
	in.Category = strings.TrimSpace(in.Category)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Notes = strings.TrimSpace(in.Notes)
	return in
}

// Validate checks the input and returns a *ValidationError for the first bad field.
func (in SaleInput) Validate() error {
	if err := in.Date.Validate(); err != nil {
		return invalid("date", err)
	}
	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		return invalid("item_name", ErrEmptyItemName)
	}
	if utf8.RuneCountInString(name) > MaxItemNameLength {
		return invalid("item_name", ErrItemNameTooLong)
	}
	if strings.TrimSpace(in.Category) == "" {
		return invalid("category", ErrEmptyCategory)
	}
	if in.Quantity <= 0 {
		return invalid("quantity", ErrInvalidQuantity)
	}
	if err := in.UnitPrice.Validate(); err != nil {
		return invalid("unit_price", err)
	}
	if _, err := in.UnitPrice.Times(in.Quantity); err != nil {
		return invalid("quantity", err)
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return invalid("payment_method", ErrEmptyPaymentMethod)
	}
	return nil
}

// Sale builds the record to persist, deriving total_amount from quantity and price.
func (in SaleInput) Sale() Sale {
	in = in.Normalize()
	return Sale{
		Date:          in.Date,
		ItemName:      in.ItemName,
		Category:      in.Category,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		TotalAmount:   in.UnitPrice.Mul(in.Quantity),
		PaymentMethod: in.PaymentMethod,
		CustomerName:  in.CustomerName,
		Notes:         in.Notes,
	}
}

// ValidateCategoryName trims name and rejects an empty one.
func ValidateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", ErrEmptyCategory)
	}
	return name, nil
}
