package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is used by adapters when the caller sends no limit at all.
	DefaultLimit = 10
	MaxLimit     = 1000
)

// Field is a sortable weatherdata column, identified by its API name.
type Field string

const (
	FieldCity        Field = "city"
	FieldTemp        Field = "temp"
	FieldHumidity    Field = "humidity"
	FieldPressurePsi Field = "pressurePsi"
)

// Fields lists the closed set of sortable fields.
var Fields = []Field{FieldCity, FieldTemp, FieldHumidity, FieldPressurePsi}

type Order string

const (
	Ascending  Order = "ascending"
	Descending Order = "descending"
)

// SortKey selects one pre-built top-K statement.
type SortKey struct {
	Field Field
	Order Order
}

// Query is a validated top-K request.
type Query struct {
	Field Field
	Limit int
	Order Order
}

func (q Query) SortKey() SortKey {
	return SortKey{Field: q.Field, Order: q.Order}
}

// ErrInvalidQuery matches every validation error below via errors.Is.
var ErrInvalidQuery = errors.New("invalid query")

type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q (allowed: city, temp, humidity, pressurePsi)", e.Field)
}

func (e *InvalidFieldError) Is(target error) bool { return target == ErrInvalidQuery }

type InvalidLimitError struct {
	Value string
}

func (e *InvalidLimitError) Error() string {
	return fmt.Sprintf("invalid limit %q (expected integer between 1 and %d)", e.Value, MaxLimit)
}

func (e *InvalidLimitError) Is(target error) bool { return target == ErrInvalidQuery }

type InvalidOrderError struct {
	Order string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid order %q (allowed: asc, desc)", e.Order)
}

func (e *InvalidOrderError) Is(target error) bool { return target == ErrInvalidQuery }

// ParseField matches s case-sensitively against the sortable fields after
// stripping surrounding whitespace and quote characters.
func ParseField(s string) (Field, error) {
	cleaned := strings.Trim(strings.TrimSpace(s), "\"'`")
	for _, f := range Fields {
		if string(f) == cleaned {
			return f, nil
		}
	}
	return "", &InvalidFieldError{Field: s}
}

// ParseOrder accepts asc, ascending, desc and descending in any letter case.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", &InvalidOrderError{Order: s}
	}
}

// ValidateLimit rejects limits outside 1..MaxLimit.
func ValidateLimit(n int) (int, error) {
	if n <= 0 || n > MaxLimit {
		return 0, &InvalidLimitError{Value: strconv.Itoa(n)}
	}
	return n, nil
}

// ParseLimit converts caller text to a limit. Empty and non-numeric input fail.
func ParseLimit(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &InvalidLimitError{Value: s}
	}
	if _, err := ValidateLimit(n); err != nil {
		return 0, &InvalidLimitError{Value: s}
	}
	return n, nil
}

// NewQuery validates all three inputs. Field is checked first, then limit,
// then order; the first failure is returned.
func NewQuery(field string, limit int, order string) (Query, error) {
	f, err := ParseField(field)
	if err != nil {
		return Query{}, err
	}
	n, err := ValidateLimit(limit)
	if err != nil {
		return Query{}, err
	}
	o, err := ParseOrder(order)
	if err != nil {
		return Query{}, err
	}
	return Query{Field: f, Limit: n, Order: o}, nil
}
