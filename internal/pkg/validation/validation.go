package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinFoodNameLength    = 2
	MinDescriptionLength = 10
)

// isValidEmail matches /^[^\s@]+@[^\s@]+\.[^\s@]+$/
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

var ErrInvalidDate = errors.New("invalid date")

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidImageURL accepts absolute http(s) URLs.
func IsValidImageURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidMonth checks the YYYY-MM shape used by report filters.
func IsValidMonth(s string) bool {
	return monthRe.MatchString(s)
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}

// ListingFields holds the listing values under validation. Nil fields are not checked
// unless they are required.
type ListingFields struct {
	FoodName    *string
	FoodImg     *string
	Location    *string
	Quantity    *int
	ExDate      *time.Time
	Description *string
	Price       *decimal.Decimal
}

// ValidateListing returns field -> message for every failing field, or nil.
// With required set, foodName, location, quantity, exDate and description must be present.
func ValidateListing(f ListingFields, required bool) map[string]interface{} {
	errs := map[string]interface{}{}

	if f.FoodName != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*f.FoodName)) < MinFoodNameLength {
			errs["foodName"] = "must be at least 2 characters"
		}
	} else if required {
		errs["foodName"] = "is required"
	}

	if f.FoodImg != nil && *f.FoodImg != "" && !IsValidImageURL(*f.FoodImg) {
		errs["foodImg"] = "must be an absolute http(s) URL"
	}

	if f.Location != nil {
		if strings.TrimSpace(*f.Location) == "" {
			errs["location"] = "must not be empty"
		}
	} else if required {
		errs["location"] = "is required"
	}

	if f.Quantity != nil {
		if *f.Quantity < 1 {
			errs["quantity"] = "must be at least 1"
		}
	} else if required {
		errs["quantity"] = "is required"
	}

	if f.ExDate != nil {
		if f.ExDate.IsZero() {
			errs["exDate"] = "is required"
		}
	} else if required {
		errs["exDate"] = "is required"
	}

	if f.Description != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*f.Description)) < MinDescriptionLength {
			errs["description"] = "must be at least 10 characters"
		}
	} else if required {
		errs["description"] = "is required"
	}

	if f.Price != nil && f.Price.IsNegative() {
		errs["price"] = "must not be negative"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
