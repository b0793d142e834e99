package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/models"
)

var ErrValidationFailed = errors.New("validation failed")

const (
	MaxNameLength       = 255
	MaxAddressLength    = 255
	MaxCityLength       = 100
	MaxPostalCodeLength = 20
	MaxAmountScale      = 2
)

// MaxAmount bounds every money input; larger values are almost certainly typos.
var MaxAmount = decimal.New(1, 12)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength counts runes, not bytes.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// CleanName sanitizes a user-supplied label and checks it is present and short enough.
func CleanName(s, fieldName string, maxLength int) (string, error) {
	cleaned := strings.TrimSpace(StripUnprintable(SanitizeText(s)))
	if err := ValidateStringNotEmpty(cleaned, fieldName); err != nil {
		return "", err
	}
	if err := ValidateStringMaxLength(cleaned, maxLength, fieldName); err != nil {
		return "", err
	}
	return cleaned, nil
}

// CleanOptional is CleanName for optional fields; blank input yields nil.
func CleanOptional(s *string, fieldName string, maxLength int) (*string, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	cleaned, err := CleanName(*s, fieldName, maxLength)
	if err != nil {
		return nil, err
	}
	return &cleaned, nil
}

// AmountRule selects which signs an amount may take.
type AmountRule int

const (
	Positive    AmountRule = iota // > 0
	NonNegative                   // >= 0
	AnySign
)

// ValidateAmount checks sign, magnitude and that no more than two decimal places are used.
func ValidateAmount(d decimal.Decimal, fieldName string, rule AmountRule) error {
	switch rule {
	case Positive:
		if !d.IsPositive() {
			return fmt.Errorf("%w: %s must be greater than zero", ErrValidationFailed, fieldName)
		}
	case NonNegative:
		if d.IsNegative() {
			logger.L.Debug("Negative value not allowed for field", "field", fieldName, "value", d.String())
			return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
		}
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s exceeds the maximum of %s", ErrValidationFailed, fieldName, MaxAmount.String())
	}
	if !d.Equal(d.Round(MaxAmountScale)) {
		return fmt.Errorf("%w: %s ('%s') has more than %d decimal places", ErrValidationFailed, fieldName, d.String(), MaxAmountScale)
	}
	return nil
}

// ParseAmount parses a decimal string and applies ValidateAmount.
func ParseAmount(s, fieldName string, rule AmountRule) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s ('%s') is not a valid amount", ErrValidationFailed, fieldName, s)
	}
	if err := ValidateAmount(d, fieldName, rule); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateDateString parses an ISO date (YYYY-MM-DD).
func ValidateDateString(s, fieldName string) (models.Date, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return models.Date{}, err
	}
	d, err := models.ParseDate(trimmed)
	if err != nil {
		return models.Date{}, fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD)", ErrValidationFailed, fieldName, s)
	}
	return d, nil
}

// ValidateCurrencyCode checks for three uppercase letters.
func ValidateCurrencyCode(s string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if !currencyCodeRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: Currency Code ('%s') is not in the expected format (3 uppercase letters)", ErrValidationFailed, s)
	}
	return nil
}

func ValidateID(v int64, fieldName string) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be a positive integer", ErrValidationFailed, fieldName)
	}
	return nil
}
