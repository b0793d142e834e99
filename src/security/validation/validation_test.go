package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "Everyday Checking", "Everyday Checking", false},
		{"trimmed", "  Savings \n", "Savings", false},
		{"html stripped", "<b>Card</b><script>alert(1)</script>", "Card", false},
		{"control chars dropped", "Brok\x1ber\x07age", "Brokerage", false},
		{"blank", "   ", "", true},
		{"only markup", "<i></i>", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanName(tt.in, "name", MaxNameLength)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CleanName(strings.Repeat("a", 5), "name", 4)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCleanOptional(t *testing.T) {
	got, err := CleanOptional(nil, "line2", MaxAddressLength)
	require.NoError(t, err)
	assert.Nil(t, got)

	blank := "  "
	got, err = CleanOptional(&blank, "line2", MaxAddressLength)
	require.NoError(t, err)
	assert.Nil(t, got)

	unit := " Apt 4 "
	got, err = CleanOptional(&unit, "line2", MaxAddressLength)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Apt 4", *got)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		rule    AmountRule
		want    string
		wantErr bool
	}{
		{"12.34", Positive, "12.34", false},
		{"0.01", Positive, "0.01", false},
		{"0", Positive, "", true},
		{"-5", Positive, "", true},
		{"0", NonNegative, "0", false},
		{"-5", NonNegative, "", true},
		{"-5.50", AnySign, "-5.5", false},
		{"1.005", AnySign, "", true},
		{"abc", AnySign, "", true},
		{"", AnySign, "", true},
		{"10000000000000", AnySign, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in, "amount", tt.rule)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestValidateDateString(t *testing.T) {
	d, err := ValidateDateString("2024-02-29", "date")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	for _, bad := range []string{"", "29-02-2024", "yesterday"} {
		_, err := ValidateDateString(bad, "date")
		assert.ErrorIs(t, err, ErrValidationFailed, bad)
	}
}

func TestValidateCurrencyCode(t *testing.T) {
	assert.NoError(t, ValidateCurrencyCode("usd"))
	assert.ErrorIs(t, ValidateCurrencyCode("US"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateCurrencyCode("US1"), ErrValidationFailed)
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	tests := map[string]string{
		"=SUM(A1:A2)": "'=SUM(A1:A2)",
		"+1":          "'+1",
		" -2":         "' -2",
		"@cmd":        "'@cmd",
		"Checking":    "Checking",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeForFormulaInjection(in), in)
	}
}
