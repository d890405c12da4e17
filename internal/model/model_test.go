package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantToggle(t *testing.T) {
	assert.Equal(t, VariantLower, VariantUpper.Toggle())
	assert.Equal(t, VariantUpper, VariantLower.Toggle())

	// Toggling twice returns to the starting variant.
	for _, v := range []Variant{VariantUpper, VariantLower} {
		assert.Equal(t, v, v.Toggle().Toggle())
	}
}

func TestParseVariant(t *testing.T) {
	v, ok := ParseVariant("tepa")
	assert.True(t, ok)
	assert.Equal(t, VariantUpper, v)

	v, ok = ParseVariant("pastgi")
	assert.True(t, ok)
	assert.Equal(t, VariantLower, v)

	_, ok = ParseVariant("garbage")
	assert.False(t, ok)
	_, ok = ParseVariant("")
	assert.False(t, ok)
}

func TestDefaultWeekTable(t *testing.T) {
	table := DefaultWeekTable()

	for _, variant := range []Variant{VariantUpper, VariantLower} {
		days, ok := table[variant]
		require.True(t, ok)
		for _, day := range Weekdays {
			assert.NotEmpty(t, days[day], "default %s/%s must be populated", variant, day)
		}
		_, hasSunday := days[RestDay]
		assert.False(t, hasSunday, "rest day must not carry lessons")
	}
}

func TestWeekTableClone(t *testing.T) {
	table := DefaultWeekTable()
	clone := table.Clone()

	clone[VariantUpper]["Monday"] = "edited"
	assert.NotEqual(t, "edited", table[VariantUpper]["Monday"], "clone must not alias the source")
}

func TestSettingsIsAdmin(t *testing.T) {
	s := DefaultSettings(42)
	assert.True(t, s.IsAdmin(42))
	assert.False(t, s.IsAdmin(7))
}
