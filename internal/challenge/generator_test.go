package challenge

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := ParseDate(key)
	require.NoError(t, err)
	return d
}

func TestGenerateIsDeterministic(t *testing.T) {
	start := mustDate(t, "2024-01-01")
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		first := Generate(d)
		second := Generate(d)
		assert.Equal(t, first, second, "date %s", d.Format(DateLayout))
		assert.NotEmpty(t, first.Title)
		assert.NotEmpty(t, first.Task)
	}
}

func TestGenerateChristmasIsSpecial(t *testing.T) {
	got := Generate(mustDate(t, "2025-12-25"))
	assert.Equal(t, TypeSpecial, got.Type)
	assert.Equal(t, "Christmas Magic Workshop", got.Title)
}

func TestSpecialOccasionsIgnoreSeed(t *testing.T) {
	for monthDay, want := range specialOccasions {
		for _, year := range []int{2023, 2024, 2025, 2031} {
			d := mustDate(t, fmt.Sprintf("%d-%s", year, monthDay))
			got := Generate(d)
			assert.Equal(t, TypeSpecial, got.Type)
			assert.Equal(t, want.Title, got.Title)
			assert.Equal(t, want.Task, got.Task)
		}
	}
}

func TestSpecialOccasionLookup(t *testing.T) {
	got, ok := SpecialOccasion("02-14")
	require.True(t, ok)
	assert.Equal(t, TypeSpecial, got.Type)
	assert.Equal(t, specialOccasions["02-14"].Title, got.Title)

	_, ok = SpecialOccasion("02-15")
	assert.False(t, ok)
}

func TestGenerateRoutesBySeed(t *testing.T) {
	// 2025 + 1 + 5 = 2031, 2031 % 10 = 1 -> curated pool index 1
	curated := Generate(mustDate(t, "2025-01-05"))
	assert.Equal(t, TypeCurated, curated.Type)
	assert.Equal(t, "Steampunk Sky Harbor", curated.Title)

	// 2025 + 1 + 2 = 2028, 2028 % 10 = 8 -> dynamic
	dynamic := Generate(mustDate(t, "2025-01-02"))
	assert.Equal(t, TypeDynamic, dynamic.Type)
	assert.Equal(t, "Forgotten Owl", dynamic.Title)
	assert.Contains(t, dynamic.Task, "forgotten owl")
}

func TestSeed(t *testing.T) {
	assert.Equal(t, 2025+12+25, Seed(mustDate(t, "2025-12-25")))
}

func TestDateKeyUsesLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	instant := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-09", DateKey(instant, ny))
	assert.Equal(t, "2025-03-10", DateKey(instant, time.UTC))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("12/25/2025")
	assert.Error(t, err)
}
