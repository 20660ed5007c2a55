package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog(t *testing.T) {
	all := Catalog()
	assert.Equal(t, len(commonNutrients)+len(nicheNutrients), len(all))
	assert.Equal(t, "calories", all[0].Key)
	assert.True(t, all[0].Common)

	seen := map[string]bool{}
	for _, d := range all {
		assert.False(t, seen[d.Key], "duplicate key %s", d.Key)
		seen[d.Key] = true
	}

	all[0].DisplayName = "changed"
	assert.Equal(t, "Calories", DisplayName("calories"))
}

func TestLookupAndDisplayName(t *testing.T) {
	d, ok := Lookup("vitamin_b12")
	assert.True(t, ok)
	assert.Equal(t, "mcg", d.Unit)
	assert.Equal(t, CategoryVitamins, d.Category)

	assert.Equal(t, "Thiamin (B1)", DisplayName("thiamin"))
	assert.Equal(t, "mystery_compound", DisplayName("mystery_compound"))
}

func TestByCategory(t *testing.T) {
	groups := ByCategory()
	keys := func(c Category) []string {
		var out []string
		for _, d := range groups[c] {
			out = append(out, d.Key)
		}
		return out
	}
	assert.Contains(t, keys(CategoryMacronutrients), "protein")
	assert.Contains(t, keys(CategoryVitamins), "folate")
	assert.Contains(t, keys(CategoryMinerals), "sodium")
	assert.Contains(t, keys(CategoryOther), "leucine")
}

func TestKeyForUSDAName(t *testing.T) {
	key, ok := KeyForUSDAName("Total lipid (fat)")
	assert.True(t, ok)
	assert.Equal(t, "total_fat", key)

	_, ok = KeyForUSDAName("Caffeine")
	assert.False(t, ok)
}
