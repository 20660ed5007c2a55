package nutrition

import (
	"errors"
	"math"
	"sort"

	"github.com/alimon-app/mise/internal/models"
)

var (
	ErrZeroReference   = errors.New("reference quantity must not be zero")
	ErrZeroTarget      = errors.New("target amount must be greater than zero")
	ErrInvalidServings = errors.New("servings must be at least 1")
)

// Amount is a quantity of one nutrient.
type Amount struct {
	Key    string  `json:"nutrient_key"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// IngredientProfile returns the per-serving nutrient profile of an ingredient
// along with the base-unit quantity that profile describes. Ingredients
// without a serving size fall back to their default custom unit.
func IngredientProfile(ing *models.Ingredient) ([]Amount, float64, error) {
	reference := 0.0
	switch {
	case ing.ServingSize != nil:
		reference = *ing.ServingSize
	default:
		for _, u := range ing.Units {
			if u.IsDefault {
				reference = u.Amount
				break
			}
		}
		if reference == 0 {
			return nil, 0, ErrMissingServingSize
		}
	}

	profile := make([]Amount, 0, len(ing.Nutrients))
	for _, n := range ing.Nutrients {
		profile = append(profile, Amount{Key: n.NutrientKey, Amount: n.Amount, Unit: n.Unit})
	}
	return profile, reference, nil
}

// RecipeProfile returns the per-serving nutrient profile of a recipe. The
// reference quantity of a recipe profile is always one serving.
func RecipeProfile(recipe *models.Recipe) ([]Amount, float64, error) {
	if recipe.Servings < 1 {
		return nil, 0, ErrInvalidServings
	}
	servings := float64(recipe.Servings)
	profile := make([]Amount, 0, len(recipe.Nutrients))
	for _, n := range recipe.Nutrients {
		profile = append(profile, Amount{Key: n.NutrientKey, Amount: n.TotalAmount / servings, Unit: n.Unit})
	}
	return profile, 1, nil
}

// Scale multiplies every amount in profile by quantity/reference. Units are
// copied through and nothing is rounded.
func Scale(profile []Amount, reference, quantity float64) ([]Amount, error) {
	if reference == 0 {
		return nil, ErrZeroReference
	}
	factor := quantity / reference
	scaled := make([]Amount, len(profile))
	for i, a := range profile {
		scaled[i] = Amount{Key: a.Key, Amount: a.Amount * factor, Unit: a.Unit}
	}
	return scaled, nil
}

// Total is the summed amount of one nutrient.
type Total struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Totals maps a nutrient key to its summed amount.
type Totals map[string]Total

// Aggregate sums amounts per nutrient key. The unit recorded for a key is
// the unit of the first row seen for it.
func Aggregate(rows []Amount) Totals {
	totals := make(Totals)
	for _, r := range rows {
		t, ok := totals[r.Key]
		if !ok {
			t.Unit = r.Unit
		}
		t.Amount += r.Amount
		totals[r.Key] = t
	}
	return totals
}

// AggregateLogs sums the nutrient rows of a set of food logs.
func AggregateLogs(logs []*models.FoodLog) Totals {
	var rows []Amount
	for _, l := range logs {
		for _, n := range l.Nutrients {
			rows = append(rows, Amount{Key: n.NutrientKey, Amount: n.Amount, Unit: n.Unit})
		}
	}
	return Aggregate(rows)
}

// Keys returns the nutrient keys in lexical order.
func (t Totals) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Progress is consumption measured against a goal. Percent is the raw
// ratio and may exceed 100.
type Progress struct {
	Total   float64 `json:"consumed"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
}

// Display returns the percentage to draw on a progress bar.
func (p Progress) Display() float64 {
	return math.Min(100, p.Percent)
}

// PercentOfGoal measures total against target.
func PercentOfGoal(total, target float64) (Progress, error) {
	if target <= 0 {
		return Progress{}, ErrZeroTarget
	}
	return Progress{Total: total, Target: target, Percent: total / target * 100}, nil
}
