package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimon-app/mise/internal/models"
)

func ptr[T any](v T) *T { return &v }

func flour() *models.Ingredient {
	return &models.Ingredient{
		Name:                 "Flour",
		ServingSize:          ptr(30.0),
		ServingUnit:          ptr("g"),
		ServingsPerContainer: ptr(20.0),
		Units: []models.UnitConversion{
			{UnitName: "cup", Amount: 240, IsDefault: true},
			{UnitName: "tbsp", Amount: 15},
		},
	}
}

func TestResolve(t *testing.T) {
	ing := flour()

	tests := []struct {
		name     string
		quantity float64
		unit     string
		want     float64
	}{
		{"custom unit", 2, "cup", 480},
		{"second custom unit", 1, "tbsp", 15},
		{"servings", 1.5, UnitServings, 45},
		{"containers", 2, UnitContainers, 1200},
		{"base unit passes through", 73, "g", 73},
		{"zero quantity", 0, "cup", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(ing, tt.quantity, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestResolve_CustomUnitShadowsServingUnit(t *testing.T) {
	ing := &models.Ingredient{
		Name:        "Rice",
		ServingSize: ptr(45.0),
		ServingUnit: ptr("g"),
		Units:       []models.UnitConversion{{UnitName: "g", Amount: 2}},
	}
	got, err := Resolve(ing, 10, "g")
	require.NoError(t, err)
	assert.Equal(t, 20.0, got)
}

func TestResolve_Errors(t *testing.T) {
	noServing := &models.Ingredient{Name: "Salt", ServingUnit: ptr("g")}

	_, err := Resolve(noServing, 1, UnitServings)
	assert.ErrorIs(t, err, ErrMissingServingSize)

	_, err = Resolve(noServing, 1, UnitContainers)
	assert.ErrorIs(t, err, ErrMissingContainerInfo)

	noContainer := &models.Ingredient{Name: "Milk", ServingSize: ptr(240.0), ServingUnit: ptr("ml")}
	_, err = Resolve(noContainer, 1, UnitContainers)
	assert.ErrorIs(t, err, ErrMissingContainerInfo)

	_, err = Resolve(noContainer, 1, "handful")
	var unknown *UnknownUnitError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "handful", unknown.Unit)

	_, err = Resolve(&models.Ingredient{Name: "Mystery"}, 1, "")
	assert.ErrorAs(t, err, &unknown)
}

func TestResolveRecipe(t *testing.T) {
	r := &models.Recipe{Name: "Omelette", Servings: 2}

	got, err := ResolveRecipe(r, 1.5, UnitServings)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)

	_, err = ResolveRecipe(r, 1, "g")
	var unknown *UnknownUnitError
	assert.ErrorAs(t, err, &unknown)
}

func TestValidateUnits(t *testing.T) {
	assert.NoError(t, ValidateUnits(nil))
	assert.NoError(t, ValidateUnits(flour().Units))

	err := ValidateUnits([]models.UnitConversion{
		{UnitName: "cup", Amount: 240, IsDefault: true},
		{UnitName: "tbsp", Amount: 15, IsDefault: true},
	})
	assert.ErrorIs(t, err, ErrMultipleDefaultUnits)

	for name, units := range map[string][]models.UnitConversion{
		"blank name":    {{UnitName: " ", Amount: 1}},
		"reserved name": {{UnitName: UnitServings, Amount: 1}},
		"zero amount":   {{UnitName: "cup", Amount: 0}},
		"duplicate":     {{UnitName: "cup", Amount: 1}, {UnitName: "cup", Amount: 2}},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateUnits(units), ErrInvalidUnit)
		})
	}
}

func TestNormalizeUnits(t *testing.T) {
	ing := &models.Ingredient{Units: []models.UnitConversion{{UnitName: "scoop", Amount: 31}, {UnitName: "tsp", Amount: 3}}}
	NormalizeUnits(ing)
	assert.True(t, ing.Units[0].IsDefault)
	assert.False(t, ing.Units[1].IsDefault)

	withServing := &models.Ingredient{ServingSize: ptr(30.0), Units: []models.UnitConversion{{UnitName: "scoop", Amount: 31}}}
	NormalizeUnits(withServing)
	assert.False(t, withServing.Units[0].IsDefault)

	flagged := &models.Ingredient{Units: []models.UnitConversion{{UnitName: "scoop", Amount: 31}, {UnitName: "tsp", Amount: 3, IsDefault: true}}}
	NormalizeUnits(flagged)
	assert.False(t, flagged.Units[0].IsDefault)
	assert.True(t, flagged.Units[1].IsDefault)
}
