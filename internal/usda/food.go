package usda

import (
	"sort"
	"strings"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/nutrition"
	"github.com/alimon-app/mise/internal/service"
)

// Foundation foods report nutrients per 100 g.
const (
	referenceAmount = 100.0
	referenceUnit   = "g"
)

// FoodDetail is the subset of a /food/{fdcId} response Mise reads.
type FoodDetail struct {
	FdcID                    int64          `json:"fdcId"`
	Description              string         `json:"description"`
	ServingSize              *float64       `json:"servingSize"`
	ServingSizeUnit          *string        `json:"servingSizeUnit"`
	HouseholdServingFullText *string        `json:"householdServingFullText"`
	FoodNutrients            []foodNutrient `json:"foodNutrients"`
	FoodPortions             []foodPortion  `json:"foodPortions"`
}

// foodNutrient accepts both the flat search shape and the nested detail
// shape of a nutrient row.
type foodNutrient struct {
	NutrientName string   `json:"nutrientName"`
	UnitName     string   `json:"unitName"`
	Value        *float64 `json:"value"`
	Amount       *float64 `json:"amount"`
	Nutrient     *struct {
		Name     string `json:"name"`
		UnitName string `json:"unitName"`
	} `json:"nutrient"`
}

func (n foodNutrient) name() string {
	if n.Nutrient != nil && n.Nutrient.Name != "" {
		return n.Nutrient.Name
	}
	return n.NutrientName
}

func (n foodNutrient) unit() string {
	if n.Nutrient != nil && n.Nutrient.UnitName != "" {
		return n.Nutrient.UnitName
	}
	return n.UnitName
}

func (n foodNutrient) value() (float64, bool) {
	switch {
	case n.Amount != nil:
		return *n.Amount, true
	case n.Value != nil:
		return *n.Value, true
	}
	return 0, false
}

type foodPortion struct {
	MeasureUnit *struct {
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
	} `json:"measureUnit"`
	MeasureUnitName string   `json:"measureUnitName"`
	Modifier        string   `json:"modifier"`
	GramWeight      *float64 `json:"gramWeight"`
	Value           *float64 `json:"value"`
	Amount          *float64 `json:"amount"`
}

func (p foodPortion) unitName() string {
	name := p.MeasureUnitName
	if name == "" && p.MeasureUnit != nil {
		name = p.MeasureUnit.Name
	}
	if name == "" || strings.EqualFold(name, "undetermined") {
		name = p.Modifier
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func (p foodPortion) count() *float64 {
	if p.Value != nil {
		return p.Value
	}
	return p.Amount
}

// Food is a fetched food reduced to catalog nutrient keys. Its JSON form is
// what `mise usda fetch` writes.
type Food struct {
	FdcID            int64                    `json:"fdcId"`
	Name             string                   `json:"name"`
	ServingSize      *float64                 `json:"servingSize"`
	ServingSizeUnit  *string                  `json:"servingSizeUnit"`
	HouseholdServing *string                  `json:"householdServing"`
	Measures         []Measure                `json:"measures"`
	Nutrients        map[string]NutrientValue `json:"nutrients"`
}

type Measure struct {
	Unit       string   `json:"unit"`
	GramWeight *float64 `json:"gramWeight"`
	Value      *float64 `json:"value"`
}

type NutrientValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Food maps the nutrient names through the catalog. Names the catalog does
// not know are dropped, and so is energy reported in kilojoules.
func (d *FoodDetail) Food() Food {
	f := Food{
		FdcID:            d.FdcID,
		Name:             d.Description,
		ServingSize:      d.ServingSize,
		ServingSizeUnit:  d.ServingSizeUnit,
		HouseholdServing: d.HouseholdServingFullText,
		Measures:         make([]Measure, 0, len(d.FoodPortions)),
		Nutrients:        make(map[string]NutrientValue),
	}
	for _, n := range d.FoodNutrients {
		key, ok := nutrition.KeyForUSDAName(n.name())
		if !ok {
			continue
		}
		v, ok := n.value()
		if !ok {
			continue
		}
		unit := normalizeUnit(n.unit())
		if unit == "kj" {
			continue
		}
		f.Nutrients[key] = NutrientValue{Value: v, Unit: unit}
	}
	for _, p := range d.FoodPortions {
		f.Measures = append(f.Measures, Measure{Unit: p.unitName(), GramWeight: p.GramWeight, Value: p.count()})
	}
	return f
}

// normalizeUnit maps FoodData Central unit names onto the catalog's.
func normalizeUnit(u string) string {
	switch lower := strings.ToLower(strings.TrimSpace(u)); lower {
	case "kcal":
		return "cal"
	case "ug", "µg", "μg":
		return "mcg"
	case "iu":
		return "IU"
	default:
		return lower
	}
}

// maxUnitName matches the width of ingredient_units.unit_name.
const maxUnitName = 50

// IngredientInput converts a fetched food into an ingredient measured per
// 100 g, with each household measure as a gram-based unit conversion.
func (f Food) IngredientInput() service.CreateIngredientInput {
	size, unit := referenceAmount, referenceUnit
	in := service.CreateIngredientInput{
		Name:        f.Name,
		ServingSize: &size,
		ServingUnit: &unit,
	}

	keys := make([]string, 0, len(f.Nutrients))
	for k := range f.Nutrients {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n := f.Nutrients[k]
		in.Nutrients = append(in.Nutrients, service.NutrientInput{Key: k, Amount: n.Value, Unit: n.Unit})
	}

	seen := map[string]bool{referenceUnit: true, nutrition.UnitServings: true, nutrition.UnitContainers: true}
	for _, m := range f.Measures {
		if m.Unit == "" || len(m.Unit) > maxUnitName || seen[m.Unit] || m.GramWeight == nil || *m.GramWeight <= 0 {
			continue
		}
		grams := *m.GramWeight
		if m.Value != nil && *m.Value > 0 {
			grams /= *m.Value
		}
		seen[m.Unit] = true
		in.Units = append(in.Units, models.UnitConversion{UnitName: m.Unit, Amount: grams})
	}
	return in
}
