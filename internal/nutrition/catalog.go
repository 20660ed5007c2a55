package nutrition

import "strings"

// Category groups nutrients for display.
type Category string

const (
	CategoryMacronutrients Category = "macronutrients"
	CategoryVitamins       Category = "vitamins"
	CategoryMinerals       Category = "minerals"
	CategoryOther          Category = "other"
)

// Definition describes a known nutrient key.
type Definition struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Unit        string   `json:"unit"`
	Category    Category `json:"category"`
	Common      bool     `json:"common"`
}

// commonNutrients are the nutrients printed on most nutrition labels.
var commonNutrients = []Definition{
	{Key: "calories", DisplayName: "Calories", Unit: "cal"},
	{Key: "protein", DisplayName: "Protein", Unit: "g"},
	{Key: "total_fat", DisplayName: "Total Fat", Unit: "g"},
	{Key: "saturated_fat", DisplayName: "Saturated Fat", Unit: "g"},
	{Key: "trans_fat", DisplayName: "Trans Fat", Unit: "g"},
	{Key: "total_carbs", DisplayName: "Total Carbs", Unit: "g"},
	{Key: "dietary_fiber", DisplayName: "Dietary Fiber", Unit: "g"},
	{Key: "sugars", DisplayName: "Sugars", Unit: "g"},
	{Key: "added_sugars", DisplayName: "Added Sugars", Unit: "g"},
	{Key: "cholesterol", DisplayName: "Cholesterol", Unit: "mg"},
	{Key: "sodium", DisplayName: "Sodium", Unit: "mg"},
	{Key: "potassium", DisplayName: "Potassium", Unit: "mg"},
	{Key: "vitamin_d", DisplayName: "Vitamin D", Unit: "mcg"},
	{Key: "calcium", DisplayName: "Calcium", Unit: "mg"},
	{Key: "iron", DisplayName: "Iron", Unit: "mg"},
	{Key: "vitamin_a", DisplayName: "Vitamin A", Unit: "mcg"},
	{Key: "vitamin_c", DisplayName: "Vitamin C", Unit: "mg"},
}

var nicheNutrients = []Definition{
	// fats
	{Key: "polyunsaturated_fat", DisplayName: "Polyunsaturated Fat", Unit: "g"},
	{Key: "monounsaturated_fat", DisplayName: "Monounsaturated Fat", Unit: "g"},
	// fiber
	{Key: "soluble_fiber", DisplayName: "Soluble Fiber", Unit: "g"},
	{Key: "insoluble_fiber", DisplayName: "Insoluble Fiber", Unit: "g"},
	{Key: "sugar_alcohols", DisplayName: "Sugar Alcohols", Unit: "g"},
	// vitamins
	{Key: "vitamin_e", DisplayName: "Vitamin E", Unit: "mg"},
	{Key: "vitamin_k", DisplayName: "Vitamin K", Unit: "mcg"},
	{Key: "thiamin", DisplayName: "Thiamin (B1)", Unit: "mg"},
	{Key: "riboflavin", DisplayName: "Riboflavin (B2)", Unit: "mg"},
	{Key: "niacin", DisplayName: "Niacin (B3)", Unit: "mg"},
	{Key: "vitamin_b6", DisplayName: "Vitamin B6", Unit: "mg"},
	{Key: "folate", DisplayName: "Folate", Unit: "mcg"},
	{Key: "vitamin_b12", DisplayName: "Vitamin B12", Unit: "mcg"},
	{Key: "biotin", DisplayName: "Biotin", Unit: "mcg"},
	{Key: "pantothenic_acid", DisplayName: "Pantothenic Acid", Unit: "mg"},
	// minerals
	{Key: "phosphorus", DisplayName: "Phosphorus", Unit: "mg"},
	{Key: "iodine", DisplayName: "Iodine", Unit: "mcg"},
	{Key: "magnesium", DisplayName: "Magnesium", Unit: "mg"},
	{Key: "zinc", DisplayName: "Zinc", Unit: "mg"},
	{Key: "selenium", DisplayName: "Selenium", Unit: "mcg"},
	{Key: "copper", DisplayName: "Copper", Unit: "mg"},
	{Key: "manganese", DisplayName: "Manganese", Unit: "mg"},
	{Key: "chromium", DisplayName: "Chromium", Unit: "mcg"},
	{Key: "molybdenum", DisplayName: "Molybdenum", Unit: "mcg"},
	{Key: "chloride", DisplayName: "Chloride", Unit: "mg"},
	// amino acids
	{Key: "tryptophan", DisplayName: "Tryptophan", Unit: "mg"},
	{Key: "threonine", DisplayName: "Threonine", Unit: "mg"},
	{Key: "isoleucine", DisplayName: "Isoleucine", Unit: "mg"},
	{Key: "leucine", DisplayName: "Leucine", Unit: "mg"},
	{Key: "lysine", DisplayName: "Lysine", Unit: "mg"},
	{Key: "methionine", DisplayName: "Methionine", Unit: "mg"},
	{Key: "cystine", DisplayName: "Cystine", Unit: "mg"},
	{Key: "phenylalanine", DisplayName: "Phenylalanine", Unit: "mg"},
	{Key: "tyrosine", DisplayName: "Tyrosine", Unit: "mg"},
	{Key: "valine", DisplayName: "Valine", Unit: "mg"},
	{Key: "arginine", DisplayName: "Arginine", Unit: "mg"},
	{Key: "histidine", DisplayName: "Histidine", Unit: "mg"},
	{Key: "alanine", DisplayName: "Alanine", Unit: "mg"},
	{Key: "aspartic_acid", DisplayName: "Aspartic Acid", Unit: "mg"},
	{Key: "glutamic_acid", DisplayName: "Glutamic Acid", Unit: "mg"},
	{Key: "glycine", DisplayName: "Glycine", Unit: "mg"},
	{Key: "proline", DisplayName: "Proline", Unit: "mg"},
	{Key: "serine", DisplayName: "Serine", Unit: "mg"},
}

var macronutrientKeys = map[string]bool{
	"calories": true, "protein": true, "total_fat": true, "saturated_fat": true, "trans_fat": true,
	"total_carbs": true, "dietary_fiber": true, "sugars": true, "added_sugars": true,
}

var vitaminKeys = map[string]bool{
	"thiamin": true, "riboflavin": true, "niacin": true, "folate": true, "biotin": true, "pantothenic_acid": true,
}

var mineralKeys = map[string]bool{
	"cholesterol": true, "sodium": true, "potassium": true, "calcium": true, "iron": true,
	"phosphorus": true, "iodine": true, "magnesium": true, "zinc": true, "selenium": true,
	"copper": true, "manganese": true, "chromium": true, "molybdenum": true, "chloride": true,
}

// usdaNames maps FoodData Central nutrient names to nutrient keys.
var usdaNames = map[string]string{
	"Energy":                             "calories",
	"Energy (Atwater General Factors)":   "calories",
	"Energy (Atwater Specific Factors)":  "calories_alt",
	"Protein":                            "protein",
	"Total lipid (fat)":                  "total_fat",
	"Fatty acids, total saturated":       "saturated_fat",
	"Fatty acids, total trans":           "trans_fat",
	"Carbohydrate, by difference":        "carbohydrates_alt",
	"Carbohydrate, by summation":         "carbohydrates",
	"Fiber, total dietary":               "dietary_fiber",
	"Sugars, total including NLEA":       "sugars",
	"Sugars, total":                      "sugars",
	"Sugars, added":                      "added_sugars",
	"Cholesterol":                        "cholesterol",
	"Sodium, Na":                         "sodium",
	"Potassium, K":                       "potassium",
	"Vitamin D (D2 + D3)":                "vitamin_d",
	"Calcium, Ca":                        "calcium",
	"Iron, Fe":                           "iron",
	"Vitamin A, RAE":                     "vitamin_a",
	"Vitamin C, total ascorbic acid":     "vitamin_c",
	"Fatty acids, total polyunsaturated": "polyunsaturated_fat",
	"Fatty acids, total monounsaturated": "monounsaturated_fat",
	"Fiber, soluble":                     "soluble_fiber",
	"Fiber, insoluble":                   "insoluble_fiber",
	"Sugar alcohol":                      "sugar_alcohols",
	"Vitamin E (alpha-tocopherol)":       "vitamin_e",
	"Vitamin K (phylloquinone)":          "vitamin_k",
	"Thiamin":                            "thiamin",
	"Riboflavin":                         "riboflavin",
	"Niacin":                             "niacin",
	"Vitamin B-6":                        "vitamin_b6",
	"Folate, total":                      "folate",
	"Vitamin B-12":                       "vitamin_b12",
	"Biotin":                             "biotin",
	"Pantothenic acid":                   "pantothenic_acid",
	"Phosphorus, P":                      "phosphorus",
	"Iodine, I":                          "iodine",
	"Magnesium, Mg":                      "magnesium",
	"Zinc, Zn":                           "zinc",
	"Selenium, Se":                       "selenium",
	"Copper, Cu":                         "copper",
	"Manganese, Mn":                      "manganese",
	"Chromium, Cr":                       "chromium",
	"Molybdenum, Mo":                     "molybdenum",
	"Chloride":                           "chloride",
	"Tryptophan":                         "tryptophan",
	"Threonine":                          "threonine",
	"Isoleucine":                         "isoleucine",
	"Leucine":                            "leucine",
	"Lysine":                             "lysine",
	"Methionine":                         "methionine",
	"Cystine":                            "cystine",
	"Phenylalanine":                      "phenylalanine",
	"Tyrosine":                           "tyrosine",
	"Valine":                             "valine",
	"Arginine":                           "arginine",
	"Histidine":                          "histidine",
	"Alanine":                            "alanine",
	"Aspartic acid":                      "aspartic_acid",
	"Glutamic acid":                      "glutamic_acid",
	"Glycine":                            "glycine",
	"Proline":                            "proline",
	"Serine":                             "serine",
}

// catalog is built once at init and only read afterwards.
var (
	catalog      []Definition
	catalogByKey map[string]Definition
)

func init() {
	catalog = make([]Definition, 0, len(commonNutrients)+len(nicheNutrients))
	catalogByKey = make(map[string]Definition, cap(catalog))
	add := func(d Definition, common bool) {
		d.Common = common
		d.Category = categoryOf(d.Key)
		catalog = append(catalog, d)
		catalogByKey[d.Key] = d
	}
	for _, d := range commonNutrients {
		add(d, true)
	}
	for _, d := range nicheNutrients {
		add(d, false)
	}
}

func categoryOf(key string) Category {
	switch {
	case macronutrientKeys[key]:
		return CategoryMacronutrients
	case strings.Contains(key, "vitamin") || vitaminKeys[key]:
		return CategoryVitamins
	case mineralKeys[key]:
		return CategoryMinerals
	default:
		return CategoryOther
	}
}

// Catalog returns every known nutrient, common ones first.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition of a nutrient key.
func Lookup(key string) (Definition, bool) {
	d, ok := catalogByKey[key]
	return d, ok
}

// DisplayName returns the label for a key, or the key itself when unknown.
func DisplayName(key string) string {
	if d, ok := catalogByKey[key]; ok {
		return d.DisplayName
	}
	return key
}

// ByCategory groups the catalog by display category.
func ByCategory() map[Category][]Definition {
	groups := make(map[Category][]Definition)
	for _, d := range catalog {
		groups[d.Category] = append(groups[d.Category], d)
	}
	return groups
}

// KeyForUSDAName maps a FoodData Central nutrient name to a nutrient key.
func KeyForUSDAName(name string) (string, bool) {
	key, ok := usdaNames[name]
	return key, ok
}
