package models

// NutrientDefinition is the global canonical unit and label of a nutrient key
type NutrientDefinition struct {
	Key         string `json:"key" db:"key"`
	Unit        string `json:"unit" db:"unit"`
	DisplayName string `json:"display_name" db:"display_name"`
}
