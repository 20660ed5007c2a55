package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	foodLogsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mise_food_logs_total",
		Help: "Food log entries created, by item kind.",
	}, []string{"kind"})

	inventoryAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mise_inventory_adjustments_total",
		Help: "Inventory deltas applied, by source.",
	}, []string{"source"})

	ingredientsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mise_ingredients_created_total",
		Help: "Ingredients created.",
	})

	recipesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mise_recipes_created_total",
		Help: "Recipes created.",
	})
)

func itemKind(isIngredient bool) string {
	if isIngredient {
		return "ingredient"
	}
	return "recipe"
}
