package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/nutrition"
)

// NutrientProgress is one line of a daily summary. Target and the percents
// are nil when the user has no goal for the nutrient.
type NutrientProgress struct {
	NutrientKey    string   `json:"nutrient_key"`
	DisplayName    string   `json:"display_name"`
	Consumed       float64  `json:"consumed"`
	Unit           string   `json:"unit"`
	Target         *float64 `json:"target"`
	Percent        *float64 `json:"percent"`
	DisplayPercent *float64 `json:"display_percent"`
}

// DailySummary is what a user ate on one day measured against their goals.
type DailySummary struct {
	Date      string             `json:"date"`
	Nutrients []NutrientProgress `json:"nutrients"`
}

// DailySummary totals the day's food logs and lines them up with the user's
// goals. Nutrients with a goal appear even when nothing was eaten.
func (s *Service) DailySummary(ctx context.Context, userID uuid.UUID, day time.Time) (*DailySummary, error) {
	logs, err := s.ListFoodLogs(ctx, userID, &day)
	if err != nil {
		return nil, err
	}
	goals, err := s.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	names, err := s.NutrientDisplayNames(ctx)
	if err != nil {
		return nil, err
	}

	totals := nutrition.AggregateLogs(logs)
	targets := make(map[string]float64, len(goals))
	keys := totals.Keys()
	for _, g := range goals {
		targets[g.NutrientKey] = g.TargetAmount
		if _, eaten := totals[g.NutrientKey]; !eaten {
			keys = append(keys, g.NutrientKey)
		}
	}
	sort.Strings(keys)

	summary := &DailySummary{Date: day.Format(time.DateOnly), Nutrients: make([]NutrientProgress, 0, len(keys))}
	for _, key := range keys {
		line := NutrientProgress{NutrientKey: key, DisplayName: displayName(names, key)}
		if t, ok := totals[key]; ok {
			line.Consumed, line.Unit = t.Amount, t.Unit
		} else if def, ok := nutrition.Lookup(key); ok {
			line.Unit = def.Unit
		}

		if target, ok := targets[key]; ok {
			line.Target = &target
			if p, err := nutrition.PercentOfGoal(line.Consumed, target); err == nil {
				percent, display := p.Percent, p.Display()
				line.Percent, line.DisplayPercent = &percent, &display
			}
		}
		summary.Nutrients = append(summary.Nutrients, line)
	}
	return summary, nil
}

// NutrientCatalog returns the static nutrient list grouped by category.
func (s *Service) NutrientCatalog() map[nutrition.Category][]nutrition.Definition {
	return nutrition.ByCategory()
}
