package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/alimon-app/mise/internal/repository/postgres"
	"github.com/alimon-app/mise/internal/service"
	"github.com/alimon-app/mise/internal/usda"
)

var (
	usdaFoods    []string
	usdaOut      string
	usdaImport   bool
	usdaInterval time.Duration
)

var defaultFoods = []string{
	"apple", "banana", "chicken breast", "rice", "egg",
	"milk", "bread", "beef", "potato", "broccoli",
}

var usdaCmd = &cobra.Command{
	Use:   "usda",
	Short: "Work with USDA FoodData Central",
}

var usdaFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch foods from FoodData Central",
	Long: `Search FoodData Central for each food, fetch the details of the top
Foundation matches and write them as JSON.

Examples:
  mise usda fetch --out foods.json
  mise usda fetch --foods oats,lentils --import`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUSDAFetch(cmd.OutOrStdout())
	},
}

func init() {
	usdaFetchCmd.Flags().StringSliceVar(&usdaFoods, "foods", defaultFoods, "Foods to search for")
	usdaFetchCmd.Flags().StringVarP(&usdaOut, "out", "o", "usda_foods.json", `Output file, "-" for stdout, "" to skip`)
	usdaFetchCmd.Flags().BoolVar(&usdaImport, "import", false, "Insert the fetched foods as ingredients")
	usdaFetchCmd.Flags().DurationVar(&usdaInterval, "interval", 4*time.Second, "Minimum delay between API requests")

	usdaCmd.AddCommand(usdaFetchCmd)
	rootCmd.AddCommand(usdaCmd)
}

func runUSDAFetch(stdout io.Writer) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.RequireUSDAKey(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := usda.NewClient(cfg.USDAAPIKey, usda.WithRateLimit(rate.Every(usdaInterval)), usda.WithLogger(l))
	if err != nil {
		return err
	}
	results, err := client.FetchAll(ctx, usdaFoods)
	if err != nil {
		return fmt.Errorf("failed to fetch foods: %w", err)
	}

	if err := writeFoods(stdout, results); err != nil {
		return err
	}
	if !usdaImport {
		return nil
	}

	db, err := openDatabase(cfg, l)
	if err != nil {
		return err
	}
	defer db.Close()
	svc := service.New(postgres.NewStore(db.DB), l)
	return importFoods(ctx, svc, l, results)
}

func writeFoods(stdout io.Writer, results map[string][]usda.Food) error {
	if usdaOut == "" {
		return nil
	}
	w := stdout
	if usdaOut != "-" {
		f, err := os.Create(usdaOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", usdaOut, err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to write foods: %w", err)
	}
	return nil
}

// importFoods inserts every fetched food. A food that fails validation is
// logged and skipped.
func importFoods(ctx context.Context, svc *service.Service, l *logrus.Logger, results map[string][]usda.Food) error {
	queries := make([]string, 0, len(results))
	for q := range results {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	imported, skipped := 0, 0
	for _, q := range queries {
		for _, food := range results[q] {
			ing, err := svc.ImportIngredient(ctx, food.IngredientInput())
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				l.WithError(err).WithFields(logrus.Fields{"query": q, "fdc_id": food.FdcID}).Warn("Skipped food")
				skipped++
				continue
			}
			l.WithFields(logrus.Fields{"ingredient_id": ing.ID, "name": ing.Name}).Debug("Imported food")
			imported++
		}
	}
	l.Infof("Imported %d food(s), skipped %d", imported, skipped)
	return nil
}
