package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimon-app/mise/internal/models"
	"github.com/alimon-app/mise/internal/repository"
	"github.com/alimon-app/mise/internal/repository/memory"
	"github.com/alimon-app/mise/pkg/logger"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(store, logger.Discard(), opts...), store
}

func ptr[T any](v T) *T { return &v }

func createAlmondMilk(t *testing.T, svc *Service, owner uuid.UUID) *models.Ingredient {
	t.Helper()
	ing, err := svc.CreateIngredient(context.Background(), owner, CreateIngredientInput{
		Name:                 "Almond Milk",
		ServingSize:          ptr(240.0),
		ServingUnit:          ptr("ml"),
		ServingsPerContainer: ptr(4.0),
		Nutrients: []NutrientInput{
			{Key: "calories", Amount: 30, Unit: "kcal"},
			{Key: "calcium", Amount: 450, Unit: "mg"},
		},
		Units: []models.UnitConversion{{UnitName: "cup", Amount: 240}},
	})
	require.NoError(t, err)
	return ing
}

func createOmelette(t *testing.T, svc *Service, owner uuid.UUID) *models.Recipe {
	t.Helper()
	egg, err := svc.CreateIngredient(context.Background(), owner, CreateIngredientInput{
		Name:        "Egg",
		ServingSize: ptr(50.0),
		ServingUnit: ptr("g"),
		Nutrients:   []NutrientInput{{Key: "protein", Amount: 5, Unit: "g"}},
		Units:       []models.UnitConversion{{UnitName: "egg", Amount: 50, IsDefault: true}},
	})
	require.NoError(t, err)

	recipe, err := svc.CreateRecipe(context.Background(), owner, CreateRecipeInput{
		Name:        "Omelette",
		Servings:    2,
		Ingredients: []RecipeComponentInput{{IngredientID: egg.ID, Quantity: 4, Unit: "egg"}},
	})
	require.NoError(t, err)
	return recipe
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	var verr *ValidationError
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
}

func TestEnsureTelegramUser_CreatesOnceAndRenames(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureTelegramUser(ctx, 1001, "ana", "Ana", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", first.DisplayName)

	again, err := svc.EnsureTelegramUser(ctx, 1001, "ana", "Ana", "Lima")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Ana Lima", again.DisplayName)
}

func TestEnsureUser_CreatesFromTokenSubject(t *testing.T) {
	svc, _ := newTestService(t)
	id := uuid.New()

	user, err := svc.EnsureUser(context.Background(), id, "")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	user, err = svc.EnsureUser(context.Background(), id, "Sam")
	require.NoError(t, err)
	assert.Equal(t, "Sam", user.DisplayName)
}

func TestLogFood_ScalesIngredientAndConsumesInventory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, svc, user)

	log, err := svc.LogFood(ctx, user, LogFoodInput{
		IngredientID:    &milk.ID,
		Quantity:        480,
		Unit:            "ml",
		UpdateInventory: true,
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, log.LoggedAt)
	require.Len(t, log.Nutrients, 2)
	assert.Equal(t, "calories", log.Nutrients[0].NutrientKey)
	assert.InDelta(t, 60.0, log.Nutrients[0].Amount, 1e-9)
	assert.InDelta(t, 900.0, log.Nutrients[1].Amount, 1e-9)

	stock, err := svc.ListInventory(ctx, user)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, -480.0, stock[0].Quantity)
	assert.Equal(t, "ml", stock[0].Unit)
	require.NotNil(t, stock[0].Ingredient)
	assert.Len(t, stock[0].Ingredient.Units, 1)
}

func TestLogFood_CustomUnitsAndContainers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, svc, user)

	cup, err := svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: 0.5, Unit: "cup"})
	require.NoError(t, err)
	assert.InDelta(t, 15.0, cup.Nutrients[0].Amount, 1e-9)

	carton, err := svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: 1, Unit: "containers"})
	require.NoError(t, err)
	assert.InDelta(t, 120.0, carton.Nutrients[0].Amount, 1e-9)
}

func TestLogFood_RecipeServings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	omelette := createOmelette(t, svc, user)

	log, err := svc.LogFood(ctx, user, LogFoodInput{RecipeID: &omelette.ID, Quantity: 1, Unit: "servings", UpdateInventory: true})
	require.NoError(t, err)
	require.Len(t, log.Nutrients, 1)
	assert.Equal(t, "protein", log.Nutrients[0].NutrientKey)
	assert.InDelta(t, 10.0, log.Nutrients[0].Amount, 1e-9)

	stock, err := svc.ListInventory(ctx, user)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, -1.0, stock[0].Quantity)
	assert.Equal(t, "servings", stock[0].Unit)
	assert.NotNil(t, stock[0].Recipe)
}

func TestLogFood_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, svc, user)
	omelette := createOmelette(t, svc, user)

	_, err := svc.LogFood(ctx, user, LogFoodInput{Quantity: 1, Unit: "ml"})
	requireValidation(t, err)

	_, err = svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, RecipeID: &omelette.ID, Quantity: 1, Unit: "ml"})
	requireValidation(t, err)

	_, err = svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: 0, Unit: "ml"})
	requireValidation(t, err)

	_, err = svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: 1, Unit: "bucket"})
	requireValidation(t, err)

	_, err = svc.LogFood(ctx, user, LogFoodInput{RecipeID: &omelette.ID, Quantity: 1, Unit: "grams"})
	requireValidation(t, err)

	_, err = svc.LogFood(ctx, user, LogFoodInput{IngredientID: ptr(int64(9999)), Quantity: 1, Unit: "ml"})
	assert.ErrorIs(t, err, ErrNotFound)

	logs, err := svc.ListFoodLogs(ctx, user, nil)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

type failingInventory struct {
	repository.InventoryRepository
}

func (failingInventory) ApplyDelta(context.Context, uuid.UUID, models.ItemRef, float64, string) (*models.InventoryItem, error) {
	return nil, errors.New("inventory unavailable")
}

// failingStore breaks inventory writes inside transactions only.
type failingStore struct {
	*memory.Store
}

func (s failingStore) InTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return s.Store.InTx(ctx, func(repos *repository.Repositories) error {
		broken := *repos
		broken.Inventory = failingInventory{repos.Inventory}
		return fn(&broken)
	})
}

func TestLogFood_RollsBackWhenInventoryFails(t *testing.T) {
	healthy, store := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, healthy, user)

	svc := New(failingStore{store}, logger.Discard())
	_, err := svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: 240, Unit: "ml", UpdateInventory: true})
	require.Error(t, err)

	logs, err := healthy.ListFoodLogs(ctx, user, nil)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestListFoodLogs_ByDayWithItems(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, svc, user)
	omelette := createOmelette(t, svc, user)

	yesterday := fixedNow.AddDate(0, 0, -1)
	_, err := svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: 240, Unit: "ml", LoggedAt: &yesterday})
	require.NoError(t, err)
	_, err = svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: 240, Unit: "ml"})
	require.NoError(t, err)
	_, err = svc.LogFood(ctx, user, LogFoodInput{RecipeID: &omelette.ID, Quantity: 2, Unit: "servings"})
	require.NoError(t, err)

	day, err := ParseDay("2026-03-14")
	require.NoError(t, err)
	logs, err := svc.ListFoodLogs(ctx, user, &day)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.True(t, (l.Ingredient != nil) != (l.Recipe != nil))
		assert.NotEmpty(t, l.Nutrients)
	}

	all, err := svc.ListFoodLogs(ctx, user, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = ParseDay("14/03/2026")
	requireValidation(t, err)
}

func TestRecentMeals_LastThree(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, svc, user)

	for i := 0; i < 5; i++ {
		at := fixedNow.Add(time.Duration(i) * time.Hour)
		_, err := svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: float64(i + 1), Unit: "ml", LoggedAt: &at})
		require.NoError(t, err)
	}

	meals, err := svc.RecentMeals(ctx, user)
	require.NoError(t, err)
	require.Len(t, meals, 3)
	assert.Equal(t, 5.0, meals[0].Quantity)
	assert.Equal(t, 3.0, meals[2].Quantity)
}

func TestAddInventory_NormalizesAndMerges(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, svc, user)

	_, err := svc.AddInventory(ctx, user, AddInventoryInput{IngredientID: &milk.ID, Quantity: 1, Unit: "containers"})
	require.NoError(t, err)
	row, err := svc.AddInventory(ctx, user, AddInventoryInput{IngredientID: &milk.ID, Quantity: 2, Unit: "cup"})
	require.NoError(t, err)
	assert.Equal(t, 1440.0, row.Quantity)
	assert.Equal(t, "ml", row.Unit)

	_, err = svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: 1, Unit: "cup", UpdateInventory: true})
	require.NoError(t, err)

	stock, err := svc.ListInventory(ctx, user)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, 1200.0, stock[0].Quantity)

	_, err = svc.AddInventory(ctx, user, AddInventoryInput{Quantity: 1, Unit: "ml"})
	requireValidation(t, err)
	_, err = svc.AddInventory(ctx, user, AddInventoryInput{IngredientID: &milk.ID, Quantity: -1, Unit: "ml"})
	requireValidation(t, err)
}

func TestGoals_Lifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()

	goal, err := svc.CreateGoal(ctx, user, "protein", 50)
	require.NoError(t, err)

	_, err = svc.CreateGoal(ctx, user, "protein", 60)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateGoal(ctx, user, "fiber", 0)
	requireValidation(t, err)
	_, err = svc.CreateGoal(ctx, user, " ", 10)
	requireValidation(t, err)

	_, err = svc.UpdateGoal(ctx, other, goal.ID, 70)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UpdateGoal(ctx, user, goal.ID, 70)
	require.NoError(t, err)
	assert.Equal(t, 70.0, updated.TargetAmount)

	require.NoError(t, svc.DeleteGoal(ctx, user, goal.ID))
	goals, err := svc.ListGoals(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestCreateIngredient_Units(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.CreateIngredient(ctx, user, CreateIngredientInput{
		Name: "Flour",
		Units: []models.UnitConversion{
			{UnitName: "cup", Amount: 120, IsDefault: true},
			{UnitName: "tbsp", Amount: 8, IsDefault: true},
		},
	})
	requireValidation(t, err)
	assert.Contains(t, err.Error(), "only one default unit allowed")

	flour, err := svc.CreateIngredient(ctx, user, CreateIngredientInput{
		Name:      "Flour",
		Nutrients: []NutrientInput{{Key: "carbohydrates", Amount: 95, Unit: "g"}},
		Units: []models.UnitConversion{
			{UnitName: "cup", Amount: 120},
			{UnitName: "tbsp", Amount: 8},
		},
	})
	require.NoError(t, err)
	assert.True(t, flour.Units[0].IsDefault)
	assert.False(t, flour.Units[1].IsDefault)

	log, err := svc.LogFood(ctx, user, LogFoodInput{IngredientID: &flour.ID, Quantity: 2, Unit: "tbsp"})
	require.NoError(t, err)
	assert.InDelta(t, 95.0*16/120, log.Nutrients[0].Amount, 1e-9)

	_, err = svc.CreateIngredient(ctx, user, CreateIngredientInput{Name: "Salt", ServingSize: ptr(1.0)})
	requireValidation(t, err)
}

func TestCreateIngredient_RecordsDefinitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.CreateIngredient(ctx, user, CreateIngredientInput{
		Name:        "Seaweed",
		ServingSize: ptr(5.0),
		ServingUnit: ptr("g"),
		Nutrients: []NutrientInput{
			{Key: "iodine", Amount: 200, Unit: "mcg", DisplayName: "Iodine (I)"},
			{Key: "calories", Amount: 10, Unit: "kcal"},
		},
	})
	require.NoError(t, err)

	names, err := svc.NutrientDisplayNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Iodine (I)", names["iodine"])
	assert.NotEmpty(t, names["calories"])

	all, err := svc.ListIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	for _, n := range all[0].Nutrients {
		assert.NotEmpty(t, n.DisplayName)
	}
}

func TestAddUnits_OwnershipAndDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	milk := createAlmondMilk(t, svc, owner)

	err := svc.AddUnits(ctx, other, milk.ID, []models.UnitConversion{{UnitName: "glass", Amount: 200}})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.AddUnits(ctx, owner, 9999, []models.UnitConversion{{UnitName: "glass", Amount: 200}})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.AddUnits(ctx, owner, milk.ID, []models.UnitConversion{{UnitName: "glass", Amount: 200, IsDefault: true}}))

	err = svc.AddUnits(ctx, owner, milk.ID, []models.UnitConversion{{UnitName: "mug", Amount: 300, IsDefault: true}})
	requireValidation(t, err)

	err = svc.AddUnits(ctx, owner, milk.ID, []models.UnitConversion{{UnitName: "cup", Amount: 250}})
	requireValidation(t, err)

	got, err := svc.GetIngredient(ctx, milk.ID)
	require.NoError(t, err)
	assert.Len(t, got.Units, 2)
}

func TestAddUnits_PromotesDefaultForUnsizedIngredient(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	oats, err := svc.CreateIngredient(ctx, user, CreateIngredientInput{
		Name:      "Rolled Oats",
		Nutrients: []NutrientInput{{Key: "calories", Amount: 300, Unit: "kcal"}},
	})
	require.NoError(t, err)
	require.Empty(t, oats.Units)

	require.NoError(t, svc.AddUnits(ctx, user, oats.ID, []models.UnitConversion{
		{UnitName: "cup", Amount: 80},
		{UnitName: "tbsp", Amount: 5},
	}))

	got, err := svc.GetIngredient(ctx, oats.ID)
	require.NoError(t, err)
	require.Len(t, got.Units, 2)
	assert.True(t, got.Units[0].IsDefault)
	assert.False(t, got.Units[1].IsDefault)

	log, err := svc.LogFood(ctx, user, LogFoodInput{IngredientID: &oats.ID, Quantity: 2, Unit: "cup"})
	require.NoError(t, err)
	require.Len(t, log.Nutrients, 1)
	assert.InDelta(t, 600.0, log.Nutrients[0].Amount, 1e-9)
}

func TestAddUnits_KeepsExistingDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, svc, user)

	require.NoError(t, svc.AddUnits(ctx, user, milk.ID, []models.UnitConversion{{UnitName: "glass", Amount: 200}}))

	got, err := svc.GetIngredient(ctx, milk.ID)
	require.NoError(t, err)
	for _, u := range got.Units {
		assert.False(t, u.IsDefault, "unit %s", u.UnitName)
	}
}

// racingStore reports a unit name taken by a concurrent writer.
type racingStore struct {
	*memory.Store
}

func (s racingStore) InTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return s.Store.InTx(ctx, func(repos *repository.Repositories) error {
		raced := *repos
		raced.Ingredients = takenUnits{repos.Ingredients}
		return fn(&raced)
	})
}

type takenUnits struct {
	repository.IngredientRepository
}

func (takenUnits) AddUnits(context.Context, int64, []models.UnitConversion) error {
	return repository.ErrDuplicateUnit
}

func TestAddUnits_ReportsDuplicateNameConflict(t *testing.T) {
	healthy, store := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, healthy, user)

	svc := New(racingStore{store}, logger.Discard())
	err := svc.AddUnits(ctx, user, milk.ID, []models.UnitConversion{{UnitName: "glass", Amount: 200}})
	requireValidation(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "already exists")
	assert.NotContains(t, err.Error(), "default")

	got, err := healthy.GetIngredient(ctx, milk.ID)
	require.NoError(t, err)
	assert.Len(t, got.Units, 1)
}

func TestCreateRecipe_DerivesTotals(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	omelette := createOmelette(t, svc, user)

	nutrients, err := svc.RecipeNutrients(ctx, omelette.ID)
	require.NoError(t, err)
	require.Len(t, nutrients, 1)
	assert.Equal(t, "protein", nutrients[0].NutrientKey)
	assert.InDelta(t, 20.0, nutrients[0].TotalAmount, 1e-9)
	assert.Equal(t, "g", nutrients[0].Unit)

	found, err := svc.SearchRecipes(ctx, "omel")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = svc.CreateRecipe(ctx, user, CreateRecipeInput{Name: "Air", Servings: 0, Ingredients: []RecipeComponentInput{{IngredientID: 1, Quantity: 1, Unit: "g"}}})
	requireValidation(t, err)

	_, err = svc.RecipeNutrients(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDailySummary_GoalsAndConsumption(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	omelette := createOmelette(t, svc, user)

	_, err := svc.CreateGoal(ctx, user, "protein", 10)
	require.NoError(t, err)
	_, err = svc.CreateGoal(ctx, user, "fiber", 30)
	require.NoError(t, err)
	_, err = svc.LogFood(ctx, user, LogFoodInput{RecipeID: &omelette.ID, Quantity: 1.3, Unit: "servings"})
	require.NoError(t, err)

	summary, err := svc.DailySummary(ctx, user, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", summary.Date)
	require.Len(t, summary.Nutrients, 2)

	fiber, protein := summary.Nutrients[0], summary.Nutrients[1]
	assert.Equal(t, "fiber", fiber.NutrientKey)
	assert.Zero(t, fiber.Consumed)
	require.NotNil(t, fiber.Percent)
	assert.Zero(t, *fiber.Percent)

	assert.Equal(t, "protein", protein.NutrientKey)
	assert.InDelta(t, 13.0, protein.Consumed, 1e-9)
	require.NotNil(t, protein.Percent)
	assert.InDelta(t, 130.0, *protein.Percent, 1e-9)
	assert.Equal(t, 100.0, *protein.DisplayPercent)
}

func TestDailySummary_WithoutGoals(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	milk := createAlmondMilk(t, svc, user)

	empty, err := svc.DailySummary(ctx, user, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, empty.Nutrients)

	_, err = svc.LogFood(ctx, user, LogFoodInput{IngredientID: &milk.ID, Quantity: 240, Unit: "ml"})
	require.NoError(t, err)

	summary, err := svc.DailySummary(ctx, user, fixedNow)
	require.NoError(t, err)
	require.Len(t, summary.Nutrients, 2)
	for _, line := range summary.Nutrients {
		assert.Nil(t, line.Target)
		assert.Nil(t, line.Percent)
	}
}

func TestContacts_AdminOnly(t *testing.T) {
	admin := uuid.New()
	svc, _ := newTestService(t, WithAdmin(&admin))
	ctx := context.Background()

	_, err := svc.SubmitContact(ctx, ContactInput{Name: "A", Email: "nope", Message: "hi"})
	requireValidation(t, err)
	_, err = svc.SubmitContact(ctx, ContactInput{Name: "A", Email: "a@example.com"})
	requireValidation(t, err)

	msg, err := svc.SubmitContact(ctx, ContactInput{Name: "A", Email: "a@example.com", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "general", msg.Category)

	_, err = svc.ListContacts(ctx, uuid.New(), "all")
	assert.ErrorIs(t, err, ErrForbidden)

	resolved, err := svc.ResolveContact(ctx, admin, msg.ID, true)
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, fixedNow, *resolved.ResolvedAt)

	open, err := svc.ListContacts(ctx, admin, "unresolved")
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = svc.ListContacts(ctx, admin, "archived")
	requireValidation(t, err)
}
