// Command admin manages the Petit Chef database: it runs migrations,
// seeds the ingredient and recipe catalog, and resets all tables.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/storage"
	"github.com/petitchef/petit-chef/telemetry"
)

func main() {
	telemetry.Init(telemetry.ParseLogLevel("info"))

	cmd := &cli.Command{
		Name:  "admin",
		Usage: "Petit Chef database administration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Value: "petitchef.db",
				Usage: "SQLite database path",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply schema migrations",
				Action: runMigrate,
			},
			{
				Name:   "seed",
				Usage:  "populate the ingredient and recipe catalog",
				Action: runSeed,
			},
			{
				Name:   "reset",
				Usage:  "drop all tables and re-apply migrations",
				Action: runReset,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}
}

func openStore(cmd *cli.Command) (*storage.Store, error) {
	return storage.Open(cmd.String("db"))
}

func runMigrate(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	telemetry.Infof("migrations applied")
	return nil
}

func runReset(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := storage.Reset(store.DB()); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := storage.Migrate(store.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	telemetry.Infof("database reset")
	return nil
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	now := time.Now().UTC()

	for _, ing := range seedIngredients {
		ing.ID = uuid.NewString()
		ing.Cost = 10
		ing.ShelfLife = 3 * time.Hour
		ing.CreatedAt = now
		if err := store.CreateIngredient(&ing); err != nil {
			return fmt.Errorf("seed ingredient %q: %w", ing.Name, err)
		}
	}
	telemetry.Infof("seeded %d ingredients", len(seedIngredients))

	for _, rec := range seedRecipes {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
		if err := store.CreateRecipe(&rec); err != nil {
			return fmt.Errorf("seed recipe %q: %w", rec.Name, err)
		}
	}
	telemetry.Infof("seeded %d recipes", len(seedRecipes))

	return nil
}

var seedIngredients = []catalog.Ingredient{
	{Name: "Tomate", Category: "legume", Description: "Tomate rouge fraiche"},
	{Name: "Basilic", Category: "epice", Description: "Basilic italien"},
	{Name: "Mozzarella", Category: "fromage", Description: "Mozzarella fraiche"},
	{Name: "Huile d'olive", Category: "sauce", Description: "Huile d'olive extra vierge"},
	{Name: "Poulet", Category: "viande", Description: "Blanc de poulet frais"},
	{Name: "Ail", Category: "legume", Description: "Gousses d'ail fraiches"},
	{Name: "Oignon", Category: "legume", Description: "Oignon jaune"},
	{Name: "Pates", Category: "autre", Description: "Pates italiennes"},
	{Name: "Sel", Category: "epice", Description: "Sel de mer"},
	{Name: "Poivre", Category: "epice", Description: "Poivre noir moulu"},
	{Name: "Beurre", Category: "autre", Description: "Beurre doux"},
	{Name: "Creme", Category: "sauce", Description: "Creme epaisse"},
	{Name: "Boeuf", Category: "viande", Description: "Boeuf hache"},
	{Name: "Farine", Category: "autre", Description: "Farine tout usage"},
	{Name: "Parmesan", Category: "fromage", Description: "Fromage parmesan"},
}

var seedRecipes = []catalog.Recipe{
	{
		Name: "Salade Caprese",
		RequiredIngredients: []catalog.RequiredIngredient{
			{Name: "Tomate", Quantity: 3},
			{Name: "Mozzarella", Quantity: 1},
			{Name: "Basilic", Quantity: 5},
			{Name: "Huile d'olive", Quantity: 2},
		},
		Description: "Une salade fraiche italienne classique",
		Difficulty:  "facile",
		Price:       35,
	},
	{
		Name: "Spaghetti Carbonara",
		RequiredIngredients: []catalog.RequiredIngredient{
			{Name: "Pates", Quantity: 400},
			{Name: "Creme", Quantity: 200},
			{Name: "Parmesan", Quantity: 100},
			{Name: "Sel", Quantity: 1},
			{Name: "Poivre", Quantity: 1},
		},
		Description: "Plat de pates cremeuses a la romaine",
		Difficulty:  "moyen",
		Price:       55,
	},
	{
		Name: "Poulet a l'ail",
		RequiredIngredients: []catalog.RequiredIngredient{
			{Name: "Poulet", Quantity: 1},
			{Name: "Ail", Quantity: 4},
			{Name: "Huile d'olive", Quantity: 3},
			{Name: "Sel", Quantity: 1},
			{Name: "Poivre", Quantity: 1},
		},
		Description: "Delicieux poulet roti a l'ail",
		Difficulty:  "facile",
		Price:       45,
	},
	{
		Name: "Burger au boeuf",
		RequiredIngredients: []catalog.RequiredIngredient{
			{Name: "Boeuf", Quantity: 200},
			{Name: "Oignon", Quantity: 1},
			{Name: "Sel", Quantity: 1},
			{Name: "Poivre", Quantity: 1},
		},
		Description: "Burger maison juteux",
		Difficulty:  "facile",
		Price:       40,
	},
	{
		Name: "Pates aux champignons a la creme",
		RequiredIngredients: []catalog.RequiredIngredient{
			{Name: "Pates", Quantity: 400},
			{Name: "Creme", Quantity: 200},
			{Name: "Beurre", Quantity: 50},
			{Name: "Ail", Quantity: 2},
		},
		Description: "Pates cremeuses au gout savoureux",
		Difficulty:  "moyen",
		Price:       50,
	},
}
