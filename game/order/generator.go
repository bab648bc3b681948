package order

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/game/config"
)

// RecipeSource provides the recipe catalog to generate orders from.
type RecipeSource interface {
	Recipes() ([]catalog.Recipe, error)
}

// Generator produces randomized orders from the recipe catalog. A generated
// order may be a VIP order: better paid, on a shorter deadline.
type Generator struct {
	recipes RecipeSource
	cfg     *config.Config
	rng     *rand.Rand
	now     func() time.Time
}

// NewGenerator creates a Generator seeded from the current time.
func NewGenerator(recipes RecipeSource, cfg *config.Config) *Generator {
	return &Generator{
		recipes: recipes,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Generate picks a recipe uniformly at random and builds an order for it.
// It returns nil (and no error) when the catalog is empty: the caller should
// skip the tick, not fail.
func (g *Generator) Generate() (*Order, error) {
	all, err := g.recipes.Recipes()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	recipe := all[g.rng.Intn(len(all))]
	isVIP := g.rng.Float64() < g.cfg.VIPChance

	price := recipe.Price
	if price <= 0 {
		price = g.cfg.DefaultRecipePrice
	}

	timeout := g.cfg.OrderTimeout
	if isVIP {
		price *= g.cfg.VIPPriceMultiplier
		timeout = g.cfg.VIPOrderTimeout
	}

	now := g.now()
	return &Order{
		ID:                  uuid.NewString(),
		RecipeID:            recipe.ID,
		RecipeName:          recipe.Name,
		Difficulty:          recipe.Difficulty,
		Price:               price,
		RequiredIngredients: recipe.RequiredIngredients,
		IsVIP:               isVIP,
		CreatedAt:           now,
		ExpiresAt:           now.Add(timeout),
		TimeLimit:           timeout,
	}, nil
}
