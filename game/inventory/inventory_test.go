package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/game/config"
	"github.com/petitchef/petit-chef/game/ledger"
)

// fakeLotStore keeps lots in memory.
type fakeLotStore struct {
	lots map[string]*Lot
}

func newFakeLotStore() *fakeLotStore {
	return &fakeLotStore{lots: make(map[string]*Lot)}
}

func (f *fakeLotStore) LotsFor(playerID, ingredientID string) ([]Lot, error) {
	var out []Lot
	for _, lot := range f.lots {
		if lot.PlayerID == playerID && lot.IngredientID == ingredientID {
			out = append(out, *lot)
		}
	}
	return out, nil
}

func (f *fakeLotStore) AddLot(lot *Lot) error {
	cp := *lot
	f.lots[lot.ID] = &cp
	return nil
}

func (f *fakeLotStore) SetLotQuantity(id string, quantity int) error {
	lot, ok := f.lots[id]
	if !ok {
		return errors.New("lot not found")
	}
	lot.Quantity = quantity
	return nil
}

func (f *fakeLotStore) DeleteLot(id string) error {
	delete(f.lots, id)
	return nil
}

func (f *fakeLotStore) DeleteExpiredLots(now time.Time) (int, error) {
	count := 0
	for id, lot := range f.lots {
		if !lot.ExpiresAt.After(now) {
			delete(f.lots, id)
			count++
		}
	}
	return count, nil
}

// fakeCatalog resolves ingredients by id or name.
type fakeCatalog struct {
	ingredients []catalog.Ingredient
}

func (f *fakeCatalog) IngredientByID(id string) (*catalog.Ingredient, error) {
	for _, ing := range f.ingredients {
		if ing.ID == id {
			cp := ing
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) IngredientByName(name string) (*catalog.Ingredient, error) {
	for _, ing := range f.ingredients {
		if ing.Name == name {
			cp := ing
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

// fakePlayerStore backs the player ledger.
type fakePlayerStore struct {
	players map[string]*ledger.Player
}

func (f *fakePlayerStore) PlayerByID(id string) (*ledger.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, ledger.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlayerStore) SavePlayer(p *ledger.Player) error {
	cp := *p
	f.players[p.ID] = &cp
	return nil
}

func (f *fakePlayerStore) AppendTransaction(tx *ledger.Transaction) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		DefaultShelfLife: 3 * time.Hour,
	}
}

type fixture struct {
	stock   *Ledger
	lots    *fakeLotStore
	players *fakePlayerStore
	now     time.Time
}

func newFixture(t *testing.T, treasury int) *fixture {
	t.Helper()

	cat := &fakeCatalog{ingredients: []catalog.Ingredient{
		{ID: "i-tomate", Name: "Tomate", Cost: 10, ShelfLife: 3 * time.Hour},
		{ID: "i-basilic", Name: "Basilic", Cost: 10, ShelfLife: 3 * time.Hour},
		{ID: "i-gratuit", Name: "Gratuit", Cost: 0, ShelfLife: 0},
	}}
	lots := newFakeLotStore()
	players := &fakePlayerStore{players: map[string]*ledger.Player{
		"p1": {ID: "p1", Treasury: treasury, Satisfaction: 20, Stars: 3},
	}}

	cfg := testConfig()
	stock := New(lots, cat, ledger.New(players, cfg), cfg)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stock.now = func() time.Time { return now }

	return &fixture{stock: stock, lots: lots, players: players, now: now}
}

func (fx *fixture) addLot(id, ingredientID string, quantity int, purchasedAgo time.Duration, expiresIn time.Duration) {
	fx.lots.lots[id] = &Lot{
		ID:           id,
		PlayerID:     "p1",
		IngredientID: ingredientID,
		Quantity:     quantity,
		PurchasedAt:  fx.now.Add(-purchasedAgo),
		ExpiresAt:    fx.now.Add(expiresIn),
	}
}

func TestLedger_CheckAvailability(t *testing.T) {
	t.Run("sufficient stock returns a plan", func(t *testing.T) {
		fx := newFixture(t, 500)
		fx.addLot("l1", "i-tomate", 5, time.Hour, time.Hour)

		result, err := fx.stock.CheckAvailability("p1", []catalog.RequiredIngredient{
			{Name: "Tomate", Quantity: 3},
		})
		if err != nil {
			t.Fatalf("CheckAvailability failed: %v", err)
		}
		if !result.OK {
			t.Fatalf("Expected OK, got shortages: %v", result.Shortages)
		}
		if len(result.Plan) != 1 || result.Plan[0].IngredientID != "i-tomate" || result.Plan[0].Quantity != 3 {
			t.Errorf("Unexpected plan: %v", result.Plan)
		}
	})

	t.Run("expired lots do not count", func(t *testing.T) {
		fx := newFixture(t, 500)
		fx.addLot("l1", "i-tomate", 5, 4*time.Hour, -time.Minute)
		fx.addLot("l2", "i-tomate", 2, time.Hour, time.Hour)

		result, err := fx.stock.CheckAvailability("p1", []catalog.RequiredIngredient{
			{Name: "Tomate", Quantity: 3},
		})
		if err != nil {
			t.Fatalf("CheckAvailability failed: %v", err)
		}
		if result.OK {
			t.Fatal("Expected shortage when only expired stock covers the need")
		}
		if len(result.Shortages) != 1 {
			t.Fatalf("Expected 1 shortage, got %v", result.Shortages)
		}
		s := result.Shortages[0]
		if s.Name != "Tomate" || s.Needed != 3 || s.Available != 2 {
			t.Errorf("Unexpected shortage: %+v", s)
		}
	})

	t.Run("unknown ingredient counts as zero available", func(t *testing.T) {
		fx := newFixture(t, 500)

		result, err := fx.stock.CheckAvailability("p1", []catalog.RequiredIngredient{
			{Name: "Truffe", Quantity: 1},
		})
		if err != nil {
			t.Fatalf("CheckAvailability failed: %v", err)
		}
		if result.OK {
			t.Fatal("Expected shortage for unknown ingredient")
		}
		if result.Shortages[0].Available != 0 {
			t.Errorf("Expected 0 available, got %d", result.Shortages[0].Available)
		}
	})
}

func TestLedger_Consume_FIFO(t *testing.T) {
	t.Run("oldest lot drains first", func(t *testing.T) {
		fx := newFixture(t, 500)
		fx.addLot("old", "i-tomate", 2, 2*time.Hour, time.Hour)
		fx.addLot("new", "i-tomate", 5, time.Hour, 2*time.Hour)

		err := fx.stock.Consume("p1", []Reservation{{IngredientID: "i-tomate", Quantity: 3}})
		if err != nil {
			t.Fatalf("Consume failed: %v", err)
		}

		if _, ok := fx.lots.lots["old"]; ok {
			t.Error("Expected fully drained old lot to be deleted")
		}
		newLot, ok := fx.lots.lots["new"]
		if !ok {
			t.Fatal("Expected newer lot to remain")
		}
		if newLot.Quantity != 4 {
			t.Errorf("Expected newer lot reduced to 4, got %d", newLot.Quantity)
		}
	})

	t.Run("exact drain deletes the lot", func(t *testing.T) {
		fx := newFixture(t, 500)
		fx.addLot("l1", "i-tomate", 3, time.Hour, time.Hour)

		err := fx.stock.Consume("p1", []Reservation{{IngredientID: "i-tomate", Quantity: 3}})
		if err != nil {
			t.Fatalf("Consume failed: %v", err)
		}
		if len(fx.lots.lots) != 0 {
			t.Errorf("Expected no lots remaining, got %d", len(fx.lots.lots))
		}
	})

	t.Run("expired lots are skipped", func(t *testing.T) {
		fx := newFixture(t, 500)
		fx.addLot("expired", "i-tomate", 10, 4*time.Hour, -time.Minute)
		fx.addLot("fresh", "i-tomate", 5, time.Hour, time.Hour)

		err := fx.stock.Consume("p1", []Reservation{{IngredientID: "i-tomate", Quantity: 2}})
		if err != nil {
			t.Fatalf("Consume failed: %v", err)
		}

		if fx.lots.lots["expired"].Quantity != 10 {
			t.Errorf("Expected expired lot untouched, got quantity %d", fx.lots.lots["expired"].Quantity)
		}
		if fx.lots.lots["fresh"].Quantity != 3 {
			t.Errorf("Expected fresh lot reduced to 3, got %d", fx.lots.lots["fresh"].Quantity)
		}
	})
}

func TestLedger_Purchase(t *testing.T) {
	t.Run("successful purchase debits and adds a lot", func(t *testing.T) {
		fx := newFixture(t, 500)

		result, err := fx.stock.Purchase("p1", "i-tomate", 10)
		if err != nil {
			t.Fatalf("Purchase failed: %v", err)
		}
		if result.Treasury != 400 {
			t.Errorf("Expected treasury 400, got %d", result.Treasury)
		}
		if result.NewQuantity != 10 {
			t.Errorf("Expected quantity 10, got %d", result.NewQuantity)
		}

		if len(fx.lots.lots) != 1 {
			t.Fatalf("Expected 1 lot, got %d", len(fx.lots.lots))
		}
		for _, lot := range fx.lots.lots {
			if !lot.ExpiresAt.Equal(fx.now.Add(3 * time.Hour)) {
				t.Errorf("Expected expiry at purchase+3h, got %s", lot.ExpiresAt)
			}
		}
	})

	t.Run("zero-cost ingredient falls back to default cost and shelf life", func(t *testing.T) {
		fx := newFixture(t, 500)

		result, err := fx.stock.Purchase("p1", "i-gratuit", 2)
		if err != nil {
			t.Fatalf("Purchase failed: %v", err)
		}
		if result.Treasury != 480 {
			t.Errorf("Expected treasury 480 after 2x10G fallback cost, got %d", result.Treasury)
		}
		for _, lot := range fx.lots.lots {
			if !lot.ExpiresAt.Equal(fx.now.Add(3 * time.Hour)) {
				t.Errorf("Expected fallback shelf life of 3h, got expiry %s", lot.ExpiresAt)
			}
		}
	})

	t.Run("invalid quantity", func(t *testing.T) {
		fx := newFixture(t, 500)
		if _, err := fx.stock.Purchase("p1", "i-tomate", 0); err != ErrInvalidQuantity {
			t.Errorf("Expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		fx := newFixture(t, 500)
		if _, err := fx.stock.Purchase("p1", "i-truffe", 1); err != ErrIngredientNotFound {
			t.Errorf("Expected ErrIngredientNotFound, got %v", err)
		}
	})

	t.Run("insufficient funds leave state untouched", func(t *testing.T) {
		fx := newFixture(t, 50)

		_, err := fx.stock.Purchase("p1", "i-tomate", 10)
		var insufficient *InsufficientFundsError
		if !errors.As(err, &insufficient) {
			t.Fatalf("Expected InsufficientFundsError, got %v", err)
		}
		if insufficient.Treasury != 50 || insufficient.Cost != 100 {
			t.Errorf("Unexpected error detail: %+v", insufficient)
		}

		p, _ := fx.players.PlayerByID("p1")
		if p.Treasury != 50 {
			t.Errorf("Expected treasury untouched at 50, got %d", p.Treasury)
		}
		if len(fx.lots.lots) != 0 {
			t.Errorf("Expected no lots, got %d", len(fx.lots.lots))
		}
	})
}

func TestLedger_SweepExpired(t *testing.T) {
	fx := newFixture(t, 500)
	fx.addLot("expired1", "i-tomate", 5, 4*time.Hour, -time.Hour)
	fx.addLot("expired2", "i-basilic", 2, 4*time.Hour, -time.Minute)
	fx.addLot("fresh", "i-tomate", 3, time.Hour, time.Hour)

	count, err := fx.stock.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 lots swept, got %d", count)
	}
	if _, ok := fx.lots.lots["fresh"]; !ok {
		t.Error("Expected fresh lot to survive the sweep")
	}

	count, err = fx.stock.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected nothing left to sweep, got %d", count)
	}
}

func TestFormatShortage(t *testing.T) {
	msg := FormatShortage([]Shortage{
		{Name: "Tomate", Needed: 3, Available: 1},
		{Name: "Basilic", Needed: 5, Available: 0},
	})
	want := "Insufficient stock: Tomate (1/3), Basilic (0/5). Buy ingredients at the Market!"
	if msg != want {
		t.Errorf("Expected %q, got %q", want, msg)
	}
}
