package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petitchef/petit-chef/game/catalog"
	"github.com/petitchef/petit-chef/game/config"
	"github.com/petitchef/petit-chef/game/inventory"
	"github.com/petitchef/petit-chef/game/ledger"
	"github.com/petitchef/petit-chef/game/order"
	"github.com/petitchef/petit-chef/game/session"
	"github.com/petitchef/petit-chef/telemetry"
)

// gameServiceImpl implements the GameService interface.
type gameServiceImpl struct {
	registry  *session.Registry
	players   *ledger.Ledger
	stock     *inventory.Ledger
	discovery DiscoveryStore
	recipes   RecipeStore
	cfg       *config.Config
	now       func() time.Time
}

// NewGameService creates the resolution engine and wires itself as the
// registry's expiry handler.
func NewGameService(registry *session.Registry, players *ledger.Ledger, stock *inventory.Ledger,
	discovery DiscoveryStore, recipes RecipeStore, cfg *config.Config) GameService {

	s := &gameServiceImpl{
		registry:  registry,
		players:   players,
		stock:     stock,
		discovery: discovery,
		recipes:   recipes,
		cfg:       cfg,
		now:       time.Now,
	}
	registry.SetExpireHandler(s.handleOrderExpired)
	return s
}

// StartService resets satisfaction, persists the active flag and starts a
// fresh session. Any prior session is torn down first.
func (s *gameServiceImpl) StartService(ctx context.Context, playerID string, sink session.EventSink) {
	p, err := s.players.ActivateService(playerID)
	if err != nil {
		telemetry.Errorf("service: start for %s: %v", playerID, err)
		sink.Push(EventServiceError, ErrorPayload{Message: "Failed to start service"})
		return
	}

	sink.Push(EventServiceStarted, StatePayload{
		Satisfaction: p.Satisfaction,
		Treasury:     p.Treasury,
		Stars:        p.Stars,
	})
	s.registry.Start(playerID, sink)
}

// StopService clears the active flag and tears down the session.
func (s *gameServiceImpl) StopService(ctx context.Context, playerID string, sink session.EventSink) {
	if err := s.players.DeactivateService(playerID); err != nil {
		telemetry.Errorf("service: stop for %s: %v", playerID, err)
	}
	s.registry.Stop(playerID)
	sink.Push(EventServiceStopped, struct{}{})
}

// Disconnect drops the in-memory session only. The persisted active flag is
// left as-is so a reconnecting client sees its service as still open and can
// explicitly restart it.
func (s *gameServiceImpl) Disconnect(playerID string) {
	s.registry.Stop(playerID)
}

// ServeOrder attempts the serve transition. Precondition order is fixed:
// order exists, deadline not passed, recipe discovered, stock sufficient.
// Failures on the discovery or stock gates leave the order open for another
// try before it expires.
func (s *gameServiceImpl) ServeOrder(ctx context.Context, playerID, orderID, recipeID string, sink session.EventSink) {
	sess, ok := s.registry.Get(playerID)
	if !ok {
		sink.Push(EventServeResult, ServeResultPayload{
			Success: false, OrderID: orderID,
			Message: "Service is not active",
		})
		return
	}

	o, ok := sess.Lookup(orderID)
	if !ok {
		sink.Push(EventServeResult, ServeResultPayload{
			Success: false, OrderID: orderID,
			Message: "This order has already expired or does not exist",
		})
		return
	}

	// Lazy expiry: the timer may not have fired yet.
	if s.now().After(o.ExpiresAt) {
		s.serveTooLate(playerID, orderID, sess, sink)
		return
	}

	discovered, err := s.discovery.IsDiscovered(playerID, o.RecipeID)
	if err != nil {
		telemetry.Errorf("service: discovery check for %s: %v", playerID, err)
		sink.Push(EventServiceError, ErrorPayload{Message: "Server error while serving the order"})
		return
	}
	if !discovered {
		sink.Push(EventServeResult, ServeResultPayload{
			Success: false, OrderID: orderID,
			Message: "You haven't discovered this recipe yet! Visit the Laboratory.",
		})
		return
	}

	recipe, err := s.recipes.RecipeByID(o.RecipeID)
	if errors.Is(err, catalog.ErrNotFound) {
		sink.Push(EventServeResult, ServeResultPayload{
			Success: false, OrderID: orderID,
			Message: "Recipe not found",
		})
		return
	}
	if err != nil {
		telemetry.Errorf("service: recipe lookup for %s: %v", playerID, err)
		sink.Push(EventServiceError, ErrorPayload{Message: "Server error while serving the order"})
		return
	}

	check, err := s.stock.CheckAvailability(playerID, recipe.RequiredIngredients)
	if err != nil {
		telemetry.Errorf("service: stock check for %s: %v", playerID, err)
		sink.Push(EventServiceError, ErrorPayload{Message: "Server error while serving the order"})
		return
	}
	if !check.OK {
		sink.Push(EventServeResult, ServeResultPayload{
			Success: false, OrderID: orderID,
			Message: inventory.FormatShortage(check.Shortages),
		})
		return
	}

	// Commit point: claim the order before touching any ledger. Losing the
	// claim means the expiry timer (or a concurrent serve) settled it first.
	claimed, ok := sess.Claim(orderID)
	if !ok {
		sink.Push(EventServeResult, ServeResultPayload{
			Success: false, OrderID: orderID,
			Message: "This order has already been resolved",
		})
		return
	}

	if err := s.stock.Consume(playerID, check.Plan); err != nil {
		telemetry.Errorf("service: consume for %s: %v", playerID, err)
		sink.Push(EventServiceError, ErrorPayload{Message: "Server error while serving the order"})
		return
	}

	revenue := claimed.Price
	if revenue <= 0 {
		revenue = s.cfg.DefaultRecipePrice
	}

	var p *ledger.Player
	if claimed.IsVIP {
		p, err = s.players.RecordVIPSale(playerID, claimed.RecipeName, claimed.RecipeID, revenue)
	} else {
		p, err = s.players.RecordSale(playerID, claimed.RecipeName, claimed.RecipeID, revenue)
	}
	if err != nil {
		telemetry.Errorf("service: record sale for %s: %v", playerID, err)
		sink.Push(EventServiceError, ErrorPayload{Message: "Server error while serving the order"})
		return
	}

	msg := fmt.Sprintf("Order served: %s! (+%d satisfaction, +%dG)",
		claimed.RecipeName, s.cfg.SatisfactionReward, revenue)
	if claimed.IsVIP {
		msg = fmt.Sprintf("VIP order served: %s! (+%d satisfaction, +%dG)",
			claimed.RecipeName, s.cfg.VIPSatisfactionReward, revenue)
	}

	sink.Push(EventServeResult, ServeResultPayload{
		Success:      true,
		OrderID:      orderID,
		IsVIP:        claimed.IsVIP,
		RecipeName:   claimed.RecipeName,
		Satisfaction: intp(p.Satisfaction),
		Treasury:     intp(p.Treasury),
		Stars:        intp(p.Stars),
		Revenue:      revenue,
		Message:      msg,
	})
	telemetry.Infof("order: served by %s: %s (vip=%t, satisfaction=%d, treasury=%d, stars=%d)",
		playerID, claimed.RecipeName, claimed.IsVIP, p.Satisfaction, p.Treasury, p.Stars)
}

// serveTooLate settles a serve attempt that arrived past the deadline by
// running the expiry penalty and reporting it through the serve result.
func (s *gameServiceImpl) serveTooLate(playerID, orderID string, sess *session.Session, sink session.EventSink) {
	claimed, ok := sess.Claim(orderID)
	if !ok {
		sink.Push(EventServeResult, ServeResultPayload{
			Success: false, OrderID: orderID,
			Message: "This order has already been resolved",
		})
		return
	}

	p, err := s.applyExpiryPenalty(playerID, claimed)
	if err != nil {
		telemetry.Errorf("service: late-serve penalty for %s: %v", playerID, err)
		sink.Push(EventServiceError, ErrorPayload{Message: "Server error while serving the order"})
		return
	}

	msg := fmt.Sprintf("Too late! Order expired. (-%d satisfaction, -%dG)",
		s.cfg.PenaltySatisfaction, s.cfg.PenaltyGold)
	if claimed.IsVIP {
		msg = fmt.Sprintf("Too late! VIP order expired. (-%d satisfaction, -%dG, -1 star)",
			s.cfg.VIPPenaltySatisfaction, s.cfg.VIPPenaltyGold)
	}

	sink.Push(EventServeResult, ServeResultPayload{
		Success:      false,
		OrderID:      orderID,
		IsVIP:        claimed.IsVIP,
		RecipeName:   claimed.RecipeName,
		Satisfaction: intp(p.Satisfaction),
		Treasury:     intp(p.Treasury),
		Stars:        intp(p.Stars),
		Message:      msg,
	})

	s.checkGameOver(playerID, p, sink)
}

// RejectOrder settles an explicit decline. Penalties match the expiry path;
// only the emitted event differs.
func (s *gameServiceImpl) RejectOrder(ctx context.Context, playerID, orderID string, sink session.EventSink) {
	sess, ok := s.registry.Get(playerID)
	if !ok {
		return
	}

	claimed, ok := sess.Claim(orderID)
	if !ok {
		return
	}

	p, err := s.applyRejectPenalty(playerID, claimed)
	if err != nil {
		telemetry.Errorf("service: reject penalty for %s: %v", playerID, err)
		sink.Push(EventServiceError, ErrorPayload{Message: "Server error while rejecting the order"})
		return
	}

	msg := fmt.Sprintf("Order rejected: %s! (-%d satisfaction, -%dG)",
		claimed.RecipeName, s.cfg.PenaltySatisfaction, s.cfg.PenaltyGold)
	if claimed.IsVIP {
		msg = fmt.Sprintf("VIP order rejected: %s! (-%d satisfaction, -%dG, -1 star)",
			claimed.RecipeName, s.cfg.VIPPenaltySatisfaction, s.cfg.VIPPenaltyGold)
	}

	sink.Push(EventOrderRejected, OrderClosedPayload{
		OrderID:      orderID,
		RecipeName:   claimed.RecipeName,
		IsVIP:        claimed.IsVIP,
		Satisfaction: p.Satisfaction,
		Treasury:     p.Treasury,
		Stars:        p.Stars,
		Message:      msg,
	})

	s.checkGameOver(playerID, p, sink)
}

// handleOrderExpired runs when an order's expiry timer wins the claim. The
// order is already out of the session.
func (s *gameServiceImpl) handleOrderExpired(playerID string, o *order.Order, sink session.EventSink) {
	p, err := s.applyExpiryPenalty(playerID, o)
	if err != nil {
		telemetry.Errorf("service: expiry penalty for %s: %v", playerID, err)
		return
	}
	if !p.IsServiceActive {
		return
	}

	msg := fmt.Sprintf("Order expired: %s! (-%d satisfaction, -%dG)",
		o.RecipeName, s.cfg.PenaltySatisfaction, s.cfg.PenaltyGold)
	if o.IsVIP {
		msg = fmt.Sprintf("VIP order expired: %s! (-%d satisfaction, -%dG, -1 star)",
			o.RecipeName, s.cfg.VIPPenaltySatisfaction, s.cfg.VIPPenaltyGold)
	}

	sink.Push(EventOrderExpired, OrderClosedPayload{
		OrderID:      o.ID,
		RecipeName:   o.RecipeName,
		IsVIP:        o.IsVIP,
		Satisfaction: p.Satisfaction,
		Treasury:     p.Treasury,
		Stars:        p.Stars,
		Message:      msg,
	})

	s.checkGameOver(playerID, p, sink)
}

func (s *gameServiceImpl) applyExpiryPenalty(playerID string, o *order.Order) (*ledger.Player, error) {
	if o.IsVIP {
		return s.players.ApplyVIPPenalty(playerID, fmt.Sprintf("VIP penalty: order expired (%s)", o.RecipeName))
	}
	return s.players.ApplyPenalty(playerID, fmt.Sprintf("Penalty: order expired (%s)", o.RecipeName))
}

func (s *gameServiceImpl) applyRejectPenalty(playerID string, o *order.Order) (*ledger.Player, error) {
	if o.IsVIP {
		return s.players.ApplyVIPPenalty(playerID, fmt.Sprintf("VIP penalty: order rejected (%s)", o.RecipeName))
	}
	return s.players.ApplyPenalty(playerID, fmt.Sprintf("Penalty: order rejected (%s)", o.RecipeName))
}

// checkGameOver evaluates the losing thresholds after a penalty and, when
// crossed, emits the game-over event, force-stops the session and persists
// the inactive flag.
func (s *gameServiceImpl) checkGameOver(playerID string, p *ledger.Player, sink session.EventSink) {
	if !ledger.IsGameOver(p) {
		return
	}

	sink.Push(EventGameOver, GameOverPayload{
		Satisfaction: p.Satisfaction,
		Treasury:     p.Treasury,
		Stars:        p.Stars,
		Message:      ledger.GameOverMessage(p),
	})

	s.registry.Stop(playerID)
	if err := s.players.DeactivateService(playerID); err != nil {
		telemetry.Errorf("service: deactivate after game over for %s: %v", playerID, err)
	}
	telemetry.Infof("service: game over for %s (satisfaction=%d, treasury=%d, stars=%d)",
		playerID, p.Satisfaction, p.Treasury, p.Stars)
}

func intp(v int) *int { return &v }
