// Package items keeps the item-granted properties of players in memory and
// dispatches item trigger events.
package items

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/arenafield/internal/model"
)

// Repository persists player properties.
type Repository interface {
	LoadProperties(ctx context.Context, playerName string) ([]model.ShipProperty, error)
	SaveProperty(ctx context.Context, playerName string, prop model.ShipProperty) error
	DeleteProperties(ctx context.Context, playerName string) error
}

// EventHandler reacts to an item trigger event fired for a player's ship.
type EventHandler func(p *model.Player, ship model.Ship, event string)

// Adviser adjusts a resolved ship value, e.g. to apply a temporary override.
// Called without the store lock held.
type Adviser interface {
	AdviseValue(p *model.Player, ship model.Ship, prop string, value int) int
}

// Store holds property sums per player.
//
// Thread-safe.
type Store struct {
	mu       sync.RWMutex
	props    map[int32][]model.ShipProperty
	handlers []EventHandler
	advisers []Adviser
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		props: make(map[int32][]model.ShipProperty, 64),
	}
}

// PropertySum returns the sum of every value of prop that applies to ship.
// Unknown players and properties sum to 0.
func (s *Store) PropertySum(p *model.Player, ship model.Ship, prop string) int {
	name := model.NormalizePropertyName(prop)

	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := 0
	for _, sp := range s.props[p.ID()] {
		if sp.Name == name && sp.AppliesTo(ship) {
			sum += int(sp.Value)
		}
	}
	return sum
}

// Value returns the property sum of prop for ship after every adviser has
// seen it, in registration order.
func (s *Store) Value(p *model.Player, ship model.Ship, prop string) int {
	v := s.PropertySum(p, ship, prop)

	s.mu.RLock()
	advisers := make([]Adviser, len(s.advisers))
	copy(advisers, s.advisers)
	s.mu.RUnlock()

	name := model.NormalizePropertyName(prop)
	for _, a := range advisers {
		v = a.AdviseValue(p, ship, name, v)
	}
	return v
}

// AddAdviser registers a value adviser.
func (s *Store) AddAdviser(a Adviser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advisers = append(s.advisers, a)
}

// RemoveAdviser unregisters a value adviser. Unknown advisers are ignored.
func (s *Store) RemoveAdviser(a Adviser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.advisers {
		if cur == a {
			s.advisers = append(s.advisers[:i], s.advisers[i+1:]...)
			return
		}
	}
}

// Set replaces every property of p.
func (s *Store) Set(p *model.Player, props []model.ShipProperty) {
	cp := make([]model.ShipProperty, 0, len(props))
	for _, sp := range props {
		sp.Name = model.NormalizePropertyName(sp.Name)
		if sp.Name == "" {
			continue
		}
		cp = append(cp, sp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.props[p.ID()] = cp
}

// Add appends one property to p.
func (s *Store) Add(p *model.Player, sp model.ShipProperty) {
	sp.Name = model.NormalizePropertyName(sp.Name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.props[p.ID()] = append(s.props[p.ID()], sp)
}

// Clear forgets every property of p.
func (s *Store) Clear(p *model.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.props, p.ID())
}

// Load replaces p's properties with the ones stored in repo.
func (s *Store) Load(ctx context.Context, repo Repository, p *model.Player) error {
	props, err := repo.LoadProperties(ctx, p.Name())
	if err != nil {
		return fmt.Errorf("loading properties for %s: %w", p.Name(), err)
	}
	s.Set(p, props)
	slog.Debug("player properties loaded", "player", p.Name(), "count", len(props))
	return nil
}

// OnEvent registers a handler for item trigger events.
func (s *Store) OnEvent(h EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// TriggerEvent fires event for p's ship. Blank events are ignored.
// Returns the number of handlers invoked.
func (s *Store) TriggerEvent(p *model.Player, ship model.Ship, event string) int {
	if event == "" {
		return 0
	}

	s.mu.RLock()
	handlers := make([]EventHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.RUnlock()

	for _, h := range handlers {
		h(p, ship, event)
	}
	return len(handlers)
}
