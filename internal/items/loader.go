package items

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/arenafield/internal/model"
)

// DefaultLoadTimeout bounds one repository read on zone enter.
const DefaultLoadTimeout = 5 * time.Second

// Loader fills a Store from a Repository as players enter zones and drops
// their properties when they leave. Implements world.Listener.
type Loader struct {
	store   *Store
	repo    Repository
	timeout time.Duration
}

// NewLoader creates a Loader.
func NewLoader(store *Store, repo Repository) *Loader {
	return &Loader{store: store, repo: repo, timeout: DefaultLoadTimeout}
}

// OnPlayerEnter loads the entering player's properties.
func (l *Loader) OnPlayerEnter(p *model.Player, zone string) {
	if p.IsFake() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	if err := l.store.Load(ctx, l.repo, p); err != nil {
		// Игрок остаётся без свойств: касты будут отклонены как "нет лаунчера".
		slog.Warn("property load failed", "player", p.Name(), "zone", zone, "err", err)
	}
}

// OnPlayerLeave forgets the leaving player's properties.
func (l *Loader) OnPlayerLeave(p *model.Player, _ string) {
	l.store.Clear(p)
}

// OnShipFreqChange implements world.Listener.
func (l *Loader) OnShipFreqChange(*model.Player, model.Ship, model.Ship, int32, int32) {}

// OnKill implements world.Listener.
func (l *Loader) OnKill(string, *model.Player, *model.Player) {}
