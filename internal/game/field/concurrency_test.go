package field

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenafield/internal/model"
	"github.com/udisondev/arenafield/internal/testutil"
)

type nopClass struct{ BaseClass }

// TestEngine_ConcurrentTriggers drives casts, ship changes, zone leaves,
// timers and class churn from separate goroutines. Run with -race.
func TestEngine_ConcurrentTriggers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrency test in short mode")
	}

	h := newHarness(t, merge(testutil.Fixtures.SingleFieldZone, map[string]map[string]string{
		"field-basic": {"class": "churn", "duration": "200"},
		"kill":        {"enterdelay": "20"},
	}))
	require.NoError(t, h.engine.RegisterClass("churn", nopClass{}))

	const (
		players = 8
		rounds  = 200
	)

	var ps []*model.Player
	index := make(map[int32]int, players)
	for i := range players {
		p := h.player(fmt.Sprintf("p%d", i), int32(i%2), caster())
		index[p.ID()] = i
		ps = append(ps, p)
	}

	var (
		playersWG sync.WaitGroup
		bgWG      sync.WaitGroup
		done      atomic.Bool
		leaving   [players]atomic.Bool
	)

	for i, p := range ps {
		playersWG.Add(1)
		go func() {
			defer playersWG.Done()
			for r := range rounds {
				_, _ = h.engine.CastRequest(p, "")
				switch r % 4 {
				case 1:
					h.world.SetShipFreq(p, model.Ship(r%int(model.ShipCount)), int32(i%2))
				case 2:
					h.world.Kill(ps[(i+1)%players], p)
				case 3:
					leaving[i].Store(true)
					if err := h.world.LeaveZone(p); err == nil {
						_ = h.world.EnterZone(p, testZone)
					}
					leaving[i].Store(false)
				}
			}
		}()
	}

	// Под z.mu: один экземпляр на кастера, кастер в зоне либо ещё выходит из неё.
	// OnPlayerLeave ждёт z.mu, поэтому LeaveZone не вернётся, пока идёт проверка.
	checkInstances := func(strict bool) {
		_ = h.engine.withZone(testZone, func(z *Zone) error {
			seen := make(map[int32]bool, len(z.instances))
			for _, inst := range z.instances {
				assert.False(t, seen[inst.casterID], "caster %d owns two instances", inst.casterID)
				seen[inst.casterID] = true

				idx, ok := index[inst.casterID]
				if !assert.True(t, ok, "instance %d has unknown caster %d", inst.id, inst.casterID) {
					continue
				}
				if ps[idx].Zone() == testZone {
					continue
				}
				assert.True(t, !strict && leaving[idx].Load(),
					"instance %d outlives caster %s outside the zone", inst.id, ps[idx].Name())
			}
			return nil
		})
	}

	bgWG.Add(3)
	go func() {
		defer bgWG.Done()
		for !done.Load() {
			checkInstances(false)
		}
	}()
	go func() {
		defer bgWG.Done()
		for r := 0; !done.Load(); r++ {
			if r%2 == 0 {
				_ = h.engine.UnregisterClass("churn")
			} else {
				_ = h.engine.RegisterClass("churn", nopClass{})
			}
		}
	}()
	go func() {
		defer bgWG.Done()
		for !done.Load() {
			h.clock.Advance(5)
			h.loop.RunDue()
		}
	}()

	playersWG.Wait()
	done.Store(true)
	bgWG.Wait()

	checkInstances(true)

	h.engine.Shutdown()
	assert.Equal(t, 0, h.loop.TimerCount())
	assert.Equal(t, 0, h.activeMarkers())
	assert.Equal(t, 0, h.fakes())
}
