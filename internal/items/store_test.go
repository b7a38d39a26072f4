package items

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenafield/internal/model"
	"github.com/udisondev/arenafield/internal/testutil"
)

type memRepo struct {
	rows map[string][]model.ShipProperty
	err  error
}

func (m *memRepo) LoadProperties(_ context.Context, name string) ([]model.ShipProperty, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[name], nil
}

func (m *memRepo) SaveProperty(_ context.Context, name string, sp model.ShipProperty) error {
	if m.rows == nil {
		m.rows = make(map[string][]model.ShipProperty)
	}
	m.rows[name] = append(m.rows[name], sp)
	return nil
}

func (m *memRepo) DeleteProperties(_ context.Context, name string) error {
	delete(m.rows, name)
	return nil
}

func mustPlayer(t *testing.T, id int32, name string) *model.Player {
	t.Helper()
	p, err := model.NewPlayer(id, name)
	require.NoError(t, err)
	return p
}

func TestStore_PropertySum(t *testing.T) {
	s := NewStore()
	p := mustPlayer(t, 1, "alpha")

	s.Set(p, []model.ShipProperty{
		{Ship: model.AllShips, Name: "FieldLauncher", Value: 1},
		{Ship: model.ShipWarbird, Name: "field", Value: 1},
		{Ship: model.ShipWarbird, Name: "field", Value: 4},
		{Ship: model.ShipJavelin, Name: "field", Value: 2},
		{Ship: model.ShipWarbird, Name: "  ", Value: 9},
	})

	tests := []struct {
		name string
		ship model.Ship
		prop string
		want int
	}{
		{"all ships applies to warbird", model.ShipWarbird, "fieldlauncher", 1},
		{"all ships applies to shark", model.ShipShark, "FIELDLAUNCHER", 1},
		{"same ship values are summed", model.ShipWarbird, "field", 5},
		{"other ship is separate", model.ShipJavelin, "field", 2},
		{"missing property", model.ShipWarbird, "fielddelay", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.PropertySum(p, tt.ship, tt.prop))
		})
	}

	other := mustPlayer(t, 2, "beta")
	assert.Equal(t, 0, s.PropertySum(other, model.ShipWarbird, "field"))

	s.Clear(p)
	assert.Equal(t, 0, s.PropertySum(p, model.ShipWarbird, "field"))
}

func TestStore_Add(t *testing.T) {
	s := NewStore()
	p := mustPlayer(t, 1, "alpha")

	s.Add(p, model.ShipProperty{Ship: model.AllShips, Name: "Bounce", Value: 1})
	s.Add(p, model.ShipProperty{Ship: model.AllShips, Name: "bounce", Value: 1})
	assert.Equal(t, 2, s.PropertySum(p, model.ShipTerrier, "bounce"))
}

func TestStore_Load(t *testing.T) {
	s := NewStore()
	p := mustPlayer(t, 1, "alpha")
	repo := &memRepo{rows: map[string][]model.ShipProperty{
		"alpha": {{Ship: model.AllShips, Name: "fieldlauncher", Value: 1}},
	}}

	require.NoError(t, s.Load(context.Background(), repo, p))
	assert.Equal(t, 1, s.PropertySum(p, model.ShipWarbird, "fieldlauncher"))

	repo.err = testutil.ErrSimulated
	assert.Error(t, s.Load(context.Background(), repo, p))
	assert.Equal(t, 1, s.PropertySum(p, model.ShipWarbird, "fieldlauncher"), "failed load keeps old values")
}

func TestStore_TriggerEvent(t *testing.T) {
	s := NewStore()
	p := mustPlayer(t, 1, "alpha")

	var got []string
	s.OnEvent(func(_ *model.Player, ship model.Ship, event string) {
		got = append(got, ship.String()+":"+event)
	})

	assert.Equal(t, 0, s.TriggerEvent(p, model.ShipWarbird, ""))
	assert.Equal(t, 1, s.TriggerEvent(p, model.ShipWarbird, "fieldlaunch"))
	assert.Equal(t, []string{"Warbird:fieldlaunch"}, got)
}

func TestLoader_EnterLeave(t *testing.T) {
	s := NewStore()
	repo := testutil.NewMockPropertyRepository()
	ctx := testutil.ContextWithTimeout(t, time.Second)
	require.NoError(t, repo.SaveProperty(ctx, "Alpha", model.ShipProperty{Ship: model.AllShips, Name: "Field", Value: 3}))
	l := NewLoader(s, repo)
	p := mustPlayer(t, 1, "alpha")

	l.OnPlayerEnter(p, "pub")
	assert.Equal(t, 3, s.PropertySum(p, model.ShipSpider, "field"))

	l.OnPlayerLeave(p, "pub")
	assert.Equal(t, 0, s.PropertySum(p, model.ShipSpider, "field"))

	fake := model.NewFakePlayer(0x40000001, "alpha", model.ShipShark, 0)
	l.OnPlayerEnter(fake, "pub")
	assert.Equal(t, 0, s.PropertySum(fake, model.ShipShark, "field"), "stand-ins are not loaded")
}

type doubleAdviser struct{ prop string }

func (a doubleAdviser) AdviseValue(_ *model.Player, _ model.Ship, prop string, v int) int {
	if prop == a.prop {
		return v * 2
	}
	return v
}

func TestStore_ValueAppliesAdvisers(t *testing.T) {
	s := NewStore()
	p := mustPlayer(t, 1, "alpha")
	s.Set(p, []model.ShipProperty{
		{Ship: model.AllShips, Name: "speed", Value: 100},
		{Ship: model.AllShips, Name: "thrust", Value: 5},
	})

	a := doubleAdviser{prop: "speed"}
	s.AddAdviser(a)
	s.AddAdviser(a)

	assert.Equal(t, 400, s.Value(p, model.ShipWarbird, "Speed"))
	assert.Equal(t, 5, s.Value(p, model.ShipWarbird, "thrust"))
	assert.Equal(t, 100, s.PropertySum(p, model.ShipWarbird, "speed"), "sums stay raw")

	s.RemoveAdviser(a)
	assert.Equal(t, 200, s.Value(p, model.ShipWarbird, "speed"))
}
