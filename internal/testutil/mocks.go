package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/udisondev/arenafield/internal/model"
)

// MockPropertyRepository: in-memory имплементация PropertyRepository для unit тестов.
// Не требует реальной базы.
type MockPropertyRepository struct {
	mu    sync.RWMutex
	props map[string][]model.ShipProperty
	casts map[string]int
}

// NewMockPropertyRepository создаёт новый MockPropertyRepository.
func NewMockPropertyRepository() *MockPropertyRepository {
	return &MockPropertyRepository{
		props: make(map[string][]model.ShipProperty),
		casts: make(map[string]int),
	}
}

// LoadProperties возвращает копию свойств игрока.
func (m *MockPropertyRepository) LoadProperties(_ context.Context, playerName string) ([]model.ShipProperty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.props[strings.ToLower(playerName)]
	out := make([]model.ShipProperty, len(src))
	copy(out, src)
	return out, nil
}

// SaveProperty заменяет или добавляет свойство.
func (m *MockPropertyRepository) SaveProperty(_ context.Context, playerName string, prop model.ShipProperty) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(playerName)
	prop.Name = model.NormalizePropertyName(prop.Name)
	for i, sp := range m.props[key] {
		if sp.Ship == prop.Ship && sp.Name == prop.Name {
			m.props[key][i].Value = prop.Value
			return nil
		}
	}
	m.props[key] = append(m.props[key], prop)
	return nil
}

// DeleteProperties удаляет все свойства игрока.
func (m *MockPropertyRepository) DeleteProperties(_ context.Context, playerName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.props, strings.ToLower(playerName))
	return nil
}

// RecordCast увеличивает счётчик запусков.
func (m *MockPropertyRepository) RecordCast(_ context.Context, playerName, zone, fieldType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.casts[castKey(playerName, zone, fieldType)]++
	return nil
}

// CastCount возвращает счётчик запусков.
func (m *MockPropertyRepository) CastCount(_ context.Context, playerName, zone, fieldType string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.casts[castKey(playerName, zone, fieldType)], nil
}

// Close ничего не делает.
func (m *MockPropertyRepository) Close() error { return nil }

func castKey(playerName, zone, fieldType string) string {
	return strings.ToLower(playerName) + "|" + zone + "|" + strings.ToLower(fieldType)
}
