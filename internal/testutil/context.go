package testutil

import (
	"context"
	"testing"
	"time"
)

// ContextWithTimeout возвращает context для вызовов репозитория в тесте.
// Отменяется через t.Cleanup.
func ContextWithTimeout(t testing.TB, d time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}
