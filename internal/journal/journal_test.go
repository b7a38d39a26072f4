package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_RotatesPerHour(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "fields")

	at := time.Date(2024, 5, 1, 10, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return at }

	require.NoError(t, w.Write(Event{Kind: KindSpawn, Zone: "pub", Type: "basic"}))
	first := w.PathForHour(at)

	at = at.Add(2 * time.Minute)
	require.NoError(t, w.Write(Event{Kind: KindDestroy, Zone: "pub", Type: "basic"}))
	second := w.PathForHour(at)
	require.NoError(t, w.Close())

	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(dir, "fields-2024-05-01-10.jsonl.zst"), first)

	got, err := ReadFile(first)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindSpawn, got[0].Kind)

	got, err = ReadFile(second)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindDestroy, got[0].Kind)
}

func TestJournal_RecordAndClose(t *testing.T) {
	dir := t.TempDir()
	j := Open(dir)

	for i := range 10 {
		j.Record(Event{Kind: KindSpawn, Zone: "pub", Type: "basic", Caster: "alpha", X: int32(i)})
	}
	require.NoError(t, j.Close())
	require.NoError(t, j.Close(), "second close is a no-op")

	j.Record(Event{Kind: KindSpawn})
	assert.Equal(t, int64(1), j.Dropped(), "events after close are dropped")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var total []Event
	for _, e := range entries {
		evs, err := ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		total = append(total, evs...)
	}
	require.Len(t, total, 10)
	assert.Equal(t, int32(9), total[9].X, "order is preserved")
	assert.False(t, total[0].Time.IsZero())
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.jsonl.zst"))
	assert.Error(t, err)
}
