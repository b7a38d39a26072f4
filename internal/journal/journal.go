package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Event kinds.
const (
	KindSpawn   = "spawn"
	KindDestroy = "destroy"
)

// Event is one field lifecycle record.
type Event struct {
	Time   time.Time `json:"time"`
	Kind   string    `json:"kind"`
	Zone   string    `json:"zone"`
	Type   string    `json:"type"`
	Class  string    `json:"class,omitempty"`
	Caster string    `json:"caster"`
	X      int32     `json:"x"`
	Y      int32     `json:"y"`
	Reason string    `json:"reason,omitempty"`
}

// DefaultQueueSize is the number of events buffered before Record drops.
const DefaultQueueSize = 4096

// Journal records events asynchronously: Record never blocks on disk I/O,
// a single goroutine drains the queue into a Writer.
type Journal struct {
	w  *Writer
	ch chan Event
	wg sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// Open starts a Journal writing "fields-<hour>.jsonl.zst" files into dir.
func Open(dir string) *Journal {
	j := &Journal{
		w:  NewWriter(dir, "fields"),
		ch: make(chan Event, DefaultQueueSize),
	}
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.loop()
	}()
	return j
}

// Record queues ev. Events are dropped (and counted) when the queue is full
// or the journal is closed.
func (j *Journal) Record(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		j.dropped.Add(1)
		return
	}
	select {
	case j.ch <- ev:
	default:
		if j.dropped.Add(1) == 1 {
			slog.Warn("journal queue full, dropping events")
		}
	}
}

// Dropped returns how many events were not recorded.
func (j *Journal) Dropped() int64 { return j.dropped.Load() }

// Close drains the queue and closes the current file.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.ch)
	j.mu.Unlock()

	j.wg.Wait()
	return j.w.Close()
}

func (j *Journal) loop() {
	for ev := range j.ch {
		if err := j.w.Write(ev); err != nil {
			slog.Error("journal write failed", "err", err)
		}
	}
}

// ReadFile decodes every event of one journal file.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal file: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	var events []Event
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return nil, fmt.Errorf("decoding journal line: %w", err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading journal file: %w", err)
	}
	return events, nil
}
