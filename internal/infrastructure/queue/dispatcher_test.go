package queue

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/core/ports"
)

type recordingStorage struct {
	mu      sync.Mutex
	deleted []string
	fail    map[string]bool
}

func (s *recordingStorage) Store(context.Context, io.Reader, ports.FileMeta) (string, error) {
	return "", errors.New("not implemented")
}

func (s *recordingStorage) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingStorage) Delete(ctx context.Context, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.fail[locator] {
		return errors.New("storage unavailable")
	}
	s.deleted = append(s.deleted, locator)
	return nil
}

// blockingStorage holds every Delete until release is closed.
type blockingStorage struct {
	recordingStorage
	release chan struct{}
}

func (s *blockingStorage) Delete(ctx context.Context, locator string) error {
	<-s.release
	return s.recordingStorage.Delete(ctx, locator)
}

type outcomes struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *outcomes) record(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[outcome]++
}

func TestDispatcher_DeletesEverythingBeforeClose(t *testing.T) {
	store := &recordingStorage{fail: map[string]bool{"bad": true}}
	seen := &outcomes{counts: map[string]int{}}
	d := NewDispatcher(3, store, zerolog.Nop(), WithObserver(seen.record))
	d.Start(context.Background())

	want := []string{"a", "b", "c", "d", "e"}
	for _, loc := range want {
		d.Schedule(loc)
	}
	d.Schedule("bad")
	d.Schedule("")
	d.Close()

	sort.Strings(store.deleted)
	if len(store.deleted) != len(want) {
		t.Fatalf("expected %v deleted, got %v", want, store.deleted)
	}
	for i := range want {
		if store.deleted[i] != want[i] {
			t.Fatalf("expected %v deleted, got %v", want, store.deleted)
		}
	}
	if seen.counts[OutcomeDeleted] != 5 || seen.counts[OutcomeFailed] != 1 {
		t.Fatalf("unexpected outcomes: %v", seen.counts)
	}
}

func (o *outcomes) get(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[outcome]
}

func waitOrFail(t *testing.T, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("%s did not return", what)
	}
}

func TestDispatcher_DrainsQueueAfterContextCancelled(t *testing.T) {
	store := &recordingStorage{}
	seen := &outcomes{counts: map[string]int{}}
	d := NewDispatcher(2, store, zerolog.Nop(), WithObserver(seen.record))
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	// The server cancels ctx before its deferred Close runs.
	cancel()
	locators := []string{"a", "b", "c", "d", "e"}
	for _, loc := range locators {
		d.Schedule(loc)
	}
	waitOrFail(t, "Close", d.Close)

	if len(store.deleted) != len(locators) {
		t.Fatalf("expected %d deleted, got %v", len(locators), store.deleted)
	}
	if seen.get(OutcomeDeleted) != len(locators) || seen.get(OutcomeDropped) != 0 {
		t.Fatalf("unexpected outcomes: %v", seen.counts)
	}
}

func TestDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	store := &blockingStorage{release: make(chan struct{})}
	seen := &outcomes{counts: map[string]int{}}
	d := NewDispatcher(1, store, zerolog.Nop(), WithObserver(seen.record))
	d.Start(context.Background())

	total := channelBuffer + 50
	waitOrFail(t, "Schedule", func() {
		for i := 0; i < total; i++ {
			d.Schedule("cases/c1/doc-" + strconv.Itoa(i))
		}
	})
	if seen.get(OutcomeDropped) < total-channelBuffer-1 {
		t.Fatalf("expected at least %d dropped, got %v", total-channelBuffer-1, seen.counts)
	}

	close(store.release)
	waitOrFail(t, "Close", d.Close)

	deleted, dropped := seen.get(OutcomeDeleted), seen.get(OutcomeDropped)
	if deleted+dropped != total {
		t.Fatalf("expected %d outcomes, got %v", total, seen.counts)
	}
	if len(store.deleted) != deleted {
		t.Fatalf("storage saw %d deletes, observer %d", len(store.deleted), deleted)
	}
}

func TestDispatcher_ScheduleAfterCloseIsDropped(t *testing.T) {
	store := &recordingStorage{}
	seen := &outcomes{counts: map[string]int{}}
	d := NewDispatcher(1, store, zerolog.Nop(), WithObserver(seen.record))
	d.Start(context.Background())
	d.Close()
	d.Close()

	d.Schedule("late")
	if len(store.deleted) != 0 {
		t.Fatalf("expected nothing deleted, got %v", store.deleted)
	}
	if seen.counts[OutcomeDropped] != 1 {
		t.Fatalf("expected one dropped outcome, got %v", seen.counts)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingStorage{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("cases/c1/file.pdf")
	for i := 0; i < 10; i++ {
		if d.shardIndex("cases/c1/file.pdf") != first {
			t.Fatal("shard index must be deterministic")
		}
	}
}
