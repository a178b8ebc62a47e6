// Package history owns the linear undo/redo timeline of generated artifacts.
// The in-memory timeline is authoritative for the session; the durable store
// is a best-effort cache written behind a debounce.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"thumbforge/internal/domain"
	"thumbforge/internal/infra"
	"thumbforge/internal/storage"
)

// ErrIndexOutOfRange is returned by LoadAt and DeleteAt for indices outside
// the timeline.
var ErrIndexOutOfRange = errors.New("history: index out of range")

// DefaultDebounce coalesces rapid mutations into one durable write.
const DefaultDebounce = 800 * time.Millisecond

// Persister is the slice of the durable store the timeline needs.
type Persister interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Store is the ordered timeline of artifacts with a movable cursor. The
// cursor is -1 on an empty timeline and always within [-1, len-1].
type Store struct {
	mu     sync.Mutex
	items  []domain.Artifact
	cursor int

	persister Persister
	debounce  time.Duration
	timer     *time.Timer
	logger    *infra.Logger
}

// Options configures a Store.
type Options struct {
	Persister Persister
	Debounce  time.Duration
	Logger    *infra.Logger
}

// NewStore builds a timeline, restoring any previously persisted snapshot.
// A corrupt or missing snapshot yields an empty timeline; restoration never
// fails construction.
func NewStore(opts Options) *Store {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	s := &Store{
		cursor:    -1,
		persister: opts.Persister,
		debounce:  debounce,
		logger:    logger,
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	if s.persister == nil {
		return
	}
	raw, err := s.persister.Get(context.Background(), storage.KeyTimeline)
	if err != nil {
		s.logger.Warn().Err(err).Msg("history: failed to load persisted timeline")
		return
	}
	if len(raw) == 0 {
		return
	}
	var items []domain.Artifact
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn().Err(err).Msg("history: discarding corrupt persisted timeline")
		return
	}
	s.items = items
	s.cursor = len(items) - 1
}

// Append discards every artifact after the cursor, pushes the new artifact,
// and moves the cursor to it. This is what makes the history linear: the
// redo branch is destroyed on a new write.
func (s *Store) Append(artifact domain.Artifact) {
	s.mu.Lock()
	s.items = append(s.items[:s.cursor+1:s.cursor+1], artifact)
	s.cursor = len(s.items) - 1
	s.mu.Unlock()
	s.schedulePersist()
}

// Undo moves the cursor back one artifact. It reports whether the cursor
// moved; at cursor <= 0 it is a no-op.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor <= 0 {
		return false
	}
	s.cursor--
	return true
}

// Redo moves the cursor forward one artifact, a no-op at the head.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.items)-1 {
		return false
	}
	s.cursor++
	return true
}

// LoadAt moves the cursor to index without mutating contents.
func (s *Store) LoadAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}
	s.cursor = index
	return nil
}

// DeleteAt removes the artifact at index. Deleting the current artifact moves
// the cursor to its predecessor (or -1); deleting before the cursor shifts
// the cursor down; deleting after it leaves the cursor alone.
func (s *Store) DeleteAt(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		s.mu.Unlock()
		return ErrIndexOutOfRange
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	switch {
	case index == s.cursor:
		if s.cursor = index - 1; s.cursor < -1 {
			s.cursor = -1
		}
	case index < s.cursor:
		s.cursor--
	}
	s.mu.Unlock()
	s.schedulePersist()
	return nil
}

// Clear empties the timeline.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.cursor = -1
	s.mu.Unlock()
	s.schedulePersist()
}

// Current returns the artifact under the cursor.
func (s *Store) Current() (domain.Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return domain.Artifact{}, false
	}
	return s.items[s.cursor], true
}

// Items returns a copy of the timeline in creation order.
func (s *Store) Items() []domain.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Artifact, len(s.items))
	copy(out, s.items)
	return out
}

// Cursor returns the current cursor position, -1 when empty.
func (s *Store) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Len returns the number of artifacts on the timeline.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// schedulePersist restarts the debounce timer. The snapshot is taken when the
// timer fires, so a burst of mutations results in one write of the final
// state.
func (s *Store) schedulePersist() {
	if s.persister == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.persistSnapshot)
}

// Flush persists the current timeline immediately, cancelling any pending
// debounce. Used at shutdown.
func (s *Store) Flush() {
	if s.persister == nil {
		return
	}
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.persistSnapshot()
}

func (s *Store) persistSnapshot() {
	s.mu.Lock()
	snapshot := make([]domain.Artifact, len(s.items))
	copy(snapshot, s.items)
	s.mu.Unlock()

	// Evict oldest-first until the snapshot fits. Persistence failures are a
	// degradation only; the in-memory timeline is already committed.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for {
		raw, err := json.Marshal(snapshot)
		if err != nil {
			s.logger.Error().Err(err).Msg("history: failed to serialize timeline")
			return
		}
		err = s.persister.Put(ctx, storage.KeyTimeline, raw)
		if err == nil {
			return
		}
		if !errors.Is(err, domain.ErrCapacityExceeded) || len(snapshot) == 0 {
			s.logger.Warn().Err(err).Int("artifacts", len(snapshot)).Msg("history: persistence degraded")
			return
		}
		snapshot = snapshot[1:]
	}
}
