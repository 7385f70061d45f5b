package proc

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry is the single shared table of tracked processes. All reads and
// writes from the executor and from Control go through its methods; callers
// only ever see snapshot copies, never live records.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
	store   *Store
}

func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// SetStore makes every registration and state transition write through to an
// on-disk store. The registry works memory-only without one.
func (r *Registry) SetStore(s *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = s
}

// Restore seeds the registry with previously persisted records. Records whose
// id is already registered are left alone.
func (r *Registry) Restore(recs []Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		if _, ok := r.records[rec.ID]; ok {
			continue
		}
		stored := rec.clone()
		r.records[rec.ID] = &stored
	}
}

// persist is called with the write lock held.
func (r *Registry) persist(rec *Record) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(rec.clone()); err != nil {
		logger.Printf("persist record %s: %v", rec.ID, err)
	}
}

// Register inserts a new record. Ids are uuid-generated so a collision should
// be impossible, but the table refuses to silently overwrite one.
func (r *Registry) Register(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}
	stored := rec.clone()
	r.records[rec.ID] = &stored
	r.persist(&stored)
	return nil
}

// Get returns a snapshot of the record, or false if the id is unknown.
// Absence is not an error here; callers that need one wrap it themselves.
func (r *Registry) Get(id string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return Record{}, false
	}
	return rec.clone(), true
}

// List returns snapshots of all records, oldest first, optionally filtered by
// a command substring.
func (r *Registry) List(filter string) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		if filter != "" && !strings.Contains(strings.Join(rec.Command, " "), filter) {
			continue
		}
		out = append(out, rec.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Remove deletes a record from the active table. The log file on disk is
// untouched; logs outlive registry membership.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	if r.store != nil {
		r.store.Delete(id)
	}
}

// MarkBackgrounded transitions a running record to backgrounded. A record
// that already reached a terminal state is left alone: the process may have
// exited in the window between the timeout firing and this call.
func (r *Registry) MarkBackgrounded(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.State != StateRunning {
		return
	}
	rec.State = StateBackgrounded
	r.persist(rec)
}

// MarkExited records the observed exit of a process. Zero exit code means
// completed, anything else failed. A killed record stays killed.
func (r *Registry) MarkExited(id string, exitCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.State.Terminal() {
		return
	}
	code := exitCode
	rec.ExitCode = &code
	if exitCode == 0 {
		rec.State = StateCompleted
	} else {
		rec.State = StateFailed
	}
	r.persist(rec)
}

// MarkKilled transitions a record to killed after an explicit signal.
func (r *Registry) MarkKilled(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.State.Terminal() {
		return
	}
	rec.State = StateKilled
	rec.ExitCode = nil
	r.persist(rec)
}
