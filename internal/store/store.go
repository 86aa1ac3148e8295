// Package store is the locally persisted job collection. Mutations are
// synchronous and optimistic: they apply to memory immediately and schedule
// a best-effort flush of the whole collection to disk. There is no remote
// sync; jobs live only on this device.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"jobtrack/internal/logging"
)

type Note struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

type Job struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Client      string  `json:"client"`
	Location    string  `json:"location"`
	Budget      float64 `json:"budget"`
	CreatedAt   int64   `json:"createdAt"`
	Notes       []Note  `json:"notes"`
}

// JobInput carries the caller-supplied fields for a new job. Budget arrives
// as raw text (form input); anything unparsable or negative becomes 0.
type JobInput struct {
	Title       string
	Description string
	Client      string
	Location    string
	Budget      string
}

// JobUpdate is a partial update; nil fields are left untouched.
type JobUpdate struct {
	Title       *string
	Description *string
	Client      *string
	Location    *string
	Budget      *string
}

type Store struct {
	mu     sync.Mutex
	jobs   []Job
	lastID int64 // monotonic guard for timestamp-derived ids

	db   *sql.DB
	lock *flock.Flock
	log  logging.Logger

	flushMu sync.Mutex
	seq     uint64 // bumped per mutation, under mu
	flushed uint64 // last seq written, under flushMu
	wg      sync.WaitGroup
}

// Open locks dir against a second process, opens the sqlite db inside it,
// and loads the persisted collection. A missing db or row means an empty
// store, not an error.
func Open(dir string, log logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(dir, "jobtrack.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}

	db, err := openDB(filepath.Join(dir, "jobtrack.db"))
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	s, err := newWithDB(db, log)
	if err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	s.lock = lock
	return s, nil
}

func newWithDB(db *sql.DB, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop{}
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	jobs, err := loadDoc(db)
	if err != nil {
		return nil, err
	}
	s := &Store{jobs: jobs, db: db, log: log}
	bump := func(raw string) {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > s.lastID {
			s.lastID = id
		}
	}
	for _, j := range jobs {
		bump(j.ID)
		for _, n := range j.Notes {
			bump(n.ID)
		}
	}
	return s, nil
}

// Close waits for in-flight flushes, writes the final state synchronously,
// and releases the directory lock.
func (s *Store) Close() error {
	s.mu.Lock()
	snap := copyJobs(s.jobs)
	s.mu.Unlock()

	s.wg.Wait()

	err := writeDoc(s.db, snap)
	if s.lock != nil {
		_ = s.lock.Unlock()
	}
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}

// AddJob creates a job from the input, prepends it (most-recent-first), and
// returns a copy of the created record. It always succeeds.
func (s *Store) AddJob(in JobInput) Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	j := Job{
		ID:          strconv.FormatInt(s.nextID(now), 10),
		Title:       in.Title,
		Description: in.Description,
		Client:      in.Client,
		Location:    in.Location,
		Budget:      coerceBudget(in.Budget),
		CreatedAt:   now,
		Notes:       []Note{},
	}
	s.jobs = append([]Job{j}, s.jobs...)
	s.scheduleFlush()
	return copyJob(j)
}

// UpdateJob shallow-merges the given fields into the matching job. A missing
// id is a silent no-op; the returned bool says whether a job was touched.
func (s *Store) UpdateJob(id string, upd JobUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID != id {
			continue
		}
		if upd.Title != nil {
			s.jobs[i].Title = *upd.Title
		}
		if upd.Description != nil {
			s.jobs[i].Description = *upd.Description
		}
		if upd.Client != nil {
			s.jobs[i].Client = *upd.Client
		}
		if upd.Location != nil {
			s.jobs[i].Location = *upd.Location
		}
		if upd.Budget != nil {
			s.jobs[i].Budget = coerceBudget(*upd.Budget)
		}
		s.scheduleFlush()
		return true
	}
	return false
}

// AddNote prepends a note to the matching job. A missing id is a silent
// no-op. Text is stored as given; rejecting blank text is the caller's job.
func (s *Store) AddNote(id, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.jobs {
		if s.jobs[i].ID != id {
			continue
		}
		now := time.Now().UnixMilli()
		n := Note{
			ID:        strconv.FormatInt(s.nextID(now), 10),
			Text:      text,
			CreatedAt: now,
		}
		s.jobs[i].Notes = append([]Note{n}, s.jobs[i].Notes...)
		s.scheduleFlush()
		return true
	}
	return false
}

// Jobs returns a defensive copy of the collection, most recent first.
func (s *Store) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyJobs(s.jobs)
}

// ClearJobs empties the collection.
func (s *Store) ClearJobs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = []Job{}
	s.scheduleFlush()
}

// nextID derives an id from the creation timestamp, bumped past the last
// issued id so rapid calls stay unique and monotonically increasing.
// Caller holds s.mu.
func (s *Store) nextID(now int64) int64 {
	if now <= s.lastID {
		now = s.lastID + 1
	}
	s.lastID = now
	return now
}

// scheduleFlush persists a snapshot in the background, fire-and-forget.
// Stale snapshots lose to newer ones via the sequence check. Caller holds s.mu.
func (s *Store) scheduleFlush() {
	s.seq++
	seq := s.seq
	snap := copyJobs(s.jobs)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.flushMu.Lock()
		defer s.flushMu.Unlock()
		if seq <= s.flushed {
			return
		}
		if err := writeDoc(s.db, snap); err != nil {
			s.log.Error(context.Background(), "job store flush failed", "err", err)
			return
		}
		s.flushed = seq
	}()
}

func coerceBudget(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func copyJob(j Job) Job {
	out := j
	out.Notes = make([]Note, len(j.Notes))
	copy(out.Notes, j.Notes)
	return out
}

func copyJobs(jobs []Job) []Job {
	out := make([]Job, len(jobs))
	for i, j := range jobs {
		out[i] = copyJob(j)
	}
	return out
}
