package task

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

// Store is the task board kept in memory in board order. When it has a
// Persister, every successful mutation is saved before the new state is
// published; a failed save leaves the board untouched.
type Store struct {
	mu    sync.RWMutex
	tasks []model.Task
	p     Persister

	newID func() model.TaskID
}

var _ Repo = (*Store)(nil)

func NewStore(p Persister) (*Store, error) {
	s := &Store{
		tasks: []model.Task{},
		p:     p,
		newID: func() model.TaskID { return model.TaskID(uuid.NewString()) },
	}
	if p == nil {
		return s, nil
	}

	loaded, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	for _, t := range loaded {
		if t.ID == "" {
			t.ID = s.newID()
		}
		normalizeTask(&t)
		s.tasks = append(s.tasks, t)
	}
	return s, nil
}

// NewMemoryRepo returns a Store that is never persisted.
func NewMemoryRepo() *Store {
	s, _ := NewStore(nil)
	return s
}

func (s *Store) indexLocked(id model.TaskID) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

// commitLocked persists next and only then swaps it in.
func (s *Store) commitLocked(next []model.Task) error {
	if s.p != nil {
		if err := s.p.Save(next); err != nil {
			return fmt.Errorf("save tasks: %w", err)
		}
	}
	s.tasks = next
	return nil
}

func (s *Store) snapshotLocked() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) List() ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

func (s *Store) Get(id model.TaskID) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	return s.tasks[i].Clone(), nil
}

func (s *Store) Create(t model.Task) (model.Task, error) {
	t = t.Clone()
	t.ID = s.newID()
	t.Order = model.OrderLast
	t.Checked = []model.CheckEntry{}
	normalizeTask(&t)
	if err := Validate(t); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(s.snapshotLocked(), t)
	if err := s.commitLocked(next); err != nil {
		return model.Task{}, err
	}
	return t.Clone(), nil
}

// Upsert replaces the task with the same id in place, or appends it. A task
// without an id gets a fresh one.
func (s *Store) Upsert(t model.Task) (model.Task, error) {
	t = t.Clone()
	if t.ID == "" {
		t.ID = s.newID()
	}
	normalizeTask(&t)
	if err := Validate(t); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshotLocked()
	if i := s.indexLocked(t.ID); i >= 0 {
		next[i] = t
	} else {
		next = append(next, t)
	}
	if err := s.commitLocked(next); err != nil {
		return model.Task{}, err
	}
	return t.Clone(), nil
}

func (s *Store) Update(id model.TaskID, p Patch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}

	next := s.snapshotLocked()
	t := next[i]
	applyPatch(&t, p)
	normalizeTask(&t)
	if err := Validate(t); err != nil {
		return model.Task{}, err
	}
	next[i] = t

	if err := s.commitLocked(next); err != nil {
		return model.Task{}, err
	}
	return t.Clone(), nil
}

func (s *Store) Remove(id model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	next := s.snapshotLocked()
	next = slices.Delete(next, i, i+1)
	return s.commitLocked(next)
}

// Move puts a task into line. Without an explicit order it goes after the
// highest order already in that line.
func (s *Store) Move(id model.TaskID, line model.Line, order *int) (model.Task, error) {
	if !line.Valid() {
		return model.Task{}, fmt.Errorf("%w: line must be 1, 2 or 3", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}

	next := s.snapshotLocked()
	maxOrder := 0
	for _, t := range next {
		if t.Line == line && t.Order > maxOrder {
			maxOrder = t.Order
		}
	}

	next[i].Line = line
	if order != nil {
		next[i].Order = *order
	} else {
		next[i].Order = maxOrder + 1
	}

	if err := s.commitLocked(next); err != nil {
		return model.Task{}, err
	}
	return next[i].Clone(), nil
}

// ReorderWithinLine sets order = position+1 for each listed id. Ids that
// are unknown or belong to another line are skipped.
func (s *Store) ReorderWithinLine(line model.Line, ids []model.TaskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshotLocked()
	for pos, id := range ids {
		i := s.indexLocked(id)
		if i < 0 || next[i].Line != line {
			continue
		}
		next[i].Order = pos + 1
	}
	return s.commitLocked(next)
}

// ToggleCheck removes the check for dateKey if there is one, otherwise
// records it as late or early relative to todayKey.
func (s *Store) ToggleCheck(id model.TaskID, dateKey, todayKey string) (model.Task, error) {
	if !datekey.Valid(dateKey) {
		return model.Task{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, dateKey)
	}
	if !datekey.Valid(todayKey) {
		return model.Task{}, fmt.Errorf("%w: today %q is not YYYY-MM-DD", ErrInvalid, todayKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}

	next := s.snapshotLocked()
	t := &next[i]
	if j := slices.IndexFunc(t.Checked, func(c model.CheckEntry) bool { return c.Date == dateKey }); j >= 0 {
		t.Checked = slices.Delete(t.Checked, j, j+1)
	} else {
		t.Checked = append(t.Checked, model.CheckEntry{
			Date:  dateKey,
			Late:  dateKey < todayKey,
			Early: dateKey > todayKey,
		})
	}

	if err := s.commitLocked(next); err != nil {
		return model.Task{}, err
	}
	return t.Clone(), nil
}

// SetAll replaces the whole board. Tasks are taken as-is apart from
// filling missing ids; duplicate ids are rejected.
func (s *Store) SetAll(tasks []model.Task) error {
	next := make([]model.Task, 0, len(tasks))
	seen := map[model.TaskID]bool{}
	for _, t := range tasks {
		t = t.Clone()
		if t.ID == "" {
			t.ID = s.newID()
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalid, t.ID)
		}
		seen[t.ID] = true
		normalizeTask(&t)
		next = append(next, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(next)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked([]model.Task{})
}

// ForWeekday returns weekly tasks that recur on day, sorted by order.
func (s *Store) ForWeekday(day datekey.WeekDay) ([]model.Task, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalid, day)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Task{}
	for _, t := range s.tasks {
		if w, ok := t.Recurrence.(model.Weekly); ok && slices.Contains(w.Days, day) {
			out = append(out, t.Clone())
		}
	}
	sortByOrder(out)
	return out, nil
}

// ForDate returns every task scheduled on dateKey, weekly or ranged,
// sorted by order.
func (s *Store) ForDate(dateKey string) ([]model.Task, error) {
	if !datekey.Valid(dateKey) {
		return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, dateKey)
	}
	weekday := datekey.WeekdayOf(dateKey)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Task{}
	for _, t := range s.tasks {
		if t.ScheduledOn(dateKey, weekday) {
			out = append(out, t.Clone())
		}
	}
	sortByOrder(out)
	return out, nil
}

func sortByOrder(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Order < tasks[j].Order
	})
}
