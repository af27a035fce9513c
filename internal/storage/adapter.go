package storage

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todoer/internal/model"
)

// Record keys. Each entity is stored under its own key derived from its type
// and id.
const (
	TodoPrefix           = "todo-"
	SystemCategoryPrefix = "devCategory-"
	UserCategoryPrefix   = "userCategory-"
	ReturningUserKey     = "returning-user"
	probeKey             = "storage-probe"
)

func TodoKey(id string) string { return TodoPrefix + id }

func CategoryKey(c model.Category) string {
	if c.Kind() == model.KindSystem {
		return SystemCategoryPrefix + c.ID()
	}
	return UserCategoryPrefix + c.ID()
}

// Snapshot is the rehydrated category/todo graph.
type Snapshot struct {
	ReturningUser bool
	// Todos ordered by creation date.
	Todos []*model.Todo
	// System categories found in storage, keyed by id.
	System map[string]*model.SystemCategory
	// User categories ordered by creation date.
	User []*model.UserCategory
}

// Adapter mirrors organizer state into a Repository. Writes are fire and
// forget: failures are logged and never returned. When the repository is nil
// or fails the availability probe every call is a no-op.
type Adapter struct {
	ctx       context.Context
	repo      Repository
	logger    *log.Logger
	available bool
}

func NewAdapter(ctx context.Context, repo Repository, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := &Adapter{ctx: ctx, repo: repo, logger: logger}
	a.available = a.probe()
	if !a.available {
		a.logger.Warn("storage unavailable, running in memory only")
	}
	return a
}

func (a *Adapter) probe() bool {
	if a.repo == nil {
		return false
	}
	if err := a.repo.Put(a.ctx, Record{Key: probeKey, Value: []byte("ok")}); err != nil {
		a.logger.Warn("storage probe write failed", "err", err)
		return false
	}
	if _, err := a.repo.Get(a.ctx, probeKey); err != nil {
		a.logger.Warn("storage probe read failed", "err", err)
		return false
	}
	if err := a.repo.Delete(a.ctx, probeKey); err != nil {
		a.logger.Warn("storage probe delete failed", "err", err)
		return false
	}
	return true
}

func (a *Adapter) Available() bool {
	return a != nil && a.available
}

func (a *Adapter) SaveTodo(t *model.Todo) {
	if !a.Available() || t == nil {
		return
	}
	rec, err := encode(TodoKey(t.ID()), t.Record())
	if err != nil {
		a.logger.Warn("encode todo", "id", t.ID(), "err", err)
		return
	}
	if err := a.repo.Put(a.ctx, rec); err != nil {
		a.logger.Warn("save todo", "id", t.ID(), "err", err)
		return
	}
	a.logger.Debug("saved todo", "key", rec.Key)
}

func (a *Adapter) DeleteTodo(id string) {
	if !a.Available() {
		return
	}
	if err := a.repo.Delete(a.ctx, TodoKey(id)); err != nil && !errors.Is(err, ErrNotFound) {
		a.logger.Warn("delete todo", "id", id, "err", err)
		return
	}
	a.logger.Debug("deleted todo", "id", id)
}

func (a *Adapter) SaveCategory(c model.Category) {
	if !a.Available() || c == nil {
		return
	}
	rec, err := encode(CategoryKey(c), c.Record())
	if err != nil {
		a.logger.Warn("encode category", "id", c.ID(), "err", err)
		return
	}
	if err := a.repo.Put(a.ctx, rec); err != nil {
		a.logger.Warn("save category", "id", c.ID(), "err", err)
		return
	}
	a.logger.Debug("saved category", "key", rec.Key)
}

// DeleteCategory stores the detached todos and removes the category record in
// a single batch.
func (a *Adapter) DeleteCategory(c model.Category, detached []*model.Todo) {
	if !a.Available() || c == nil {
		return
	}
	batch := Batch{Deletes: []string{CategoryKey(c)}}
	for _, t := range detached {
		rec, err := encode(TodoKey(t.ID()), t.Record())
		if err != nil {
			a.logger.Warn("encode todo", "id", t.ID(), "err", err)
			return
		}
		batch.Puts = append(batch.Puts, rec)
	}
	if err := a.repo.Apply(a.ctx, batch); err != nil {
		a.logger.Warn("delete category", "id", c.ID(), "err", err)
		return
	}
	a.logger.Debug("deleted category", "id", c.ID(), "detached", len(detached))
}

func (a *Adapter) MarkReturningUser() {
	if !a.Available() {
		return
	}
	if err := a.repo.Put(a.ctx, Record{Key: ReturningUserKey, Value: []byte("true")}); err != nil {
		a.logger.Warn("mark returning user", "err", err)
	}
}

// Load rehydrates every stored todo and category. Records that fail to decode
// are logged and skipped. An unavailable adapter returns an empty snapshot.
func (a *Adapter) Load() (Snapshot, error) {
	snap := Snapshot{
		Todos:  make([]*model.Todo, 0),
		System: make(map[string]*model.SystemCategory),
		User:   make([]*model.UserCategory, 0),
	}
	if !a.Available() {
		return snap, nil
	}

	marker, err := a.repo.Get(a.ctx, ReturningUserKey)
	switch {
	case err == nil:
		snap.ReturningUser = strings.TrimSpace(string(marker.Value)) == "true"
	case errors.Is(err, ErrNotFound):
	default:
		return snap, fmt.Errorf("load returning-user marker: %w", err)
	}

	todoRecords, err := a.repo.List(a.ctx, RecordListFilter{Prefix: TodoPrefix})
	if err != nil {
		return snap, fmt.Errorf("list todos: %w", err)
	}
	byID := make(map[string]*model.Todo, len(todoRecords))
	for _, rec := range todoRecords {
		var data model.TodoRecord
		if err := json.Unmarshal(rec.Value, &data); err != nil {
			a.logger.Warn("skip undecodable todo", "key", rec.Key, "err", err)
			continue
		}
		t, err := model.TodoFromRecord(data)
		if err != nil {
			a.logger.Warn("skip invalid todo", "key", rec.Key, "err", err)
			continue
		}
		byID[t.ID()] = t
		snap.Todos = append(snap.Todos, t)
	}
	slices.SortStableFunc(snap.Todos, func(x, y *model.Todo) int {
		return x.CreationDate().Compare(y.CreationDate())
	})

	for _, prefix := range []string{SystemCategoryPrefix, UserCategoryPrefix} {
		recs, err := a.repo.List(a.ctx, RecordListFilter{Prefix: prefix})
		if err != nil {
			return snap, fmt.Errorf("list categories: %w", err)
		}
		for _, rec := range recs {
			var data model.CategoryRecord
			if err := json.Unmarshal(rec.Value, &data); err != nil {
				a.logger.Warn("skip undecodable category", "key", rec.Key, "err", err)
				continue
			}
			c, err := model.CategoryFromRecord(data, byID)
			if err != nil {
				a.logger.Warn("skip invalid category", "key", rec.Key, "err", err)
				continue
			}
			switch typed := c.(type) {
			case *model.SystemCategory:
				snap.System[typed.ID()] = typed
			case *model.UserCategory:
				snap.User = append(snap.User, typed)
			}
		}
	}
	slices.SortStableFunc(snap.User, func(x, y *model.UserCategory) int {
		if c := x.CreatedAt().Compare(y.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(x.ID(), y.ID())
	})
	a.logger.Debug("loaded snapshot", "todos", len(snap.Todos), "userCategories", len(snap.User))
	return snap, nil
}

func encode(key string, v any) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Record{}, err
	}
	return Record{Key: key, Value: raw}, nil
}
