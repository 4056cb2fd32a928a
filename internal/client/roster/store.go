package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("user not in roster")
	ErrDuplicateID = errors.New("duplicate user id")
	ErrUnknownOp   = errors.New("unknown or settled operation")
)

// FetchFunc loads the full directory from the backend.
type FetchFunc func(ctx context.Context) ([]models.User, error)

type Store struct {
	mu    sync.RWMutex
	users []models.User
	ops   map[string]*pendingOp
	seq   uint64

	// provisional ids are negative so they never meet a server id
	nextProvisional int64

	subsMu  sync.Mutex
	subs    map[int]func([]models.User)
	nextSub int

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		ops:             make(map[string]*pendingOp),
		nextProvisional: -1,
		subs:            make(map[int]func([]models.User)),
		now:             time.Now,
	}
}

// Load replaces the roster with the result of fetch. On any error the
// previous roster stays in place.
func (s *Store) Load(ctx context.Context, fetch FetchFunc) error {
	users, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	return s.Replace(users)
}

// Replace swaps the whole roster. A list carrying the same id twice is
// rejected.
func (s *Store) Replace(users []models.User) error {
	seen := make(map[int64]struct{}, len(users))
	next := make([]models.User, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, u.ID)
		}
		seen[u.ID] = struct{}{}
		next = append(next, cloneUser(u))
	}

	s.mu.Lock()
	s.users = next
	s.mu.Unlock()

	s.notify()
	return nil
}

// ApplyCreate appends a record the backend has created.
func (s *Store) ApplyCreate(u models.User) error {
	s.mu.Lock()
	if s.indexOf(u.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrDuplicateID, u.ID)
	}
	s.users = append(s.users, cloneUser(u))
	s.mu.Unlock()

	s.notify()
	return nil
}

// ApplyUpdate patches the mutable fields of record id in place.
func (s *Store) ApplyUpdate(id int64, p models.Patch, at time.Time) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.users[i].Apply(p, at)
	s.mu.Unlock()

	s.notify()
	return nil
}

// ApplyDelete removes record id. A missing id is not an error.
func (s *Store) ApplyDelete(id int64) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.removeAt(i)
	s.mu.Unlock()

	s.notify()
}

// BeginCreate appends a provisional record built from d and returns the op
// tracking it together with the record.
func (s *Store) BeginCreate(d models.Draft) (Op, models.User) {
	s.mu.Lock()
	now := s.now()
	u := models.User{
		ID:         s.nextProvisional,
		Email:      d.Email,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Role:       d.Role,
		Department: d.Department,
		CreatedAt:  models.NewTimestamp(now),
		ProfileURL: models.DefaultProfileURL,
	}
	s.nextProvisional--
	s.users = append(s.users, u)
	op := s.track(OpCreate, u.ID, nil, len(s.users)-1, now)
	s.mu.Unlock()

	s.notify()
	return op, cloneUser(u)
}

// BeginUpdate patches record id right away and remembers its previous state.
func (s *Store) BeginUpdate(id int64, p models.Patch) (Op, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Op{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	now := s.now()
	before := cloneUser(s.users[i])
	s.users[i].Apply(p, now)
	op := s.track(OpUpdate, id, &before, i, now)
	s.mu.Unlock()

	s.notify()
	return op, nil
}

// BeginDelete removes record id right away and remembers it with its
// position.
func (s *Store) BeginDelete(id int64) (Op, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Op{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	before := cloneUser(s.users[i])
	s.removeAt(i)
	op := s.track(OpDelete, id, &before, i, s.now())
	s.mu.Unlock()

	s.notify()
	return op, nil
}

// Confirm settles a pending op. For creates and updates server is the record
// the backend returned and replaces the local one; it may be nil for deletes.
func (s *Store) Confirm(opID string, server *models.User) (Op, error) {
	s.mu.Lock()
	p, ok := s.ops[opID]
	if !ok {
		s.mu.Unlock()
		return Op{}, fmt.Errorf("%w: %s", ErrUnknownOp, opID)
	}
	delete(s.ops, opID)

	switch p.op.Kind {
	case OpCreate:
		s.reconcileCreate(p.op.UserID, server)
	case OpUpdate:
		if server != nil {
			if i := s.indexOf(p.op.UserID); i >= 0 {
				mergeUpdate(&s.users[i], *server)
			}
		}
	case OpDelete:
		if i := s.indexOf(p.op.UserID); i >= 0 {
			s.removeAt(i)
		}
	}
	p.op.State = Confirmed
	op := p.op
	s.mu.Unlock()

	s.notify()
	return op, nil
}

// mergeUpdate copies the mutable fields and UpdatedAt of the server's answer
// onto u. ID, Email and CreatedAt stay as they are; empty fields of server are
// ignored.
func mergeUpdate(u *models.User, server models.User) {
	if server.FirstName != "" {
		u.FirstName = server.FirstName
	}
	if server.LastName != "" {
		u.LastName = server.LastName
	}
	if server.Role.Valid() {
		u.Role = server.Role
	}
	if server.Department.Valid() {
		u.Department = server.Department
	}
	if server.ProfileURL != "" {
		u.ProfileURL = server.ProfileURL
	}
	if server.UpdatedAt != nil {
		ts := *server.UpdatedAt
		u.UpdatedAt = &ts
	}
}

func (s *Store) reconcileCreate(provisionalID int64, server *models.User) {
	i := s.indexOf(provisionalID)
	if server == nil {
		return
	}
	if s.indexOf(server.ID) >= 0 {
		// a reload already brought the server record in
		if i >= 0 {
			s.removeAt(i)
		}
		return
	}
	if i >= 0 {
		s.users[i] = cloneUser(*server)
		return
	}
	s.users = append(s.users, cloneUser(*server))
}

// Fail settles a pending op by undoing its local effect.
func (s *Store) Fail(opID string) (Op, error) {
	s.mu.Lock()
	p, ok := s.ops[opID]
	if !ok {
		s.mu.Unlock()
		return Op{}, fmt.Errorf("%w: %s", ErrUnknownOp, opID)
	}
	delete(s.ops, opID)

	switch p.op.Kind {
	case OpCreate:
		if i := s.indexOf(p.op.UserID); i >= 0 {
			s.removeAt(i)
		}
	case OpUpdate:
		if i := s.indexOf(p.op.UserID); i >= 0 {
			s.users[i] = cloneUser(*p.before)
		}
	case OpDelete:
		if s.indexOf(p.op.UserID) < 0 {
			s.insertAt(p.index, cloneUser(*p.before))
		}
	}
	p.op.State = Failed
	op := p.op
	s.mu.Unlock()

	s.notify()
	return op, nil
}

// Pending lists in-flight ops, oldest first.
func (s *Store) Pending() []Op {
	s.mu.RLock()
	ps := make([]pendingOp, 0, len(s.ops))
	for _, p := range s.ops {
		ps = append(ps, *p)
	}
	s.mu.RUnlock()

	sort.Slice(ps, func(i, j int) bool { return ps[i].seq < ps[j].seq })
	out := make([]Op, len(ps))
	for i, p := range ps {
		out[i] = p.op
	}
	return out
}

// Snapshot returns a copy of the roster in order.
func (s *Store) Snapshot() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Get(id int64) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.User{}, false
	}
	return cloneUser(s.users[i]), true
}

func (s *Store) FindByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), true
		}
	}
	return models.User{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func removes it.
func (s *Store) Subscribe(fn func([]models.User)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// notify runs outside s.mu so subscribers may call back into the store.
func (s *Store) notify() {
	s.subsMu.Lock()
	fns := make([]func([]models.User), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	if len(fns) == 0 {
		return
	}
	for _, fn := range fns {
		fn(s.Snapshot())
	}
}

func (s *Store) track(kind OpKind, userID int64, before *models.User, index int, at time.Time) Op {
	op := Op{ID: uuid.NewString(), Kind: kind, State: Pending, UserID: userID, Started: at}
	s.seq++
	s.ops[op.ID] = &pendingOp{op: op, before: before, index: index, seq: s.seq}
	return op
}

func (s *Store) snapshotLocked() []models.User {
	out := make([]models.User, len(s.users))
	for i, u := range s.users {
		out[i] = cloneUser(u)
	}
	return out
}

func (s *Store) indexOf(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.users = append(s.users[:i], s.users[i+1:]...)
}

func (s *Store) insertAt(i int, u models.User) {
	if i > len(s.users) {
		i = len(s.users)
	}
	s.users = append(s.users, models.User{})
	copy(s.users[i+1:], s.users[i:])
	s.users[i] = u
}

func cloneUser(u models.User) models.User {
	if u.UpdatedAt != nil {
		ts := *u.UpdatedAt
		u.UpdatedAt = &ts
	}
	return u
}
