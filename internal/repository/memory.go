package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/domain"
)

// MemoryDenylist is a map-backed denylist. It is primarily intended for
// tests and local development without external stores.
type MemoryDenylist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryDenylist creates an empty in-memory denylist.
func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: make(map[string]time.Time)}
}

// Add inserts the id if absent; an existing entry keeps its expiry.
func (d *MemoryDenylist) Add(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[tokenID]; !ok {
		d.entries[tokenID] = expiresAt
	}
	return nil
}

// Contains reports membership.
func (d *MemoryDenylist) Contains(_ context.Context, tokenID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.entries[tokenID]
	return ok, nil
}

// Purge drops expired entries.
func (d *MemoryDenylist) Purge(_ context.Context, now time.Time) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var removed int64
	for id, exp := range d.entries {
		if !exp.After(now) {
			delete(d.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live entries.
func (d *MemoryDenylist) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// MemoryUserRepository is a map-backed UserRepository for tests. It mirrors
// the Postgres behavior that matters to callers: sequential ids, a unique
// email constraint surfacing ErrEmailTaken, and pgx.ErrNoRows on misses.
type MemoryUserRepository struct {
	mu      sync.Mutex
	nextID  int
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		nextID:  1,
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrEmailTaken
	}
	user.ID = strconv.Itoa(r.nextID)
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryUserRepository) TouchSignIn(_ context.Context, user *domain.User, ip string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.SignInCount++
	stored.LastSignInAt = stored.CurrentSignInAt
	stored.LastSignInIP = stored.CurrentSignInIP
	stored.CurrentSignInAt = &at
	stored.CurrentSignInIP = ip
	stored.UpdatedAt = at
	*user = *stored
	return nil
}

// Delete removes a user, simulating account deletion underneath a live token.
func (r *MemoryUserRepository) Delete(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, id)
	}
}

// Count returns the number of stored users.
func (r *MemoryUserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
