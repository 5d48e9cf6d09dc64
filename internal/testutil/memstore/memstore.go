// Package memstore provides in-memory stand-ins for the PostgreSQL
// repositories and the Redis session cache, for tests that should not need
// either server.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/hpnchanel/todoapi/internal/cache"
	"github.com/hpnchanel/todoapi/internal/model"
	"github.com/hpnchanel/todoapi/internal/repository"
)

// ErrUnavailable is returned by SessionCache when a failure is injected.
var ErrUnavailable = errors.New("memstore: unavailable")

// UserRepository keeps users and their tokens in memory.
type UserRepository struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byEmail map[string]string
	calls   int
}

// NewUserRepository returns an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if _, ok := r.byEmail[user.Email]; ok {
		return repository.ErrEmailExists
	}
	r.byID[user.ID] = cloneUser(user)
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepository) GetUserByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) AddUserToken(_ context.Context, userID string, token model.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	user, ok := r.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if !user.HasToken(token.Access, token.Token) {
		user.Tokens = append(user.Tokens, token)
	}
	return nil
}

func (r *UserRepository) RemoveUserToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	user, ok := r.byID[userID]
	if !ok {
		return nil
	}
	kept := make([]model.Token, 0, len(user.Tokens))
	for _, t := range user.Tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	user.Tokens = kept
	return nil
}

// Get returns a copy of the stored user, or nil.
func (r *UserRepository) Get(id string) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil
	}
	return cloneUser(user)
}

// Calls returns how many repository methods have been invoked.
func (r *UserRepository) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func cloneUser(user *model.User) *model.User {
	clone := *user
	clone.Tokens = append([]model.Token{}, user.Tokens...)
	return &clone
}

// TodoRepository keeps todos in memory.
type TodoRepository struct {
	mu    sync.Mutex
	todos map[string]*model.Todo
	calls int
}

// NewTodoRepository returns an empty TodoRepository.
func NewTodoRepository() *TodoRepository {
	return &TodoRepository{todos: make(map[string]*model.Todo)}
}

func (r *TodoRepository) CreateTodo(_ context.Context, todo *model.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	clone := *todo
	r.todos[todo.ID] = &clone
	return nil
}

func (r *TodoRepository) ListTodosByOwner(_ context.Context, ownerID string) ([]*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	todos := make([]*model.Todo, 0)
	for _, todo := range r.todos {
		if todo.OwnerID == ownerID {
			clone := *todo
			todos = append(todos, &clone)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (r *TodoRepository) GetTodoForOwner(_ context.Context, ownerID, id string) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	todo, ok := r.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return nil, repository.ErrTodoNotFound
	}
	clone := *todo
	return &clone, nil
}

func (r *TodoRepository) DeleteTodoForOwner(_ context.Context, ownerID, id string) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	todo, ok := r.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return nil, repository.ErrTodoNotFound
	}
	delete(r.todos, id)
	return todo, nil
}

func (r *TodoRepository) UpdateTodoForOwner(_ context.Context, ownerID, id string, patch model.TodoPatch) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	todo, ok := r.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return nil, repository.ErrTodoNotFound
	}
	if patch.Text != nil {
		todo.Text = *patch.Text
	}
	todo.Completed = patch.Completed
	todo.CompletedAt = patch.CompletedAt
	clone := *todo
	return &clone, nil
}

// Calls returns how many repository methods have been invoked.
func (r *TodoRepository) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Count returns the number of stored todos across all owners.
func (r *TodoRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.todos)
}

// SessionCache is an in-memory session cache with injectable failures.
// Like the Redis cache, it keeps revocation markers and never overwrites
// an existing entry on SetSession.
type SessionCache struct {
	mu         sync.Mutex
	entries    map[string]*model.User
	revoked    map[string]bool
	FailGet    bool
	FailRevoke bool
}

// NewSessionCache returns an empty SessionCache.
func NewSessionCache() *SessionCache {
	return &SessionCache{
		entries: make(map[string]*model.User),
		revoked: make(map[string]bool),
	}
}

func (c *SessionCache) GetSession(_ context.Context, tokenHash string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailGet {
		return nil, ErrUnavailable
	}
	if c.revoked[tokenHash] {
		return nil, cache.ErrSessionRevoked
	}
	user, ok := c.entries[tokenHash]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (c *SessionCache) SetSession(_ context.Context, tokenHash string, user *model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.revoked[tokenHash] {
		return nil
	}
	if _, ok := c.entries[tokenHash]; ok {
		return nil
	}
	// Mirrors the Redis encoding, which keeps only identity fields.
	c.entries[tokenHash] = &model.User{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}
	return nil
}

func (c *SessionCache) RevokeSession(_ context.Context, tokenHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailRevoke {
		return ErrUnavailable
	}
	delete(c.entries, tokenHash)
	c.revoked[tokenHash] = true
	return nil
}

// Has reports whether a live session is cached for tokenHash.
func (c *SessionCache) Has(tokenHash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[tokenHash]
	return ok
}

// Revoked reports whether tokenHash carries a revocation marker.
func (c *SessionCache) Revoked(tokenHash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revoked[tokenHash]
}
