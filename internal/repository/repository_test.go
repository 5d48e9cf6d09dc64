package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hpnchanel/todoapi/internal/model"
	"github.com/hpnchanel/todoapi/internal/testutil"
)

func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	repo, err := New(ctx, testutil.PostgresURL(t))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return repo
}

func newTestUser(t *testing.T, ctx context.Context, repo *Repository, email string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           model.NewID(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c29tZXNhbHQ$aGFzaA",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func newTestTodo(ownerID, text string) *model.Todo {
	now := time.Now().UTC()
	return &model.Todo{
		ID:        model.NewID(),
		OwnerID:   ownerID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepository_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestRepository_CreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := newTestUser(t, ctx, repo, "userone@mail.com")

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user by ID: %v", err)
	}
	if byID.Email != user.Email || byID.PasswordHash != user.PasswordHash {
		t.Fatalf("unexpected user: %+v", byID)
	}
	if len(byID.Tokens) != 0 {
		t.Fatalf("expected no tokens, got %v", byID.Tokens)
	}

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("id mismatch: %q vs %q", byEmail.ID, user.ID)
	}

	if _, err := repo.GetUserByEmail(ctx, "nobody@mail.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetUserByID(ctx, model.NewID()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRepository_CreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	newTestUser(t, ctx, repo, "dup@mail.com")

	duplicate := &model.User{
		ID:           model.NewID(),
		Email:        "dup@mail.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, duplicate); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRepository_UserTokens(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := newTestUser(t, ctx, repo, "tokens@mail.com")

	first := model.Token{Access: "auth", Token: "token-one"}
	second := model.Token{Access: "auth", Token: "token-two"}

	for _, tok := range []model.Token{first, second, first} {
		if err := repo.AddUserToken(ctx, user.ID, tok); err != nil {
			t.Fatalf("add token: %v", err)
		}
	}

	loaded, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if len(loaded.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %v", loaded.Tokens)
	}
	if loaded.Tokens[0] != first || loaded.Tokens[1] != second {
		t.Fatalf("tokens out of order: %v", loaded.Tokens)
	}

	for i := 0; i < 2; i++ {
		if err := repo.RemoveUserToken(ctx, user.ID, first.Token); err != nil {
			t.Fatalf("remove token (attempt %d): %v", i+1, err)
		}
	}

	loaded, err = repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if len(loaded.Tokens) != 1 || loaded.Tokens[0] != second {
		t.Fatalf("expected only second token, got %v", loaded.Tokens)
	}
}

func TestRepository_TodoCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	owner := newTestUser(t, ctx, repo, "owner@mail.com")

	todo := newTestTodo(owner.ID, "First test todo")
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("create todo: %v", err)
	}

	got, err := repo.GetTodoForOwner(ctx, owner.ID, todo.ID)
	if err != nil {
		t.Fatalf("get todo: %v", err)
	}
	if got.Text != todo.Text || got.Completed || got.CompletedAt != nil {
		t.Fatalf("unexpected todo: %+v", got)
	}

	list, err := repo.ListTodosByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if len(list) != 1 || list[0].ID != todo.ID {
		t.Fatalf("unexpected list: %v", list)
	}

	text := "new text"
	stamp := time.Now().UnixMilli()
	updated, err := repo.UpdateTodoForOwner(ctx, owner.ID, todo.ID, model.TodoPatch{
		Text:        &text,
		Completed:   true,
		CompletedAt: &stamp,
	})
	if err != nil {
		t.Fatalf("update todo: %v", err)
	}
	if updated.Text != text || !updated.Completed || updated.CompletedAt == nil || *updated.CompletedAt != stamp {
		t.Fatalf("unexpected updated todo: %+v", updated)
	}

	cleared, err := repo.UpdateTodoForOwner(ctx, owner.ID, todo.ID, model.TodoPatch{})
	if err != nil {
		t.Fatalf("clear todo: %v", err)
	}
	if cleared.Text != text {
		t.Fatalf("nil text must leave text unchanged, got %q", cleared.Text)
	}
	if cleared.Completed || cleared.CompletedAt != nil {
		t.Fatalf("expected completion cleared: %+v", cleared)
	}

	deleted, err := repo.DeleteTodoForOwner(ctx, owner.ID, todo.ID)
	if err != nil {
		t.Fatalf("delete todo: %v", err)
	}
	if deleted.ID != todo.ID {
		t.Fatalf("deleted wrong todo: %s", deleted.ID)
	}

	if _, err := repo.GetTodoForOwner(ctx, owner.ID, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
	if _, err := repo.DeleteTodoForOwner(ctx, owner.ID, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on second delete, got %v", err)
	}
}

func TestRepository_TodoOwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	alice := newTestUser(t, ctx, repo, "alice@mail.com")
	bob := newTestUser(t, ctx, repo, "bob@mail.com")

	todo := newTestTodo(alice.ID, "alice only")
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("create todo: %v", err)
	}

	list, err := repo.ListTodosByOwner(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("bob must not see alice's todos: %v", list)
	}

	if _, err := repo.GetTodoForOwner(ctx, bob.ID, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("get: expected ErrTodoNotFound, got %v", err)
	}
	if _, err := repo.UpdateTodoForOwner(ctx, bob.ID, todo.ID, model.TodoPatch{Completed: false}); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("update: expected ErrTodoNotFound, got %v", err)
	}
	if _, err := repo.DeleteTodoForOwner(ctx, bob.ID, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("delete: expected ErrTodoNotFound, got %v", err)
	}

	if _, err := repo.GetTodoForOwner(ctx, alice.ID, todo.ID); err != nil {
		t.Fatalf("alice should still see her todo: %v", err)
	}
}
