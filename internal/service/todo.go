package service

import (
	"context"
	"errors"
	"time"

	"github.com/hpnchanel/todoapi/internal/metrics"
	"github.com/hpnchanel/todoapi/internal/model"
	"github.com/hpnchanel/todoapi/internal/repository"
)

// TodoRepository persists todos. Every lookup is scoped to an owner.
type TodoRepository interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	ListTodosByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error)
	GetTodoForOwner(ctx context.Context, ownerID, id string) (*model.Todo, error)
	DeleteTodoForOwner(ctx context.Context, ownerID, id string) (*model.Todo, error)
	UpdateTodoForOwner(ctx context.Context, ownerID, id string, patch model.TodoPatch) (*model.Todo, error)
}

// TodoService handles todo business logic.
type TodoService struct {
	repo    TodoRepository
	metrics metrics.Recorder
	now     func() time.Time
}

// NewTodoService creates a new TodoService.
func NewTodoService(repo TodoRepository, recorder metrics.Recorder) *TodoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TodoService{
		repo:    repo,
		metrics: recorder,
		now:     time.Now,
	}
}

// UpdateTodoInput is the caller-supplied part of a todo update.
// Nil fields were absent from the request.
type UpdateTodoInput struct {
	Text      *string
	Completed *bool
}

// CheckID returns ErrInvalidID when id is not a well-formed identifier.
func CheckID(id string) error {
	if !model.ValidID(id) {
		return ErrInvalidID
	}
	return nil
}

// Create adds a todo for ownerID.
func (s *TodoService) Create(ctx context.Context, ownerID, text string) (*model.Todo, error) {
	text, err := validateText(text)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	todo := &model.Todo{
		ID:        model.NewID(),
		OwnerID:   ownerID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}

	s.metrics.IncTodoCreated()
	return todo, nil
}

// ListByOwner returns every todo owned by ownerID.
func (s *TodoService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	return s.repo.ListTodosByOwner(ctx, ownerID)
}

// FindByIDForOwner returns the todo id if ownerID owns it.
func (s *TodoService) FindByIDForOwner(ctx context.Context, ownerID, id string) (*model.Todo, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}

	todo, err := s.repo.GetTodoForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, mapTodoError(err)
	}
	return todo, nil
}

// DeleteByIDForOwner removes the todo id if ownerID owns it and returns it.
func (s *TodoService) DeleteByIDForOwner(ctx context.Context, ownerID, id string) (*model.Todo, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}

	todo, err := s.repo.DeleteTodoForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, mapTodoError(err)
	}

	s.metrics.IncTodoDeleted()
	return todo, nil
}

// UpdateByIDForOwner applies input to the todo id if ownerID owns it.
//
// Completion is normalized: an explicit true stamps CompletedAt with the
// current time, anything else marks the todo incomplete and clears it.
func (s *TodoService) UpdateByIDForOwner(ctx context.Context, ownerID, id string, input UpdateTodoInput) (*model.Todo, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}

	patch, err := s.buildPatch(input)
	if err != nil {
		return nil, err
	}

	todo, err := s.repo.UpdateTodoForOwner(ctx, ownerID, id, patch)
	if err != nil {
		return nil, mapTodoError(err)
	}

	s.metrics.IncTodoUpdated()
	return todo, nil
}

func (s *TodoService) buildPatch(input UpdateTodoInput) (model.TodoPatch, error) {
	var patch model.TodoPatch

	if input.Text != nil {
		text, err := validateText(*input.Text)
		if err != nil {
			return patch, err
		}
		patch.Text = &text
	}

	if input.Completed != nil && *input.Completed {
		stamp := s.now().UnixMilli()
		patch.Completed = true
		patch.CompletedAt = &stamp
	}

	return patch, nil
}

func mapTodoError(err error) error {
	if errors.Is(err, repository.ErrTodoNotFound) {
		return ErrNotFound
	}
	return err
}
