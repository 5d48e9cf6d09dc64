package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hpnchanel/todoapi/internal/auth"
	"github.com/hpnchanel/todoapi/internal/handler/dto"
	"github.com/hpnchanel/todoapi/internal/service"
)

// TodoHandler handles HTTP requests for todo operations.
// Every operation is scoped to the authenticated user.
type TodoHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /todos.
func (h *TodoHandler) Create(r *http.Request) (*Response, error) {
	var req dto.CreateTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	todo, err := h.svc.Create(r.Context(), ownerID(r), req.Text)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("todo_created", "todo_id", todo.ID, "owner_id", todo.OwnerID)

	return OK(dto.TodoEnvelope{Todo: dto.ToTodoResponse(todo)}), nil
}

// List handles GET /todos.
func (h *TodoHandler) List(r *http.Request) (*Response, error) {
	todos, err := h.svc.ListByOwner(r.Context(), ownerID(r))
	if err != nil {
		return nil, err
	}
	return OK(dto.ToTodoListEnvelope(todos)), nil
}

// Get handles GET /todos/{id}.
func (h *TodoHandler) Get(r *http.Request) (*Response, error) {
	todo, err := h.svc.FindByIDForOwner(r.Context(), ownerID(r), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return OK(dto.TodoEnvelope{Todo: dto.ToTodoResponse(todo)}), nil
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(r *http.Request) (*Response, error) {
	todo, err := h.svc.DeleteByIDForOwner(r.Context(), ownerID(r), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}

	h.logger.Debug("todo_deleted", "todo_id", todo.ID, "owner_id", todo.OwnerID)

	return OK(dto.TodoEnvelope{Todo: dto.ToTodoResponse(todo)}), nil
}

// Update handles PATCH /todos/{id}. Only text and completed are honoured.
func (h *TodoHandler) Update(r *http.Request) (*Response, error) {
	id := chi.URLParam(r, "id")
	// A malformed id is a 404 even when the body is also bad.
	if err := service.CheckID(id); err != nil {
		return nil, err
	}

	var req dto.UpdateTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	todo, err := h.svc.UpdateByIDForOwner(r.Context(), ownerID(r), id, service.UpdateTodoInput{
		Text:      req.Text,
		Completed: req.Completed,
	})
	if err != nil {
		return nil, err
	}

	return OK(dto.TodoEnvelope{Todo: dto.ToTodoResponse(todo)}), nil
}

func ownerID(r *http.Request) string {
	return auth.MustIdentityFromContext(r.Context()).User.ID
}
