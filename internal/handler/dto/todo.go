package dto

import (
	"time"

	"github.com/hpnchanel/todoapi/internal/model"
)

// CreateTodoRequest represents the request body for creating a todo.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// UpdateTodoRequest represents the request body for updating a todo.
// Absent fields decode to nil.
type UpdateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// TodoResponse represents a todo in API responses.
type TodoResponse struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	CompletedAt *int64    `json:"completed_at"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoEnvelope wraps a single todo.
type TodoEnvelope struct {
	Todo TodoResponse `json:"todo"`
}

// TodoListEnvelope wraps a list of todos.
type TodoListEnvelope struct {
	Todos []TodoResponse `json:"todos"`
}

// ToTodoResponse converts a Todo model to TodoResponse DTO.
func ToTodoResponse(todo *model.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Text:        todo.Text,
		Completed:   todo.Completed,
		CompletedAt: todo.CompletedAt,
		OwnerID:     todo.OwnerID,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

// ToTodoListEnvelope converts a slice of Todo models to a list envelope.
func ToTodoListEnvelope(todos []*model.Todo) TodoListEnvelope {
	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = ToTodoResponse(todo)
	}
	return TodoListEnvelope{Todos: responses}
}
