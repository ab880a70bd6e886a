package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tabdeck/tabdeck/internal/domain"
)

// GetTodos returns all todo items.
func (s *Store) GetTodos(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := s.getJSON(ctx, KeyTodos, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// SaveTodos replaces the full todo list.
func (s *Store) SaveTodos(ctx context.Context, todos []domain.Todo) error {
	if todos == nil {
		todos = []domain.Todo{}
	}
	return s.setJSON(ctx, KeyTodos, todos)
}

// AddTodo appends a new incomplete item.
func (s *Store) AddTodo(ctx context.Context, text string) (domain.Todo, error) {
	if text == "" {
		return domain.Todo{}, fmt.Errorf("todo text is required")
	}

	todos, err := s.GetTodos(ctx)
	if err != nil {
		return domain.Todo{}, err
	}

	todo := domain.Todo{ID: uuid.NewString(), Text: text}
	todos = append(todos, todo)
	return todo, s.SaveTodos(ctx, todos)
}

// ToggleTodo flips the completed flag on the item with the given ID.
func (s *Store) ToggleTodo(ctx context.Context, id string) error {
	todos, err := s.GetTodos(ctx)
	if err != nil {
		return err
	}

	for i, todo := range todos {
		if todo.ID == id {
			todos[i].Completed = !todo.Completed
			return s.SaveTodos(ctx, todos)
		}
	}
	return fmt.Errorf("todo not found: %s", id)
}

// DeleteTodo removes the item with the given ID.
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	todos, err := s.GetTodos(ctx)
	if err != nil {
		return err
	}

	kept := make([]domain.Todo, 0, len(todos))
	for _, todo := range todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	if len(kept) == len(todos) {
		return fmt.Errorf("todo not found: %s", id)
	}
	return s.SaveTodos(ctx, kept)
}
