package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabdeck/tabdeck/internal/domain"
	"github.com/tabdeck/tabdeck/internal/httpserver/deps"
	"github.com/tabdeck/tabdeck/internal/logger"
)

type todosResponse struct {
	Todos []domain.Todo `json:"todos"`
}

func TodosList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		todos, err := d.Store.GetTodos(r.Context())
		if err != nil {
			d.Logger.Error("failed to read todos", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read todos")
			return
		}
		if todos == nil {
			todos = []domain.Todo{}
		}
		writeJSON(w, http.StatusOK, todosResponse{Todos: todos})
	}
}

func TodosAdd(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Text == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		todo, err := d.Store.AddTodo(r.Context(), req.Text)
		if err != nil {
			d.Logger.Error("failed to add todo", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to add todo")
			return
		}
		writeJSON(w, http.StatusCreated, todo)
	}
}

func TodosToggle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.ToggleTodo(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func TodosDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.DeleteTodo(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
