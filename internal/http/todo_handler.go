package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo-backend/internal/domain"
	"todo-backend/internal/service"
)

// optionalValue records whether a JSON key was present and its raw value,
// so a null can be told apart from an absent key.
type optionalValue struct {
	Set bool
	Raw json.RawMessage
}

func (v *optionalValue) UnmarshalJSON(data []byte) error {
	v.Set = true
	v.Raw = append(v.Raw[:0], data...)
	return nil
}

func (v optionalValue) null() bool {
	return v.Set && bytes.Equal(bytes.TrimSpace(v.Raw), []byte("null"))
}

// text returns a JSON string unquoted and any other value as its literal.
func (v optionalValue) text() string {
	var s string
	if err := json.Unmarshal(v.Raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(v.Raw))
}

// todoRequest is shared by create and update. Absent JSON fields stay nil.
// dueDate is kept as sent and null clears it.
type todoRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Completed   *bool         `json:"completed"`
	Priority    *string       `json:"priority"`
	DueDate     optionalValue `json:"dueDate"`
}

func (r todoRequest) fields() domain.TodoFields {
	f := domain.TodoFields{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
	if r.Priority != nil {
		p := domain.Priority(*r.Priority)
		f.Priority = &p
	}
	switch {
	case r.DueDate.null():
		f.ClearDueDate = true
	case r.DueDate.Set:
		due := r.DueDate.text()
		f.DueDate = &due
	}
	return f
}

// bindTodo decodes the body. An empty body is an empty payload.
func bindTodo(c *gin.Context) (domain.TodoFields, bool) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return domain.TodoFields{}, false
	}
	return req.fields(), true
}

// todoID parses the path id. Anything that is not a positive integer cannot
// name a todo, so it is reported as not found.
func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortError(c, http.StatusNotFound, "Todo not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) listTodos(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var query service.ListQuery
	if v, present := c.GetQuery("completed"); present {
		query.Completed = &v
	}
	query.Search = c.Query("search")
	query.Priority = c.Query("priority")

	todos, err := h.todos.List(c.Request.Context(), user.ID, query)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]TodoResponse, len(todos))
	for i := range todos {
		resp[i] = todoToResponse(todos[i])
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": resp})
}

func (h *Handler) createTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	payload, ok := bindTodo(c)
	if !ok {
		return
	}

	todo, err := h.todos.Create(c.Request.Context(), user.ID, payload)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok", "data": todoToResponse(*todo)})
}

func (h *Handler) getTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := todoID(c)
	if !ok {
		return
	}

	todo, err := h.todos.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": todoToResponse(*todo)})
}

func (h *Handler) updateTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := todoID(c)
	if !ok {
		return
	}
	patch, ok := bindTodo(c)
	if !ok {
		return
	}

	todo, err := h.todos.Update(c.Request.Context(), user.ID, id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": todoToResponse(*todo)})
}

func (h *Handler) deleteTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := todoID(c)
	if !ok {
		return
	}

	if err := h.todos.Remove(c.Request.Context(), user.ID, id); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
