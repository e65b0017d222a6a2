package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-backend/internal/domain"
	"todo-backend/internal/service"
)

type TodoResponse struct {
	ID          int64   `json:"id,string"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	UserID      int64   `json:"userId,string"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type ProfileResponse struct {
	ID    int64  `json:"id,string"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func todoToResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		UserID:      todo.OwnerID,
		Priority:    string(todo.Priority),
		DueDate:     todo.DueDate,
		CreatedAt:   todo.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   todo.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func profileToResponse(p service.Profile) ProfileResponse {
	return ProfileResponse{ID: p.ID, Email: p.Email, Name: p.Name}
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "message": message})
}

// fail maps service errors to transport status codes. Unknown errors are
// logged and reported without detail.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abortError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		abortError(c, http.StatusNotFound, "Todo not found")
	case errors.Is(err, service.ErrConflict):
		abortError(c, http.StatusConflict, "Email already in use")
	case errors.Is(err, service.ErrInvalidCredentials):
		abortError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		abortError(c, http.StatusUnauthorized, "Unauthorized")
	default:
		h.entry(c).Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		abortError(c, http.StatusInternalServerError, "internal server error")
	}
}
