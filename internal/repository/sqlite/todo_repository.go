package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

const createTodosTable = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	completed INTEGER NOT NULL DEFAULT 0,
	priority TEXT NOT NULL DEFAULT 'normal',
	due_date TEXT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_todos_owner ON todos (owner_id);
`

const selectTodoColumns = `id, owner_id, title, description, completed, priority, due_date, created_at, updated_at`

type todoRow struct {
	ID          int64          `db:"id"`
	OwnerID     int64          `db:"owner_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Completed   bool           `db:"completed"`
	Priority    string         `db:"priority"`
	DueDate     sql.NullString `db:"due_date"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r todoRow) toDomain() domain.Todo {
	todo := domain.Todo{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    domain.Priority(r.Priority),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.DueDate.Valid {
		due := r.DueDate.String
		todo.DueDate = &due
	}
	return todo
}

type TodoRepository struct {
	db *sqlx.DB
}

func NewTodoRepository(db *sqlx.DB) repository.TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTodosTable); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

func (r *TodoRepository) Create(ctx context.Context, ownerID int64, fields domain.TodoFields) (*domain.Todo, error) {
	todo := repository.NewTodo(ownerID, fields)
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO todos (owner_id, title, description, completed, priority, due_date, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		todo.OwnerID,
		todo.Title,
		todo.Description,
		todo.Completed,
		string(todo.Priority),
		nullString(todo.DueDate),
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("todo last insert id: %w", err)
	}
	todo.ID = id
	return &todo, nil
}

func (r *TodoRepository) Update(ctx context.Context, id, ownerID int64, patch domain.TodoFields) (*domain.Todo, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var row todoRow
	if err := tx.GetContext(ctx, &row, `SELECT `+selectTodoColumns+` FROM todos WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load todo: %w", err)
	}

	todo := row.toDomain()
	patch.Apply(&todo)
	todo.UpdatedAt = repository.NextStamp(time.Now().UTC(), todo.UpdatedAt)

	if _, err := tx.ExecContext(ctx, `
UPDATE todos
SET title=?, description=?, completed=?, priority=?, due_date=?, updated_at=?
WHERE id=? AND owner_id=?`,
		todo.Title,
		todo.Description,
		todo.Completed,
		string(todo.Priority),
		nullString(todo.DueDate),
		todo.UpdatedAt,
		id,
		ownerID,
	); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit todo update: %w", err)
	}
	return &todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id=? AND owner_id=?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("todo delete rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TodoRepository) Get(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	var row todoRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+selectTodoColumns+` FROM todos WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	todo := row.toDomain()
	return &todo, nil
}

// List narrows by owner, completion and priority in SQL. Search runs in Go so
// case folding is the same as the in-memory store.
func (r *TodoRepository) List(ctx context.Context, ownerID int64, filter repository.TodoFilter) ([]domain.Todo, error) {
	conds := []string{"owner_id = ?"}
	args := []any{ownerID}
	if filter.Completed != nil {
		conds = append(conds, "completed = ?")
		args = append(args, *filter.Completed)
	}
	if filter.Priority != nil {
		conds = append(conds, "priority = ?")
		args = append(args, string(*filter.Priority))
	}

	query := fmt.Sprintf(`SELECT %s FROM todos WHERE %s`, selectTodoColumns, strings.Join(conds, " AND "))

	var rows []todoRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}

	todos := make([]domain.Todo, 0, len(rows))
	for _, row := range rows {
		todo := row.toDomain()
		if !filter.Matches(todo) {
			continue
		}
		todos = append(todos, todo)
	}
	repository.SortByRecency(todos)
	return todos, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
