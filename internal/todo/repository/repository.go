package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/tada/internal/common/db"
	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/todo/domain"
	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
)

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrOwnerNotFound = errors.New("owner not found")
)

type Repository interface {
	Create(ctx context.Context, todo domain.Todo) error
	FindByID(ctx context.Context, id domain.ID) (domain.Todo, error)
	ListByOwner(ctx context.Context, owner userdomain.ID, page domain.PageRequest) ([]domain.Todo, int64, error)
	Update(ctx context.Context, todo domain.Todo) error
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

func (r *PgRepository) Create(ctx context.Context, todo domain.Todo) error {
	op := db.Op{Name: "create todo", Table: "todos"}
	start := time.Now()

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO todos (id, user_id, title, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(todo.ID),
		string(todo.OwnerID),
		todo.Title,
		todo.Completed,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if db.IsForeignKeyViolation(err) {
		return ErrOwnerNotFound
	}
	return db.HandleExecError(err, op, start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Todo, error) {
	op := db.Op{Name: "find todo by id", Table: "todos"}
	start := time.Now()

	var todo domain.Todo
	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		var scanErr error
		todo, scanErr = scanTodo(r.pool.QueryRow(
			ctx,
			`SELECT id::text, user_id::text, title, completed, created_at, updated_at
			 FROM todos WHERE id = $1`,
			string(id),
		))
		return scanErr
	})
	if err := db.HandleQueryError(err, ErrTodoNotFound, op, start); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

func (r *PgRepository) ListByOwner(ctx context.Context, owner userdomain.ID, page domain.PageRequest) ([]domain.Todo, int64, error) {
	op := db.Op{Name: "list todos", Table: "todos"}
	start := time.Now()

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM todos WHERE user_id = $1`, string(owner)).Scan(&total); err != nil {
		return nil, 0, db.HandleQueryError(err, ErrTodoNotFound, op, start)
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id::text, user_id::text, title, completed, created_at, updated_at
		 FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at, id
		 LIMIT $2 OFFSET $3`,
		string(owner),
		page.Size,
		page.Offset(),
	)
	if err != nil {
		return nil, 0, db.HandleQueryError(err, ErrTodoNotFound, op, start)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, 0, db.HandleQueryError(err, ErrTodoNotFound, op, start)
		}
		todos = append(todos, t)
	}
	if err := db.HandleQueryError(rows.Err(), ErrTodoNotFound, op, start); err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func (r *PgRepository) Update(ctx context.Context, todo domain.Todo) error {
	op := db.Op{Name: "update todo", Table: "todos"}
	start := time.Now()

	tag, err := r.pool.Exec(
		ctx,
		`UPDATE todos SET title = $2, completed = $3, updated_at = $4 WHERE id = $1`,
		string(todo.ID),
		todo.Title,
		todo.Completed,
		todo.UpdatedAt,
	)
	if err := db.HandleExecError(err, op, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	op := db.Op{Name: "delete todo", Table: "todos"}
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, string(id))
	if err := db.HandleExecError(err, op, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func scanTodo(row pgx.Row) (domain.Todo, error) {
	var (
		todo    domain.Todo
		id      string
		ownerID string
	)
	if err := row.Scan(&id, &ownerID, &todo.Title, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
		return domain.Todo{}, err
	}
	todo.ID = domain.ID(id)
	todo.OwnerID = userdomain.ID(ownerID)
	return todo, nil
}
