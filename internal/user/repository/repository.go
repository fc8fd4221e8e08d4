package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/tada/internal/common/db"
	"github.com/AlibekovAA/tada/internal/common/logger"
	"github.com/AlibekovAA/tada/internal/user/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateUsername(ctx context.Context, id domain.ID, username string) error
	UpdatePasswordHash(ctx context.Context, id domain.ID, hash string) error
	ReplaceRoles(ctx context.Context, id domain.ID, roles domain.RoleSet) error
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
	tx   db.TxManager
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{
		pool: pool,
		tx:   db.NewPgTxManager(pool),
		log:  log,
	}
}

const selectUser = `
	SELECT u.id::text, u.username, u.password_hash, u.created_at,
	       COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles r ON r.user_id = u.id`

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	op := db.Op{Name: "create user", Table: "users"}
	start := time.Now()

	err := r.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO users (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
			string(user.ID),
			user.Username,
			user.PasswordHash,
			user.CreatedAt,
		); err != nil {
			return err
		}
		return insertRoles(ctx, tx, user.ID, user.Roles)
	})
	if db.IsUniqueViolation(err) {
		return ErrUsernameAlreadyExists
	}
	return db.HandleExecError(err, op, start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, db.Op{Name: "find user by id", Table: "users"}, selectUser+` WHERE u.id = $1 GROUP BY u.id`, string(id))
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, db.Op{Name: "find user by username", Table: "users"}, selectUser+` WHERE u.username = $1 GROUP BY u.id`, username)
}

func (r *PgRepository) findOne(ctx context.Context, op db.Op, query string, arg string) (domain.User, error) {
	var user domain.User
	start := time.Now()

	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		var scanErr error
		user, scanErr = scanUser(r.pool.QueryRow(ctx, query, arg))
		return scanErr
	})
	if err != nil {
		return domain.User{}, db.HandleQueryError(err, ErrUserNotFound, op, start)
	}
	return user, db.HandleQueryError(nil, ErrUserNotFound, op, start)
}

func (r *PgRepository) List(ctx context.Context) ([]domain.User, error) {
	op := db.Op{Name: "list users", Table: "users"}
	start := time.Now()

	rows, err := r.pool.Query(ctx, selectUser+` GROUP BY u.id ORDER BY u.created_at, u.id`)
	if err != nil {
		return nil, db.HandleQueryError(err, ErrUserNotFound, op, start)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, db.HandleQueryError(err, ErrUserNotFound, op, start)
		}
		users = append(users, u)
	}

	return users, db.HandleQueryError(rows.Err(), ErrUserNotFound, op, start)
}

func (r *PgRepository) UpdateUsername(ctx context.Context, id domain.ID, username string) error {
	op := db.Op{Name: "update username", Table: "users"}
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `UPDATE users SET username = $2 WHERE id = $1`, string(id), username)
	if db.IsUniqueViolation(err) {
		return ErrUsernameAlreadyExists
	}
	if err := db.HandleExecError(err, op, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) UpdatePasswordHash(ctx context.Context, id domain.ID, hash string) error {
	op := db.Op{Name: "update password", Table: "users"}
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, string(id), hash)
	if err := db.HandleExecError(err, op, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ReplaceRoles swaps the whole role set in one transaction. The user row is
// locked so concurrent replacements serialize.
func (r *PgRepository) ReplaceRoles(ctx context.Context, id domain.ID, roles domain.RoleSet) error {
	op := db.Op{Name: "replace roles", Table: "user_roles"}
	start := time.Now()

	err := r.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var locked string
		if err := tx.QueryRow(ctx, `SELECT id::text FROM users WHERE id = $1 FOR UPDATE`, string(id)).Scan(&locked); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, string(id)); err != nil {
			return err
		}
		return insertRoles(ctx, tx, id, roles)
	})
	return db.HandleQueryError(err, ErrUserNotFound, op, start)
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	op := db.Op{Name: "delete user", Table: "users"}
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, string(id))
	if err := db.HandleExecError(err, op, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func insertRoles(ctx context.Context, tx pgx.Tx, id domain.ID, roles domain.RoleSet) error {
	if roles.IsEmpty() {
		return nil
	}
	_, err := tx.Exec(
		ctx,
		`INSERT INTO user_roles (user_id, role) SELECT $1, unnest($2::text[])`,
		string(id),
		roles.Strings(),
	)
	return err
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user  domain.User
		id    string
		roles []string
	)
	if err := row.Scan(&id, &user.Username, &user.PasswordHash, &user.CreatedAt, &roles); err != nil {
		return domain.User{}, err
	}

	user.ID = domain.ID(id)
	user.Roles = make(domain.RoleSet, 0, len(roles))
	for _, r := range roles {
		user.Roles = append(user.Roles, domain.Role(r))
	}
	user.Roles = domain.NewRoleSet(user.Roles...)
	return user, nil
}
