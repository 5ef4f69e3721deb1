package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, COALESCE(phone, ''), role, is_blocked, last_login_at, login_count, created_on, updated_on`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, first_name, last_name, phone, role, is_blocked, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	u.CreatedOn = now
	u.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role, u.IsBlocked, u.CreatedOn, u.UpdatedOn).Scan(&u.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Role, &u.IsBlocked, &u.LastLoginAt, &u.LoginCount, &u.CreatedOn, &u.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Role, &u.IsBlocked, &u.LastLoginAt, &u.LoginCount, &u.CreatedOn, &u.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, first_name=$2, last_name=$3, phone=$4, updated_on=$5 WHERE id=$6`
	u.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query, u.Email, u.FirstName, u.LastName, u.Phone, u.UpdatedOn, u.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetBlocked(ctx context.Context, id int32, blocked bool) error {
	query := `UPDATE users SET is_blocked=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, blocked, time.Now(), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) TouchLogin(ctx context.Context, id int32, at time.Time) error {
	query := `UPDATE users SET last_login_at=$1, login_count = login_count + 1 WHERE id=$2`
	_, err := r.db.ExecContext(ctx, query, at, id)
	return err
}

func (r *userRepository) List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
			&u.Role, &u.IsBlocked, &u.LastLoginAt, &u.LoginCount, &u.CreatedOn, &u.UpdatedOn); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, count, rows.Err()
}
