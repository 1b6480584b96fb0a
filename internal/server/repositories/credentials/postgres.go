package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/dbx"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) error {
	query :=
		`INSERT INTO credentials (id, email, password, display_name, email_verified, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Email, c.Password, c.DisplayName, c.EmailVerified, string(c.Role), c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrEmailAlreadyInUse
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query :=
		`SELECT id, email, password, display_name, email_verified, role, is_active, created_at, updated_at
		 FROM credentials
		 WHERE email = $1
		 `

	c := &models.Credential{}
	var role string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.Email, &c.Password, &c.DisplayName, &c.EmailVerified, &role, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	c.Role = models.Role(role)

	return c, nil
}

// ChangeEmail relies on the unique index on email: a single UPDATE either
// re-keys the row or fails, so two racing re-keys cannot both succeed.
func (r *PostgresRepository) ChangeEmail(ctx context.Context, oldEmail, newEmail string, now time.Time) error {
	query :=
		`UPDATE credentials SET email = $2, updated_at = $3
		 WHERE email = $1
		 `

	res, err := r.db.ExecContext(ctx, query, oldEmail, newEmail, now)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrEmailAlreadyInUse
		}
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(res)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, password string, now time.Time) error {
	query :=
		`UPDATE credentials SET password = $2, updated_at = $3
		 WHERE email = $1
		 `

	res, err := r.db.ExecContext(ctx, query, email, password, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	query := `DELETE FROM credentials WHERE email = $1`

	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrUserNotFound
	}
	return nil
}
