package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/dbx"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
)

// PostgresRepository keeps the typed profile fields in columns and the
// remaining ones in a JSONB "extra" column.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const profileColumns = `id, email, display_name, phone_number, photo_url, email_verified, email_verified_at, role, is_active, extra, created_at, updated_at`

func (r *PostgresRepository) Put(ctx context.Context, p *models.Profile) error {
	return r.put(ctx, r.db, p)
}

func (r *PostgresRepository) put(ctx context.Context, db dbx.DBTX, p *models.Profile) error {
	query :=
		`INSERT INTO profiles (` + profileColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
		   email = EXCLUDED.email,
		   display_name = EXCLUDED.display_name,
		   phone_number = EXCLUDED.phone_number,
		   photo_url = EXCLUDED.photo_url,
		   email_verified = EXCLUDED.email_verified,
		   email_verified_at = EXCLUDED.email_verified_at,
		   role = EXCLUDED.role,
		   is_active = EXCLUDED.is_active,
		   extra = EXCLUDED.extra,
		   created_at = EXCLUDED.created_at,
		   updated_at = EXCLUDED.updated_at
		 `

	extra, err := marshalExtra(p.Extra)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, query,
		p.ID, p.Email, p.DisplayName, p.PhoneNumber, p.PhotoURL, p.EmailVerified, p.EmailVerifiedAt,
		string(p.Role), p.IsActive, extra, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, uid string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, uid string, fn Mutator) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 FOR UPDATE`

	var out *models.Profile
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := scanProfile(tx.QueryRowContext(ctx, query, uid))
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := r.put(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, uid string) error {
	query := `DELETE FROM profiles WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, uid); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	var (
		role       string
		extra      []byte
		verifiedAt sql.NullTime
	)
	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.PhoneNumber, &p.PhotoURL, &p.EmailVerified,
		&verifiedAt, &role, &p.IsActive, &extra, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.Role = models.Role(role)
	if verifiedAt.Valid {
		t := verifiedAt.Time
		p.EmailVerifiedAt = &t
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &p.Extra); err != nil {
			return nil, fmt.Errorf("decode extra fields: %w", err)
		}
		if len(p.Extra) == 0 {
			p.Extra = nil
		}
	}

	return p, nil
}

func marshalExtra(extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("encode extra fields: %w", err)
	}
	return b, nil
}
