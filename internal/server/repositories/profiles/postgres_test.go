package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

var columns = []string{"id", "email", "display_name", "phone_number", "photo_url", "email_verified",
	"email_verified_at", "role", "is_active", "extra", "created_at", "updated_at"}

const (
	upsertQ    = `(?s)^INSERT\s+INTO\s+profiles\s*\(id,.*updated_at\)\s*VALUES\s*\(\$1,.*\$12\)\s*ON\s+CONFLICT\s*\(id\)\s*DO\s+UPDATE\s+SET.*$`
	selectQ    = `(?s)^SELECT\s+id,.*updated_at\s+FROM\s+profiles\s+WHERE\s+id\s*=\s*\$1$`
	selectForQ = `(?s)^SELECT\s+id,.*updated_at\s+FROM\s+profiles\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE$`
	deleteQ    = `(?s)^DELETE\s+FROM\s+profiles\s+WHERE\s+id\s*=\s*\$1$`
)

func profileRow(now time.Time, extra string) *sqlmock.Rows {
	return sqlmock.NewRows(columns).
		AddRow("u1", "a@x.com", "Alice", "555", "", true, now, "patient", true, []byte(extra), now, now)
}

func TestPut_Upserts(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectExec(upsertQ).
		WithArgs("u1", "a@x.com", "Alice", "", "", false, nil, "patient", true, []byte(`{"allergies":"none"}`), now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(context.Background(), &models.Profile{
		ID: "u1", Email: "a@x.com", DisplayName: "Alice", AccountStatus: models.DefaultAccountStatus(),
		Extra: map[string]any{"allergies": "none"}, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectQ).WithArgs("u1").WillReturnRows(profileRow(now, `{"allergies":"none"}`))

	p, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Alice", p.DisplayName)
	assert.Equal(t, models.RolePatient, p.Role)
	require.NotNil(t, p.EmailVerifiedAt)
	assert.Equal(t, now, *p.EmailVerifiedAt)
	assert.Equal(t, map[string]any{"allergies": "none"}, p.Extra)
}

func TestGet_AbsentIsNotAnError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(selectQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	p, err := repo.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(selectQ).WithArgs("u1").WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background(), "u1")
	require.ErrorContains(t, err, "db error")
}

func TestUpdate_CommitsMutation(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(selectForQ).WithArgs("u1").WillReturnRows(profileRow(now, `{}`))
	mock.ExpectExec(upsertQ).
		WithArgs("u1", "a@x.com", "Bob", "555", "", true, sqlmock.AnyArg(), "patient", true, []byte("{}"), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := repo.Update(context.Background(), "u1", func(p *models.Profile) error {
		p.DisplayName = "Bob"
		p.UpdatedAt = now.Add(time.Minute)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", p.DisplayName)
	assert.Nil(t, p.Extra)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFoundRollsBack(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "ghost", func(*models.Profile) error { return nil })
	require.ErrorIs(t, err, common.ErrProfileNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MutatorErrorRollsBack(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForQ).WithArgs("u1").WillReturnRows(profileRow(time.Now(), `{}`))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "u1", func(*models.Profile) error { return common.ErrInvalidField })
	require.ErrorIs(t, err, common.ErrInvalidField)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(deleteQ).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
}
