package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

var allowedUserRowColumns = []string{"id", "email", "is_admin", "name", "notes", "created_at"}

func TestAllowedUserRepository_GetByEmail(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewAllowedUserRepository(base)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM allowed_users WHERE email").
		WithArgs("desk@clinic.in").
		WillReturnRows(sqlmock.NewRows(allowedUserRowColumns).AddRow(int64(1), "desk@clinic.in", true, "Desk", nil, created))
	mock.ExpectQuery("FROM allowed_users WHERE email").
		WithArgs("nobody@clinic.in").
		WillReturnRows(sqlmock.NewRows(allowedUserRowColumns))

	user, err := repo.GetByEmail(context.Background(), "desk@clinic.in")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	_, err = repo.GetByEmail(context.Background(), "nobody@clinic.in")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowedUserRepository_Create(t *testing.T) {
	t.Run("inserted", func(t *testing.T) {
		base, mock := newMockBase(t)
		repo := NewAllowedUserRepository(base)

		mock.ExpectQuery(`ON CONFLICT \(email\) DO NOTHING`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

		user := &model.AllowedUser{Email: "new@clinic.in"}
		require.NoError(t, repo.Create(context.Background(), user))
		assert.Equal(t, int64(3), user.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		base, mock := newMockBase(t)
		repo := NewAllowedUserRepository(base)

		mock.ExpectQuery(`ON CONFLICT \(email\) DO NOTHING`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.Create(context.Background(), &model.AllowedUser{Email: "dup@clinic.in"})
		assert.True(t, errors.Is(err, repository.ErrDuplicate))
	})
}

func TestAllowedUserRepository_UpdateUniqueViolation(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewAllowedUserRepository(base)

	mock.ExpectExec("UPDATE allowed_users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "allowed_users_email_key"})

	err := repo.Update(context.Background(), &model.AllowedUser{ID: 1, Email: "taken@clinic.in"})
	assert.True(t, errors.Is(err, repository.ErrDuplicate))
}

func TestAllowedUserRepository_DeleteMissing(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewAllowedUserRepository(base)

	mock.ExpectExec("DELETE FROM allowed_users").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 9)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
