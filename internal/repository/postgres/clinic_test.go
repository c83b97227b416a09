package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClinicLocationRepository_List(t *testing.T) {
	base, mock := newMockBase(t)
	repo := NewClinicLocationRepository(base)

	mock.ExpectQuery("SELECT id, name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Main").AddRow(int64(2), "Annexe"))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Annexe", got[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
