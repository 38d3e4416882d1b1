package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPreferenceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPreferenceRepositoryMarkAllApplied(t *testing.T) {
	db, mock, cleanup := newPreferenceMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	mock.ExpectExec("UPDATE teacher_scheduling_preferences SET status = 'applied'").
		WillReturnResult(sqlmock.NewResult(0, 4))

	updated, err := repo.MarkAllApplied(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepositoryMarkAllAppliedError(t *testing.T) {
	db, mock, cleanup := newPreferenceMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	mock.ExpectExec("UPDATE teacher_scheduling_preferences SET status = 'applied'").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.MarkAllApplied(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
