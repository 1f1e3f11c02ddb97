package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/doctors"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/patients"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFactories_ReturnPostgresRepos(t *testing.T) {
	db := newDB(t)
	m := NewPostgresRepositoryManager()

	p := m.Patients(db)
	d := m.Doctors(db)

	assert.IsType(t, &patients.PostgresRepository{}, p)
	assert.IsType(t, &doctors.PostgresRepository{}, d)
}

func TestRunMigrations(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	t.Run("success", func(t *testing.T) {
		var gotDir string
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			gotDir = dir
			return nil
		}

		require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
		assert.Equal(t, ".", gotDir)
	})

	t.Run("error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return boom
		}

		err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "migrate")
	})
}
