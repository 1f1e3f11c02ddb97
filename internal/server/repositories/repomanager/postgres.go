// Package repomanager vends PostgreSQL repositories bound to a DBTX and
// applies the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/clinicportal/internal/dbx"
	"github.com/dmitrijs2005/clinicportal/internal/server/migrations"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/doctors"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/patients"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

// Patients returns the credential store bound to db, which may be a *sql.DB or a *sql.Tx.
func (m *PostgresRepositoryManager) Patients(db dbx.DBTX) patients.Repository {
	return patients.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Doctors(db dbx.DBTX) doctors.Repository {
	return doctors.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
