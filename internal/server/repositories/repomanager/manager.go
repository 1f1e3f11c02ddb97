package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/clinicportal/internal/dbx"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/doctors"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/patients"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Patients(db dbx.DBTX) patients.Repository
	Doctors(db dbx.DBTX) doctors.Repository
}
