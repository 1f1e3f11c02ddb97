package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/repomanager"
)

type DoctorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDoctorService(db *sql.DB, m repomanager.RepositoryManager) *DoctorService {
	return &DoctorService{db: db, repomanager: m}
}

func (s *DoctorService) List(ctx context.Context) ([]*models.Doctor, error) {
	return s.repomanager.Doctors(s.db).List(ctx)
}
