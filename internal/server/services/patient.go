// Package services contains server-side business logic. This file implements
// PatientService: registration, login, token resolution and the
// password-gated profile operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/dbx"
	"github.com/dmitrijs2005/clinicportal/internal/logging"
	"github.com/dmitrijs2005/clinicportal/internal/server/auth"
	"github.com/dmitrijs2005/clinicportal/internal/server/config"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/repomanager"
)

// Registration is a patient profile plus the chosen password and its
// confirmation.
type Registration struct {
	Patient     models.Patient
	Password    string
	RepPassword string
}

type PatientService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
}

func NewPatientService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *PatientService {
	return &PatientService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		logger:                      logger,
	}
}

// Register stores a new patient. The existence check and the insert share
// one transaction; a duplicate DNI yields common.ErrorAlreadyExists.
func (s *PatientService) Register(ctx context.Context, r Registration) error {
	if r.Password != r.RepPassword {
		return common.ErrorPasswordsMismatch
	}

	hash, err := auth.HashPassword(r.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	p := r.Patient
	p.PasswordHash = hash

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Patients(tx)

		_, err := repo.Find(ctx, p.DNI)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		return repo.Create(ctx, &p)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("error creating patient: %w", err)
	}

	s.logger.Info(ctx, "patient registered", "dni", p.DNI)
	return nil
}

// Login checks the password and returns a fresh session token. An unknown
// DNI yields common.ErrorNotFound, a wrong password common.ErrorUnauthorized.
func (s *PatientService) Login(ctx context.Context, dni, password string) (string, error) {
	repo := s.repomanager.Patients(s.db)

	hash, err := repo.GetPasswordHash(ctx, dni)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error reading credentials: %w", err)
	}

	if !auth.CheckPassword(hash, password) {
		s.logger.Warn(ctx, "failed login", "dni", dni)
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(dni, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Authenticate verifies token and loads the patient it was issued for. Token
// failures are returned as the common.ErrToken* sentinels; a token whose
// patient no longer exists yields common.ErrorNotFound.
func (s *PatientService) Authenticate(ctx context.Context, token string) (*models.Patient, error) {
	dni, err := auth.GetPatientIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, dni)
}

func (s *PatientService) Profile(ctx context.Context, dni string) (*models.Patient, error) {
	return s.repomanager.Patients(s.db).Find(ctx, dni)
}

// UpdateAccount overwrites the profile fields of p.DNI once currentPassword
// has been verified.
func (s *PatientService) UpdateAccount(ctx context.Context, p *models.Patient, currentPassword string) error {
	if err := s.verifyPassword(ctx, p.DNI, currentPassword); err != nil {
		return err
	}

	if err := s.repomanager.Patients(s.db).Update(ctx, p); err != nil {
		return fmt.Errorf("error updating patient: %w", err)
	}
	return nil
}

func (s *PatientService) ChangePassword(ctx context.Context, dni, currentPassword, newPassword, repNewPassword string) error {
	if newPassword != repNewPassword {
		return common.ErrorPasswordsMismatch
	}
	if err := s.verifyPassword(ctx, dni, currentPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repomanager.Patients(s.db).UpdatePassword(ctx, dni, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	s.logger.Info(ctx, "password changed", "dni", dni)
	return nil
}

func (s *PatientService) DeleteAccount(ctx context.Context, dni, currentPassword string) error {
	if err := s.verifyPassword(ctx, dni, currentPassword); err != nil {
		return err
	}

	if err := s.repomanager.Patients(s.db).Delete(ctx, dni); err != nil {
		return fmt.Errorf("error deleting patient: %w", err)
	}

	s.logger.Info(ctx, "account deleted", "dni", dni)
	return nil
}

// verifyPassword returns common.ErrorIncorrectPassword both for an unknown
// DNI and for a wrong password.
func (s *PatientService) verifyPassword(ctx context.Context, dni, password string) error {
	hash, err := s.repomanager.Patients(s.db).GetPasswordHash(ctx, dni)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorIncorrectPassword
		}
		return fmt.Errorf("error reading credentials: %w", err)
	}
	if !auth.CheckPassword(hash, password) {
		return common.ErrorIncorrectPassword
	}
	return nil
}
