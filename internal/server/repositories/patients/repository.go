// Package patients declares the credential store contract for patient
// records and its PostgreSQL implementation.
package patients

import (
	"context"

	"github.com/dmitrijs2005/clinicportal/internal/server/models"
)

// Repository persists patient records keyed by DNI.
type Repository interface {
	// Find returns the patient or common.ErrorNotFound.
	Find(ctx context.Context, dni string) (*models.Patient, error)

	// Create inserts a new patient; a duplicate DNI yields common.ErrorAlreadyExists.
	Create(ctx context.Context, patient *models.Patient) error

	// Update overwrites the profile fields (not the password or image).
	Update(ctx context.Context, patient *models.Patient) error

	UpdatePassword(ctx context.Context, dni string, hash []byte) error
	UpdateImage(ctx context.Context, dni string, imageURL string) error
	Delete(ctx context.Context, dni string) error

	// GetPasswordHash returns the stored bcrypt hash or common.ErrorNotFound.
	GetPasswordHash(ctx context.Context, dni string) ([]byte, error)
}
