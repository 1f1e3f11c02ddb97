// Package doctors provides read access to the clinic's doctor records.
package doctors

import (
	"context"

	"github.com/dmitrijs2005/clinicportal/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Doctor, error)
}
