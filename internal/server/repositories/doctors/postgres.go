package doctors

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/clinicportal/internal/dbx"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every doctor ordered by last name. An empty table yields an
// empty, non-nil slice.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Doctor, error) {
	query :=
		`SELECT dni, first_name, last_name, speciality, email, gender
		 FROM doctors
		 ORDER BY last_name, first_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Doctor, 0)
	for rows.Next() {
		d := &models.Doctor{}
		if err := rows.Scan(&d.DNI, &d.FirstName, &d.LastName, &d.Speciality, &d.Email, &d.Gender); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
