package patients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/dbx"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE reported for a duplicate primary key.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Find(ctx context.Context, dni string) (*models.Patient, error) {
	query :=
		`SELECT dni, first_name, last_name, email, phone_number, date_birth, nationality,
		        province, locality, postal_code, address, gender, image_patient, created_at
		 FROM patients
		 WHERE dni = $1`

	p := &models.Patient{}
	err := r.db.QueryRowContext(ctx, query, dni).Scan(
		&p.DNI, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.BirthDate, &p.Nationality,
		&p.Province, &p.Locality, &p.PostalCode, &p.Address, &p.Gender, &p.ImagePatient, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Patient) error {
	query :=
		`INSERT INTO patients (dni, first_name, last_name, password_hash, email, phone_number, date_birth,
		                       nationality, province, locality, postal_code, address, gender)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		p.DNI, p.FirstName, p.LastName, p.PasswordHash, p.Email, p.Phone, p.BirthDate,
		p.Nationality, p.Province, p.Locality, p.PostalCode, p.Address, p.Gender)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Patient) error {
	query :=
		`UPDATE patients
		 SET first_name = $2, last_name = $3, email = $4, phone_number = $5, date_birth = $6,
		     nationality = $7, province = $8, locality = $9, postal_code = $10, address = $11, gender = $12
		 WHERE dni = $1`

	res, err := r.db.ExecContext(ctx, query,
		p.DNI, p.FirstName, p.LastName, p.Email, p.Phone, p.BirthDate,
		p.Nationality, p.Province, p.Locality, p.PostalCode, p.Address, p.Gender)
	return affectedOne(res, err)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, dni string, hash []byte) error {
	query := `UPDATE patients SET password_hash = $2 WHERE dni = $1`

	res, err := r.db.ExecContext(ctx, query, dni, hash)
	return affectedOne(res, err)
}

func (r *PostgresRepository) UpdateImage(ctx context.Context, dni string, imageURL string) error {
	query := `UPDATE patients SET image_patient = $2 WHERE dni = $1`

	res, err := r.db.ExecContext(ctx, query, dni, imageURL)
	return affectedOne(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, dni string) error {
	query := `DELETE FROM patients WHERE dni = $1`

	res, err := r.db.ExecContext(ctx, query, dni)
	return affectedOne(res, err)
}

func (r *PostgresRepository) GetPasswordHash(ctx context.Context, dni string) ([]byte, error) {
	query := `SELECT password_hash FROM patients WHERE dni = $1`

	var hash []byte
	if err := r.db.QueryRowContext(ctx, query, dni).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return hash, nil
}

// affectedOne turns a zero-row write into common.ErrorNotFound.
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
