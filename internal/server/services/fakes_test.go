package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/dbx"
	"github.com/dmitrijs2005/clinicportal/internal/server/auth"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/doctors"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/patients"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakePatientsRepo is an in-memory patients.Repository.
type fakePatientsRepo struct {
	mu   sync.Mutex
	rows map[string]models.Patient

	findErr   error
	createErr error
	updateErr error
	deleteErr error
}

func newFakePatientsRepo() *fakePatientsRepo {
	return &fakePatientsRepo{rows: make(map[string]models.Patient)}
}

// seed stores p with a bcrypt hash of password.
func (f *fakePatientsRepo) seed(t *testing.T, p models.Patient, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	p.PasswordHash = hash
	f.mu.Lock()
	f.rows[p.DNI] = p
	f.mu.Unlock()
}

func (f *fakePatientsRepo) get(dni string) (models.Patient, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[dni]
	return p, ok
}

func (f *fakePatientsRepo) Find(ctx context.Context, dni string) (*models.Patient, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.get(dni)
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.PasswordHash = nil
	return &p, nil
}

func (f *fakePatientsRepo) Create(ctx context.Context, p *models.Patient) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p.DNI]; ok {
		return common.ErrorAlreadyExists
	}
	f.rows[p.DNI] = *p
	return nil
}

func (f *fakePatientsRepo) Update(ctx context.Context, p *models.Patient) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[p.DNI]
	if !ok {
		return common.ErrorNotFound
	}
	next := *p
	next.PasswordHash = cur.PasswordHash
	next.ImagePatient = cur.ImagePatient
	f.rows[p.DNI] = next
	return nil
}

func (f *fakePatientsRepo) UpdatePassword(ctx context.Context, dni string, hash []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[dni]
	if !ok {
		return common.ErrorNotFound
	}
	cur.PasswordHash = hash
	f.rows[dni] = cur
	return nil
}

func (f *fakePatientsRepo) UpdateImage(ctx context.Context, dni string, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[dni]
	if !ok {
		return common.ErrorNotFound
	}
	cur.ImagePatient = url
	f.rows[dni] = cur
	return nil
}

func (f *fakePatientsRepo) Delete(ctx context.Context, dni string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[dni]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, dni)
	return nil
}

func (f *fakePatientsRepo) GetPasswordHash(ctx context.Context, dni string) ([]byte, error) {
	p, ok := f.get(dni)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p.PasswordHash, nil
}

type fakeDoctorsRepo struct {
	out []*models.Doctor
	err error
}

func (f *fakeDoctorsRepo) List(ctx context.Context) ([]*models.Doctor, error) {
	return f.out, f.err
}

type fakeRepoManager struct {
	p *fakePatientsRepo
	d *fakeDoctorsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Patients(db dbx.DBTX) patients.Repository    { return m.p }
func (m *fakeRepoManager) Doctors(db dbx.DBTX) doctors.Repository      { return m.d }

func samplePatient() models.Patient {
	return models.Patient{
		DNI:         "30111222",
		FirstName:   "Ana",
		LastName:    "Gomez",
		Email:       "ana@example.com",
		Phone:       "1155550000",
		BirthDate:   "1990-04-01",
		Nationality: "Argentina",
		Province:    "Cordoba",
		Locality:    "Cordoba",
		PostalCode:  "5000",
		Address:     "San Martin 100",
		Gender:      "F",
	}
}
