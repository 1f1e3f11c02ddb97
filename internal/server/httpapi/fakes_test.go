package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/server/auth"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/dmitrijs2005/clinicportal/internal/server/services"
)

var testSecret = []byte("test-secret")

// fakePatients keeps patients and plain passwords in memory and issues
// real signed tokens.
type fakePatients struct {
	mu        sync.Mutex
	patients  map[string]models.Patient
	passwords map[string]string
	loginErr  error
	deleteErr error
}

func newFakePatients() *fakePatients {
	return &fakePatients{patients: map[string]models.Patient{}, passwords: map[string]string{}}
}

func (f *fakePatients) add(p models.Patient, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patients[p.DNI] = p
	f.passwords[p.DNI] = password
}

func (f *fakePatients) get(dni string) (models.Patient, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[dni]
	return p, ok
}

func (f *fakePatients) Register(ctx context.Context, r services.Registration) error {
	if r.Password != r.RepPassword {
		return common.ErrorPasswordsMismatch
	}
	if _, err := auth.HashPassword(r.Password); err != nil {
		return err
	}
	if _, ok := f.get(r.Patient.DNI); ok {
		return common.ErrorAlreadyExists
	}
	f.add(r.Patient, r.Password)
	return nil
}

func (f *fakePatients) Login(ctx context.Context, dni, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if _, ok := f.get(dni); !ok {
		return "", common.ErrorNotFound
	}
	if !f.check(dni, password) {
		return "", common.ErrorUnauthorized
	}
	return auth.GenerateToken(dni, testSecret, time.Hour)
}

func (f *fakePatients) Authenticate(ctx context.Context, token string) (*models.Patient, error) {
	dni, err := auth.GetPatientIDFromToken(token, testSecret)
	if err != nil {
		return nil, err
	}
	p, ok := f.get(dni)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (f *fakePatients) check(dni, password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	pw, ok := f.passwords[dni]
	return ok && pw == password
}

func (f *fakePatients) UpdateAccount(ctx context.Context, p *models.Patient, currentPassword string) error {
	if !f.check(p.DNI, currentPassword) {
		return common.ErrorIncorrectPassword
	}
	f.mu.Lock()
	f.patients[p.DNI] = *p
	f.mu.Unlock()
	return nil
}

func (f *fakePatients) ChangePassword(ctx context.Context, dni, currentPassword, newPassword, repNewPassword string) error {
	if newPassword != repNewPassword {
		return common.ErrorPasswordsMismatch
	}
	if !f.check(dni, currentPassword) {
		return common.ErrorIncorrectPassword
	}
	if _, err := auth.HashPassword(newPassword); err != nil {
		return err
	}
	f.mu.Lock()
	f.passwords[dni] = newPassword
	f.mu.Unlock()
	return nil
}

func (f *fakePatients) DeleteAccount(ctx context.Context, dni, currentPassword string) error {
	if !f.check(dni, currentPassword) {
		return common.ErrorIncorrectPassword
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	delete(f.patients, dni)
	delete(f.passwords, dni)
	f.mu.Unlock()
	return nil
}

type fakeDoctors struct {
	out []*models.Doctor
	err error
}

func (f *fakeDoctors) List(ctx context.Context) ([]*models.Doctor, error) { return f.out, f.err }

type uploadCall struct {
	dni, filename string
	data          []byte
	attach        bool
}

type fakeImages struct {
	calls []uploadCall
	err   error
}

func (f *fakeImages) Upload(ctx context.Context, dni, filename string, data []byte, attach bool) (string, error) {
	f.calls = append(f.calls, uploadCall{dni, filename, data, attach})
	if f.err != nil {
		return "", f.err
	}
	return "http://cdn/" + dni + "/" + filename, nil
}

type fakeContact struct {
	got []models.ContactMessage
}

func (f *fakeContact) Send(ctx context.Context, m models.ContactMessage) error {
	f.got = append(f.got, m)
	return nil
}

type fakeDiagnosis struct {
	gotPatient *models.Patient
	gotURL     string
	err        error
}

func (f *fakeDiagnosis) Diagnose(ctx context.Context, p *models.Patient, imageURL string) (*services.DiagnosisResult, error) {
	f.gotPatient, f.gotURL = p, imageURL
	if f.err != nil {
		return nil, f.err
	}
	return &services.DiagnosisResult{
		Diagnosis: models.Diagnosis{PatientDNI: p.DNI, Label: "pneumonia", Confidence: 70},
		FileName:  p.DNI + "-2024-03-09-Ana_Gomez.pdf",
		PDF:       []byte("%PDF-1.3 fake"),
	}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

type fakeModels map[string]bool

func (f fakeModels) Ready(key string) bool { return f[key] }
