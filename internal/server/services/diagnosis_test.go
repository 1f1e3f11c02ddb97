package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/logging"
	"github.com/dmitrijs2005/clinicportal/internal/server/config"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/dmitrijs2005/clinicportal/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	gotKey   string
	gotImage []byte
	out      []models.Prediction
	err      error
}

func (s *stubClassifier) Classify(ctx context.Context, key string, image []byte) ([]models.Prediction, error) {
	s.gotKey, s.gotImage = key, image
	return s.out, s.err
}

// brokenStore maps URLs like MemoryStore but fails every read.
type brokenStore struct {
	*storage.MemoryStore
}

func (brokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection reset")
}

func newDiagnosisService(c Classifier, store storage.Store) *DiagnosisService {
	s := NewDiagnosisService(c, store, &config.Config{ImageFetchTimeout: 5 * time.Second, MaxUploadSize: 1 << 20}, logging.Nop())
	s.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
	return s
}

func seededStore(t *testing.T, key string, data []byte) (*storage.MemoryStore, string) {
	t.Helper()
	st := storage.NewMemoryStore("http://cdn.test/xrays")
	url, err := st.Put(context.Background(), key, data, "image/png")
	require.NoError(t, err)
	return st, url
}

func TestDiagnose_Success(t *testing.T) {
	st, url := seededStore(t, "patients/30111222/2024/03/09/id.png", []byte("image-bytes"))
	c := &stubClassifier{out: []models.Prediction{
		{Label: "pneumonia", Probability: 0.7},
		{Label: "normal", Probability: 0.3},
	}}
	s := newDiagnosisService(c, st)
	p := samplePatient()

	res, err := s.Diagnose(context.Background(), &p, url)
	require.NoError(t, err)

	assert.Equal(t, "general", c.gotKey)
	assert.Equal(t, []byte("image-bytes"), c.gotImage)
	assert.Equal(t, "pneumonia", res.Diagnosis.Label)
	assert.InDelta(t, 70.0, res.Diagnosis.Confidence, 1e-9)
	assert.Equal(t, "Ana Gomez", res.Diagnosis.PatientName)
	assert.Equal(t, url, res.Diagnosis.ImageURL)
	assert.Equal(t, "30111222-2024-03-09-Ana_Gomez.pdf", res.FileName)
	assert.True(t, bytes.HasPrefix(res.PDF, []byte("%PDF-")))
}

func TestDiagnose_OnlyStoredImagesAreRead(t *testing.T) {
	st, _ := seededStore(t, "patients/30111222/2024/03/09/id.png", []byte("image-bytes"))
	p := samplePatient()

	for _, raw := range []string{
		"/img.png",
		"ftp://cdn.test/xrays/patients/30111222/2024/03/09/id.png",
		"http://169.254.169.254/latest/meta-data/",
		"http://localhost:9000/xrays/patients/30111222/2024/03/09/id.png",
		"http://cdn.test/other/patients/30111222/2024/03/09/id.png",
		"http://cdn.test/xrays/patients/30111222/../40111222/id.png",
	} {
		c := &stubClassifier{}
		_, err := newDiagnosisService(c, st).Diagnose(context.Background(), &p, raw)
		assert.ErrorIs(t, err, common.ErrorValidation, raw)
		assert.Nil(t, c.gotImage, raw)
	}
}

func TestDiagnose_Errors(t *testing.T) {
	st, url := seededStore(t, "patients/30111222/2024/03/09/id.png", []byte("image-bytes"))
	other, otherURL := seededStore(t, "patients/40111222/2024/03/09/id.png", []byte("image-bytes"))
	p := samplePatient()

	tests := []struct {
		name  string
		store storage.Store
		url   string
		c     *stubClassifier
		want  error
	}{
		{"another patient's image", other, otherURL, &stubClassifier{}, common.ErrorNotFound},
		{"missing object", st, "http://cdn.test/xrays/patients/30111222/2024/03/09/gone.png", &stubClassifier{}, common.ErrorNotFound},
		{"store failure", brokenStore{st}, url, &stubClassifier{}, common.ErrorUpstream},
		{"not an image", st, url, &stubClassifier{err: common.ErrorInvalidImage}, common.ErrorInvalidImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newDiagnosisService(tt.c, tt.store).Diagnose(context.Background(), &p, tt.url)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDiagnose_ImageTooLarge(t *testing.T) {
	st, url := seededStore(t, "patients/30111222/big.png", bytes.Repeat([]byte("x"), 64))
	c := &stubClassifier{}
	s := newDiagnosisService(c, st)
	s.maxBytes = 16
	p := samplePatient()

	_, err := s.Diagnose(context.Background(), &p, url)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Nil(t, c.gotImage)
}
