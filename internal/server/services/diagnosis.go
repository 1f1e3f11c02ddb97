package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/logging"
	"github.com/dmitrijs2005/clinicportal/internal/server/config"
	"github.com/dmitrijs2005/clinicportal/internal/server/inference"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
	"github.com/dmitrijs2005/clinicportal/internal/server/report"
	"github.com/dmitrijs2005/clinicportal/internal/server/storage"
)

// Classifier runs a named model against an encoded image.
type Classifier interface {
	Classify(ctx context.Context, key string, image []byte) ([]models.Prediction, error)
}

// DiagnosisResult is what the diagnosis endpoint streams back. Nothing in
// it is persisted.
type DiagnosisResult struct {
	Diagnosis models.Diagnosis
	FileName  string
	PDF       []byte
}

type DiagnosisService struct {
	classifier   Classifier
	store        storage.Store
	fetchTimeout time.Duration
	maxBytes     int64
	logger       logging.Logger
	now          func() time.Time
}

func NewDiagnosisService(classifier Classifier, store storage.Store, cfg *config.Config, logger logging.Logger) *DiagnosisService {
	return &DiagnosisService{
		classifier:   classifier,
		store:        store,
		fetchTimeout: cfg.ImageFetchTimeout,
		maxBytes:     cfg.MaxUploadSize,
		logger:       logger,
		now:          time.Now,
	}
}

// Diagnose reads the uploaded image behind imageURL, classifies it with the
// general model and renders the report for patient. Only URLs returned by
// the image upload endpoints are accepted, and only for the patient's own
// images.
func (s *DiagnosisService) Diagnose(ctx context.Context, patient *models.Patient, imageURL string) (*DiagnosisResult, error) {
	key, ok := s.store.Key(imageURL)
	if !ok {
		return nil, fmt.Errorf("%w: image_url is not an uploaded image", common.ErrorValidation)
	}
	if !strings.HasPrefix(key, patientPrefix(patient.DNI)) {
		return nil, fmt.Errorf("%w: image", common.ErrorNotFound)
	}

	img, err := s.readImage(ctx, key)
	if err != nil {
		return nil, err
	}

	preds, err := s.classifier.Classify(ctx, inference.GeneralModel, img)
	if err != nil {
		return nil, err
	}

	date := s.now()
	name := patient.FullName()

	rep, err := report.Build(name, date, preds)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	s.logger.Info(ctx, "diagnosis produced", "dni", patient.DNI, "label", rep.Label, "summary", rep.Summary)

	return &DiagnosisResult{
		Diagnosis: models.Diagnosis{
			PatientDNI:  patient.DNI,
			PatientName: name,
			Date:        date,
			ImageURL:    imageURL,
			Model:       inference.GeneralModel,
			Label:       rep.Label,
			Confidence:  rep.Confidence,
			Predictions: preds,
		},
		FileName: report.FileName(patient.DNI, date, name),
		PDF:      rep.PDF,
	}, nil
}

func (s *DiagnosisService) readImage(ctx context.Context, key string) ([]byte, error) {
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	data, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "image read failed", "key", key, "error", err)
		if errors.Is(err, storage.ErrNoObject) {
			return nil, fmt.Errorf("%w: image", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorUpstream, err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: image too large", common.ErrorValidation)
	}
	return data, nil
}
