package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/clinicportal/internal/common"
	"github.com/dmitrijs2005/clinicportal/internal/logging"
	"github.com/dmitrijs2005/clinicportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/clinicportal/internal/server/storage"
	"github.com/google/uuid"
)

// ImageService stores patient images in object storage.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	logger      logging.Logger
	now         func() time.Time
	newID       func() string
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, store storage.Store, logger logging.Logger) *ImageService {
	return &ImageService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Upload stores data for patient dni and returns its public URL. When
// attachToProfile is set the URL also becomes the patient's profile image.
// Non-image payloads yield common.ErrorValidation and storage failures
// common.ErrorUpstream.
func (s *ImageService) Upload(ctx context.Context, dni, filename string, data []byte, attachToProfile bool) (string, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: unsupported content type %s", common.ErrorValidation, contentType)
	}

	repo := s.repomanager.Patients(s.db)
	if _, err := repo.Find(ctx, dni); err != nil {
		return "", err
	}

	key := s.objectKey(dni, filename)
	url, err := s.store.Put(ctx, key, data, contentType)
	if err != nil {
		s.logger.Error(ctx, "image upload failed", "dni", dni, "key", key, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrorUpstream, err)
	}

	if attachToProfile {
		if err := repo.UpdateImage(ctx, dni, url); err != nil {
			return "", fmt.Errorf("error updating profile image: %w", err)
		}
	}

	s.logger.Info(ctx, "image uploaded", "dni", dni, "key", key, "profile", attachToProfile)
	return url, nil
}

// objectKey returns patients/<dni>/<yyyy>/<mm>/<dd>/<uuid><ext>.
func (s *ImageService) objectKey(dni, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 6 || strings.ContainsAny(ext, " /") {
		ext = ""
	}
	return fmt.Sprintf("%s%s/%s%s", patientPrefix(dni), s.now().UTC().Format("2006/01/02"), s.newID(), ext)
}

// patientPrefix is the key prefix holding every image of one patient.
func patientPrefix(dni string) string {
	return "patients/" + keySegment(dni) + "/"
}

// keySegment replaces anything but letters, digits, '-' and '_' with '_'.
func keySegment(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
