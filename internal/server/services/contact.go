package services

import (
	"context"

	"github.com/dmitrijs2005/clinicportal/internal/logging"
	"github.com/dmitrijs2005/clinicportal/internal/server/models"
)

// ContactService accepts messages from the public contact form. Messages
// are logged and not stored.
type ContactService struct {
	logger logging.Logger
}

func NewContactService(logger logging.Logger) *ContactService {
	return &ContactService{logger: logger}
}

func (s *ContactService) Send(ctx context.Context, m models.ContactMessage) error {
	s.logger.Info(ctx, "contact message received",
		"email", m.Email,
		"subject", m.Subject,
		"name", m.FirstName+" "+m.LastName,
		"length", len(m.Message),
	)
	return nil
}
