package clock

import (
	"time"

	"reactor.de/certprofile/internal/domain"
)

// Service implements the Clock interface for real time operations.
type Service struct{}

// NewService creates a new real clock service.
func NewService() domain.Clock {
	return &Service{}
}

// Now returns the current time in UTC.
func (s *Service) Now() time.Time {
	return now().UTC()
}
