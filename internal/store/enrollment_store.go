package store

import (
	"context"
	"sync"

	"app/internal/model"
	"app/internal/notify"
	"app/internal/repository"
	"app/internal/session"

	"github.com/rs/zerolog"
)

// EnrollmentStore is the student-facing view of the enrollments join table,
// scoped to one authenticated user.
type EnrollmentStore struct {
	repo     repository.EnrollmentRepository
	notifier notify.Notifier
	logger   zerolog.Logger
	userID   string

	mu          sync.RWMutex
	enrollments []model.Enrollment
	loading     bool
}

// NewEnrollmentStore creates a store bound to sess's user.
func NewEnrollmentStore(repo repository.EnrollmentRepository, notifier notify.Notifier, logger zerolog.Logger, sess *session.Session) *EnrollmentStore {
	userID := ""
	if sess != nil {
		userID = sess.UserID
	}
	return &EnrollmentStore{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With().Str("store", "EnrollmentStore").Str("user_id", userID).Logger(),
		userID:   userID,
	}
}

// Enrollments returns a snapshot of the cached list.
func (s *EnrollmentStore) Enrollments() []model.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Enrollment, len(s.enrollments))
	copy(out, s.enrollments)
	return out
}

// Loading reports whether a refetch is in flight.
func (s *EnrollmentStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Refetch replaces the cached list with the user's current enrollments.
func (s *EnrollmentStore) Refetch(ctx context.Context) error {
	if s.userID == "" {
		return ErrNotAuthenticated
	}

	s.setLoading(true)
	defer s.setLoading(false)

	enrollments, err := s.repo.ListByUser(ctx, s.userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch enrollments")
		s.notifier.Error("Error fetching enrollments", err.Error())
		return err
	}

	s.mu.Lock()
	s.enrollments = enrollments
	s.mu.Unlock()
	return nil
}

// Enroll inserts a join row for the store's user and prepends the canonical
// returned row. A duplicate (user, course) pair comes back as
// ErrAlreadyEnrolled with its own user-facing message.
func (s *EnrollmentStore) Enroll(ctx context.Context, courseID string) (*model.Enrollment, error) {
	if s.userID == "" {
		return nil, ErrNotAuthenticated
	}

	enrollment := model.Enrollment{UserID: s.userID, CourseID: courseID}
	if err := s.repo.CreateEnrollment(ctx, &enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			s.notifier.Error("Already enrolled", "You are already enrolled in this course.")
			return nil, ErrAlreadyEnrolled
		}
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to enroll")
		s.notifier.Error("Error enrolling", err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.enrollments = prependItem(s.enrollments, enrollment)
	s.mu.Unlock()

	s.notifier.Success("Enrolled successfully", "You have been enrolled in the course.")
	return &enrollment, nil
}

// Unenroll deletes one of the user's own join rows by its id, then filters
// it out of the list. Rows belonging to other users are out of reach.
func (s *EnrollmentStore) Unenroll(ctx context.Context, enrollmentID string) error {
	if s.userID == "" {
		return ErrNotAuthenticated
	}
	if err := s.repo.DeleteEnrollmentForUser(ctx, enrollmentID, s.userID); err != nil {
		s.logger.Error().Err(err).Str("enrollment_id", enrollmentID).Msg("Failed to unenroll")
		s.notifier.Error("Error unenrolling", err.Error())
		return err
	}

	s.mu.Lock()
	s.enrollments = removeWhere(s.enrollments, func(e model.Enrollment) bool { return e.ID == enrollmentID })
	s.mu.Unlock()

	s.notifier.Success("Unenrolled", "You have been unenrolled from the course.")
	return nil
}

// IsEnrolled is a pure scan over the cached list; no remote call.
func (s *EnrollmentStore) IsEnrolled(courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.enrollments {
		if e.CourseID == courseID {
			return true
		}
	}
	return false
}

func (s *EnrollmentStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// EnrollmentStores hands out one EnrollmentStore per user, created and
// fetched on first use.
type EnrollmentStores struct {
	repo     repository.EnrollmentRepository
	notifier notify.Notifier
	logger   zerolog.Logger

	mu     sync.Mutex
	stores map[string]*EnrollmentStore
}

// NewEnrollmentStores creates the per-user store collection.
func NewEnrollmentStores(repo repository.EnrollmentRepository, notifier notify.Notifier, logger zerolog.Logger) *EnrollmentStores {
	return &EnrollmentStores{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		stores:   make(map[string]*EnrollmentStore),
	}
}

// ForUser returns the store bound to sess's user, fetching its list the
// first time the user shows up.
func (c *EnrollmentStores) ForUser(ctx context.Context, sess *session.Session) (*EnrollmentStore, error) {
	if sess == nil || sess.UserID == "" {
		return nil, ErrNotAuthenticated
	}

	c.mu.Lock()
	s, ok := c.stores[sess.UserID]
	if !ok {
		s = NewEnrollmentStore(c.repo, c.notifier, c.logger, sess)
		c.stores[sess.UserID] = s
	}
	c.mu.Unlock()

	if !ok {
		if err := s.Refetch(ctx); err != nil {
			// Never hand out a store that has not loaded once; drop it so
			// the next call retries the fetch instead of serving an empty
			// list forever.
			c.mu.Lock()
			delete(c.stores, sess.UserID)
			c.mu.Unlock()
			return nil, err
		}
	}
	return s, nil
}
