package store

import (
	"context"
	"fmt"
	"sync"

	"app/internal/model"
	"app/internal/notify"
	"app/internal/repository"
	"app/internal/storage"

	"github.com/rs/zerolog"
)

// CourseStore owns the cached course catalog. Deleting a course cascades to
// its content rows and best-effort removes their stored objects, so no
// orphaned files are left behind.
type CourseStore struct {
	repo     repository.CourseRepository
	contents repository.ContentRepository
	objects  storage.ObjectStore
	buckets  Buckets
	notifier notify.Notifier
	logger   zerolog.Logger

	mu      sync.RWMutex
	courses []model.Course
	loading bool
}

// NewCourseStore creates a new CourseStore
func NewCourseStore(
	repo repository.CourseRepository,
	contents repository.ContentRepository,
	objects storage.ObjectStore,
	buckets Buckets,
	notifier notify.Notifier,
	logger zerolog.Logger,
) *CourseStore {
	return &CourseStore{
		repo:     repo,
		contents: contents,
		objects:  objects,
		buckets:  buckets,
		notifier: notifier,
		logger:   logger.With().Str("store", "CourseStore").Logger(),
	}
}

// Courses returns a snapshot of the cached catalog.
func (s *CourseStore) Courses() []model.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// Loading reports whether a refetch is in flight.
func (s *CourseStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Refetch replaces the cached catalog with the current remote state.
func (s *CourseStore) Refetch(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch courses")
		s.notifier.Error("Error fetching courses", err.Error())
		return err
	}

	s.mu.Lock()
	s.courses = courses
	s.mu.Unlock()
	return nil
}

// Create inserts a course and prepends the canonical returned row.
func (s *CourseStore) Create(ctx context.Context, course model.Course) (*model.Course, error) {
	if err := s.repo.CreateCourse(ctx, &course); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create course")
		s.notifier.Error("Error creating course", err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.courses = prependItem(s.courses, course)
	s.mu.Unlock()

	s.notifier.Success("Course created", fmt.Sprintf("%s has been added successfully.", course.Title))
	return &course, nil
}

// Update applies partial fields and replaces the matching cached item.
func (s *CourseStore) Update(ctx context.Context, id string, upd repository.CourseUpdate) (*model.Course, error) {
	updated, err := s.repo.UpdateCourse(ctx, id, upd)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", id).Msg("Failed to update course")
		s.notifier.Error("Error updating course", err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.courses = replaceWhere(s.courses, func(c model.Course) bool { return c.ID == id }, *updated)
	s.mu.Unlock()

	s.notifier.Success("Course updated", "Course has been updated successfully.")
	return updated, nil
}

// Delete removes the course's contents and their stored objects, then the
// course row itself, and finally filters the course out of the cached list.
// Object removal is best-effort; a missing object never blocks the delete.
func (s *CourseStore) Delete(ctx context.Context, id string) error {
	removed, err := s.contents.DeleteByCourse(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", id).Msg("Failed to delete course contents")
		s.notifier.Error("Error deleting course", err.Error())
		return err
	}

	for _, content := range removed {
		bucket := s.buckets.For(content.ContentType)
		path := objectPath(content.FileURL, bucket)
		if path == "" {
			continue
		}
		if err := s.objects.Remove(ctx, bucket, path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove content object during cascade")
		}
	}

	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("course_id", id).Msg("Failed to delete course")
		s.notifier.Error("Error deleting course", err.Error())
		return err
	}

	s.mu.Lock()
	s.courses = removeWhere(s.courses, func(c model.Course) bool { return c.ID == id })
	s.mu.Unlock()

	s.notifier.Success("Course deleted", "Course has been removed successfully.")
	return nil
}

func (s *CourseStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
