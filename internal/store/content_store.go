package store

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"app/internal/model"
	"app/internal/notify"
	"app/internal/repository"
	"app/internal/storage"

	"github.com/rs/zerolog"
)

// ContentStore owns the cached content list of one course. Uploads are
// two-phase: the file goes to object storage first, and only a successful
// put is followed by the row insert. A failed insert best-effort removes the
// just-stored object so nothing is orphaned.
type ContentStore struct {
	courseID string
	repo     repository.ContentRepository
	objects  storage.ObjectStore
	buckets  Buckets
	notifier notify.Notifier
	logger   zerolog.Logger

	// now stamps upload paths; replaceable in tests.
	now func() time.Time

	mu       sync.RWMutex
	contents []model.CourseContent
	loading  bool
}

// NewContentStore creates a store bound to one course.
func NewContentStore(
	courseID string,
	repo repository.ContentRepository,
	objects storage.ObjectStore,
	buckets Buckets,
	notifier notify.Notifier,
	logger zerolog.Logger,
) *ContentStore {
	return &ContentStore{
		courseID: courseID,
		repo:     repo,
		objects:  objects,
		buckets:  buckets,
		notifier: notifier,
		logger:   logger.With().Str("store", "ContentStore").Str("course_id", courseID).Logger(),
		now:      time.Now,
	}
}

// Contents returns a snapshot of the cached list.
func (s *ContentStore) Contents() []model.CourseContent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CourseContent, len(s.contents))
	copy(out, s.contents)
	return out
}

// Loading reports whether a refetch is in flight.
func (s *ContentStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Get looks a content up in the cached list by id.
func (s *ContentStore) Get(id string) (model.CourseContent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contents {
		if c.ID == id {
			return c, true
		}
	}
	return model.CourseContent{}, false
}

// Refetch replaces the cached list with the course's current contents.
func (s *ContentStore) Refetch(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	contents, err := s.repo.ListByCourse(ctx, s.courseID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch course contents")
		s.notifier.Error("Error fetching course contents", err.Error())
		return err
	}

	s.mu.Lock()
	s.contents = contents
	s.mu.Unlock()
	return nil
}

// Upload stores the file bytes, then inserts the content row pointing at the
// resulting public URL. The path is prefixed with a timestamp to avoid
// collisions between same-named files.
func (s *ContentStore) Upload(ctx context.Context, file io.Reader, fileName, mimeType string, contentType model.ContentType, title string) (*model.CourseContent, error) {
	bucket := s.buckets.For(contentType)
	path := fmt.Sprintf("%s/%d-%s", s.courseID, s.now().UnixMilli(), fileName)

	fileURL, err := s.objects.Put(ctx, bucket, path, file, mimeType)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("Failed to store content file")
		s.notifier.Error("Error uploading content", err.Error())
		return nil, err
	}

	content := model.CourseContent{
		CourseID:    s.courseID,
		ContentType: contentType,
		Title:       title,
		FileURL:     fileURL,
		FileName:    fileName,
	}
	if err := s.repo.CreateContent(ctx, &content); err != nil {
		// The file already landed in storage; try not to leave it orphaned.
		if rmErr := s.objects.Remove(ctx, bucket, path); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("path", path).Msg("Failed to clean up stored file after insert failure")
		}
		s.logger.Error().Err(err).Str("path", path).Msg("Failed to create content row")
		s.notifier.Error("Error uploading content", err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.contents = prependItem(s.contents, content)
	s.mu.Unlock()

	s.notifier.Success("Content uploaded", fmt.Sprintf("%s has been uploaded successfully.", title))
	return &content, nil
}

// Delete removes the stored object best-effort, then deletes the row. The
// cached list drops the item only once the row deletion succeeded.
func (s *ContentStore) Delete(ctx context.Context, content model.CourseContent) error {
	bucket := s.buckets.For(content.ContentType)
	if path := objectPath(content.FileURL, bucket); path != "" {
		if err := s.objects.Remove(ctx, bucket, path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove content object")
		}
	}

	if err := s.repo.DeleteContent(ctx, content.ID); err != nil {
		s.logger.Error().Err(err).Str("content_id", content.ID).Msg("Failed to delete content")
		s.notifier.Error("Error deleting content", err.Error())
		return err
	}

	s.mu.Lock()
	s.contents = removeWhere(s.contents, func(c model.CourseContent) bool { return c.ID == content.ID })
	s.mu.Unlock()

	s.notifier.Success("Content deleted", "Content has been removed successfully.")
	return nil
}

func (s *ContentStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// ContentStores hands out one ContentStore per course, created and fetched
// on first use.
type ContentStores struct {
	repo     repository.ContentRepository
	objects  storage.ObjectStore
	buckets  Buckets
	notifier notify.Notifier
	logger   zerolog.Logger

	mu     sync.Mutex
	stores map[string]*ContentStore
}

// NewContentStores creates the per-course store collection.
func NewContentStores(
	repo repository.ContentRepository,
	objects storage.ObjectStore,
	buckets Buckets,
	notifier notify.Notifier,
	logger zerolog.Logger,
) *ContentStores {
	return &ContentStores{
		repo:     repo,
		objects:  objects,
		buckets:  buckets,
		notifier: notifier,
		logger:   logger,
		stores:   make(map[string]*ContentStore),
	}
}

// ForCourse returns the store bound to a course, fetching its list the first
// time the course shows up.
func (c *ContentStores) ForCourse(ctx context.Context, courseID string) (*ContentStore, error) {
	c.mu.Lock()
	s, ok := c.stores[courseID]
	if !ok {
		s = NewContentStore(courseID, c.repo, c.objects, c.buckets, c.notifier, c.logger)
		c.stores[courseID] = s
	}
	c.mu.Unlock()

	if !ok {
		if err := s.Refetch(ctx); err != nil {
			// Never hand out a store that has not loaded once; drop it so
			// the next call retries the fetch instead of serving an empty
			// list forever.
			c.mu.Lock()
			delete(c.stores, courseID)
			c.mu.Unlock()
			return nil, err
		}
	}
	return s, nil
}
