package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var errRemote = errors.New("remote call failed")

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(title, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, title)
}

func (n *recordingNotifier) Error(title, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, title)
}

func (n *recordingNotifier) lastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.errors) == 0 {
		return ""
	}
	return n.errors[len(n.errors)-1]
}

// fakeStudentRepo is an in-memory StudentRepository.
type fakeStudentRepo struct {
	students []model.Student
	failList bool
	failMut  bool
}

func (r *fakeStudentRepo) ListStudents(ctx context.Context) ([]model.Student, error) {
	if r.failList {
		return nil, errRemote
	}
	out := make([]model.Student, len(r.students))
	copy(out, r.students)
	return out, nil
}

func (r *fakeStudentRepo) CreateStudent(ctx context.Context, s *model.Student) error {
	if r.failMut {
		return errRemote
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.students = append(r.students, *s)
	return nil
}

func (r *fakeStudentRepo) UpdateStudent(ctx context.Context, id string, upd repository.StudentUpdate) (*model.Student, error) {
	if r.failMut {
		return nil, errRemote
	}
	for i := range r.students {
		if r.students[i].ID != id {
			continue
		}
		if upd.Name != nil {
			r.students[i].Name = *upd.Name
		}
		if upd.Age != nil {
			r.students[i].Age = *upd.Age
		}
		if upd.City != nil {
			r.students[i].City = *upd.City
		}
		r.students[i].UpdatedAt = time.Now()
		s := r.students[i]
		return &s, nil
	}
	return nil, repository.ErrStudentNotFound
}

func (r *fakeStudentRepo) DeleteStudent(ctx context.Context, id string) error {
	if r.failMut {
		return errRemote
	}
	r.students = removeWhere(r.students, func(s model.Student) bool { return s.ID == id })
	return nil
}

func (r *fakeStudentRepo) GetStudentByUserID(ctx context.Context, userID string) (*model.Student, error) {
	if r.failList {
		return nil, errRemote
	}
	for _, s := range r.students {
		if s.UserID.Valid && s.UserID.String == userID {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

// fakeCourseRepo is an in-memory CourseRepository.
type fakeCourseRepo struct {
	courses  []model.Course
	failList bool
	failMut  bool
}

func (r *fakeCourseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	if r.failList {
		return nil, errRemote
	}
	out := make([]model.Course, len(r.courses))
	copy(out, r.courses)
	return out, nil
}

func (r *fakeCourseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	if r.failMut {
		return errRemote
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.courses = append(r.courses, *c)
	return nil
}

func (r *fakeCourseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	for _, c := range r.courses {
		if c.ID == courseID {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeCourseRepo) UpdateCourse(ctx context.Context, courseID string, upd repository.CourseUpdate) (*model.Course, error) {
	if r.failMut {
		return nil, errRemote
	}
	for i := range r.courses {
		if r.courses[i].ID != courseID {
			continue
		}
		if upd.Title != nil {
			r.courses[i].Title = *upd.Title
		}
		if upd.Description != nil {
			r.courses[i].Description = *upd.Description
		}
		r.courses[i].UpdatedAt = time.Now()
		c := r.courses[i]
		return &c, nil
	}
	return nil, repository.ErrCourseNotFound
}

func (r *fakeCourseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	if r.failMut {
		return errRemote
	}
	r.courses = removeWhere(r.courses, func(c model.Course) bool { return c.ID == courseID })
	return nil
}

// fakeEnrollmentRepo enforces the (user, course) uniqueness the real table
// carries, surfacing duplicates as a pgconn unique violation. It counts list
// calls so tests can assert predicates stay local.
type fakeEnrollmentRepo struct {
	enrollments []model.Enrollment
	listCalls   int
	failList    bool
	failMut     bool
}

func (r *fakeEnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	r.listCalls++
	if r.failList {
		return nil, errRemote
	}
	var out []model.Enrollment
	for _, e := range r.enrollments {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	if out == nil {
		out = []model.Enrollment{}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) ListAll(ctx context.Context) ([]model.Enrollment, error) {
	r.listCalls++
	if r.failList {
		return nil, errRemote
	}
	out := make([]model.Enrollment, len(r.enrollments))
	copy(out, r.enrollments)
	return out, nil
}

func (r *fakeEnrollmentRepo) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	if r.failMut {
		return errRemote
	}
	for _, existing := range r.enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return uniqueViolation()
		}
	}
	e.ID = uuid.NewString()
	e.EnrolledAt = time.Now()
	r.enrollments = append(r.enrollments, *e)
	return nil
}

func (r *fakeEnrollmentRepo) DeleteEnrollment(ctx context.Context, id string) error {
	if r.failMut {
		return errRemote
	}
	r.enrollments = removeWhere(r.enrollments, func(e model.Enrollment) bool { return e.ID == id })
	return nil
}

func (r *fakeEnrollmentRepo) DeleteEnrollmentForUser(ctx context.Context, id, userID string) error {
	if r.failMut {
		return errRemote
	}
	r.enrollments = removeWhere(r.enrollments, func(e model.Enrollment) bool {
		return e.ID == id && e.UserID == userID
	})
	return nil
}

// fakeContentRepo is an in-memory ContentRepository.
type fakeContentRepo struct {
	contents   []model.CourseContent
	failList   bool
	failCreate bool
	failDelete bool
}

func (r *fakeContentRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error) {
	if r.failList {
		return nil, errRemote
	}
	var out []model.CourseContent
	for _, c := range r.contents {
		if c.CourseID == courseID {
			out = append(out, c)
		}
	}
	if out == nil {
		out = []model.CourseContent{}
	}
	return out, nil
}

func (r *fakeContentRepo) CreateContent(ctx context.Context, c *model.CourseContent) error {
	if r.failCreate {
		return errRemote
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.contents = append(r.contents, *c)
	return nil
}

func (r *fakeContentRepo) DeleteContent(ctx context.Context, id string) error {
	if r.failDelete {
		return errRemote
	}
	r.contents = removeWhere(r.contents, func(c model.CourseContent) bool { return c.ID == id })
	return nil
}

func (r *fakeContentRepo) DeleteByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error) {
	if r.failDelete {
		return nil, errRemote
	}
	var removed []model.CourseContent
	for _, c := range r.contents {
		if c.CourseID == courseID {
			removed = append(removed, c)
		}
	}
	r.contents = removeWhere(r.contents, func(c model.CourseContent) bool { return c.CourseID == courseID })
	return removed, nil
}

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	profiles []model.Profile
	fail     bool
}

func (r *fakeProfileRepo) ListStudentProfiles(ctx context.Context) ([]model.Profile, error) {
	if r.fail {
		return nil, errRemote
	}
	out := make([]model.Profile, len(r.profiles))
	copy(out, r.profiles)
	return out, nil
}

// fakeObjectStore records puts and removes; failPut simulates a storage
// outage before any row exists.
type fakeObjectStore struct {
	objects    map[string]string // bucket/path -> content type
	failPut    bool
	failRemove bool
	removed    []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]string)}
}

func (o *fakeObjectStore) Put(ctx context.Context, bucket, path string, body io.Reader, contentType string) (string, error) {
	if o.failPut {
		return "", errRemote
	}
	key := bucket + "/" + path
	o.objects[key] = contentType
	return fmt.Sprintf("https://storage.example.com/object/public/%s", key), nil
}

func (o *fakeObjectStore) Remove(ctx context.Context, bucket, path string) error {
	key := bucket + "/" + path
	o.removed = append(o.removed, key)
	if o.failRemove {
		return errRemote
	}
	delete(o.objects, key)
	return nil
}
