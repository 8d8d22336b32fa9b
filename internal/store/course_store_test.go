package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

func newTestCourseStore(courses *fakeCourseRepo, contents *fakeContentRepo, objects *fakeObjectStore, notifier *recordingNotifier) *CourseStore {
	return NewCourseStore(courses, contents, objects, testBuckets(), notifier, zerolog.Nop())
}

func TestCourseCreatePrependsCanonicalRow(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := newTestCourseStore(repo, &fakeContentRepo{}, newFakeObjectStore(), &recordingNotifier{})

	first, err := s.Create(context.Background(), model.Course{Title: "Algebra"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := s.Create(context.Background(), model.Course{Title: "Geometry", Description: "Shapes"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	courses := s.Courses()
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
	if courses[0].ID != second.ID || courses[1].ID != first.ID {
		t.Error("expected newest course first")
	}
}

func TestCourseUpdateReplacesInPlace(t *testing.T) {
	repo := &fakeCourseRepo{}
	s := newTestCourseStore(repo, &fakeContentRepo{}, newFakeObjectStore(), &recordingNotifier{})

	created, _ := s.Create(context.Background(), model.Course{Title: "Algebra"})

	title := "Linear Algebra"
	updated, err := s.Update(context.Background(), created.ID, repository.CourseUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Linear Algebra" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}

	courses := s.Courses()
	if len(courses) != 1 || courses[0].Title != "Linear Algebra" {
		t.Error("expected cached course replaced in place")
	}
}

func TestCourseDeleteCascadesThroughContents(t *testing.T) {
	courses := &fakeCourseRepo{}
	contents := &fakeContentRepo{}
	objects := newFakeObjectStore()
	s := newTestCourseStore(courses, contents, objects, &recordingNotifier{})

	created, _ := s.Create(context.Background(), model.Course{Title: "Algebra"})

	contentStore := NewContentStore(created.ID, contents, objects, testBuckets(), &recordingNotifier{}, zerolog.Nop())
	if _, err := contentStore.Upload(context.Background(), strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if _, err := contentStore.Upload(context.Background(), strings.NewReader("bytes"), "week1.pdf", "application/pdf", model.ContentTypeNotes, "Week 1"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if len(contents.contents) != 0 {
		t.Errorf("expected content rows removed with the course, got %d", len(contents.contents))
	}
	if len(objects.objects) != 0 {
		t.Errorf("expected stored objects removed with the course, have %v", objects.objects)
	}
	if len(courses.courses) != 0 {
		t.Error("expected course row deleted")
	}
	if got := len(s.Courses()); got != 0 {
		t.Errorf("expected cached list emptied, got %d items", got)
	}
}

func TestCourseDeleteToleratesObjectRemovalFailure(t *testing.T) {
	courses := &fakeCourseRepo{}
	contents := &fakeContentRepo{}
	objects := newFakeObjectStore()
	s := newTestCourseStore(courses, contents, objects, &recordingNotifier{})

	created, _ := s.Create(context.Background(), model.Course{Title: "Algebra"})

	contentStore := NewContentStore(created.ID, contents, objects, testBuckets(), &recordingNotifier{}, zerolog.Nop())
	if _, err := contentStore.Upload(context.Background(), strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	objects.failRemove = true
	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(courses.courses) != 0 {
		t.Error("expected course deleted despite object removal failure")
	}
}

func TestCourseRefetchFailureLeavesListUntouched(t *testing.T) {
	repo := &fakeCourseRepo{}
	notifier := &recordingNotifier{}
	s := newTestCourseStore(repo, &fakeContentRepo{}, newFakeObjectStore(), notifier)

	if _, err := s.Create(context.Background(), model.Course{Title: "Algebra"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	repo.failList = true
	if err := s.Refetch(context.Background()); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if got := len(s.Courses()); got != 1 {
		t.Errorf("expected list untouched after failed refetch, got %d items", got)
	}
	if notifier.lastError() != "Error fetching courses" {
		t.Errorf("expected fetch error notification, got %q", notifier.lastError())
	}
}

// Exercises the admin-and-student flow end to end against shared fakes.
func TestCourseLifecycleAcrossRoles(t *testing.T) {
	ctx := context.Background()
	courses := &fakeCourseRepo{}
	contents := &fakeContentRepo{}
	enrollments := &fakeEnrollmentRepo{}
	objects := newFakeObjectStore()

	courseStore := newTestCourseStore(courses, contents, objects, &recordingNotifier{})
	created, err := courseStore.Create(ctx, model.Course{Title: "Databases", Description: "From rows to indexes"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	enrollStore := NewEnrollmentStore(enrollments, &recordingNotifier{}, zerolog.Nop(), studentSession("student-1"))
	if _, err := enrollStore.Enroll(ctx, created.ID); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
	if _, err := enrollStore.Enroll(ctx, created.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected duplicate enrollment conflict, got %v", err)
	}
	if !enrollStore.IsEnrolled(created.ID) {
		t.Fatal("expected the student enrolled")
	}

	contentStore := NewContentStore(created.ID, contents, objects, testBuckets(), &recordingNotifier{}, zerolog.Nop())
	if _, err := contentStore.Upload(ctx, strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if err := courseStore.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(contents.contents) != 0 || len(objects.objects) != 0 {
		t.Error("expected course contents and objects gone after delete")
	}
}
