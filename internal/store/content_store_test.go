package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"app/internal/model"

	"github.com/rs/zerolog"
)

func testBuckets() Buckets {
	return Buckets{Video: "course-videos", Notes: "course-notes"}
}

func newTestContentStore(repo *fakeContentRepo, objects *fakeObjectStore, notifier *recordingNotifier) *ContentStore {
	s := NewContentStore("course-1", repo, objects, testBuckets(), notifier, zerolog.Nop())
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestUploadStoresFileThenInsertsRow(t *testing.T) {
	repo := &fakeContentRepo{}
	objects := newFakeObjectStore()
	s := newTestContentStore(repo, objects, &recordingNotifier{})

	content, err := s.Upload(context.Background(), strings.NewReader("lecture bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	wantKey := "course-videos/course-1/1700000000000-intro.mp4"
	if _, ok := objects.objects[wantKey]; !ok {
		t.Errorf("expected object stored at %q, have %v", wantKey, objects.objects)
	}
	if content.FileURL != "https://storage.example.com/object/public/"+wantKey {
		t.Errorf("unexpected file URL %q", content.FileURL)
	}
	if len(repo.contents) != 1 {
		t.Fatalf("expected 1 content row, got %d", len(repo.contents))
	}
	if got := s.Contents(); len(got) != 1 || got[0].ID != content.ID {
		t.Error("expected uploaded content prepended to the cached list")
	}
}

func TestUploadNotesLandsInNotesBucket(t *testing.T) {
	repo := &fakeContentRepo{}
	objects := newFakeObjectStore()
	s := newTestContentStore(repo, objects, &recordingNotifier{})

	if _, err := s.Upload(context.Background(), strings.NewReader("pdf bytes"), "week1.pdf", "application/pdf", model.ContentTypeNotes, "Week 1"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if _, ok := objects.objects["course-notes/course-1/1700000000000-week1.pdf"]; !ok {
		t.Errorf("expected notes object in the notes bucket, have %v", objects.objects)
	}
}

func TestUploadStorageFailureCreatesNoRow(t *testing.T) {
	repo := &fakeContentRepo{}
	objects := newFakeObjectStore()
	objects.failPut = true
	notifier := &recordingNotifier{}
	s := newTestContentStore(repo, objects, notifier)

	_, err := s.Upload(context.Background(), strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro")
	if !errors.Is(err, errRemote) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if len(repo.contents) != 0 {
		t.Error("expected no content row after storage failure")
	}
	if got := len(s.Contents()); got != 0 {
		t.Errorf("expected cached list unchanged, got %d items", got)
	}
	if notifier.lastError() != "Error uploading content" {
		t.Errorf("expected upload error notification, got %q", notifier.lastError())
	}
}

func TestUploadInsertFailureRemovesStoredObject(t *testing.T) {
	repo := &fakeContentRepo{failCreate: true}
	objects := newFakeObjectStore()
	s := newTestContentStore(repo, objects, &recordingNotifier{})

	_, err := s.Upload(context.Background(), strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro")
	if !errors.Is(err, errRemote) {
		t.Fatalf("expected insert error, got %v", err)
	}

	if len(objects.objects) != 0 {
		t.Errorf("expected orphaned object removed, have %v", objects.objects)
	}
	wantKey := "course-videos/course-1/1700000000000-intro.mp4"
	found := false
	for _, key := range objects.removed {
		if key == wantKey {
			found = true
		}
	}
	if !found {
		t.Errorf("expected removal of %q, removed %v", wantKey, objects.removed)
	}
}

func TestContentDeleteRemovesObjectAndRow(t *testing.T) {
	repo := &fakeContentRepo{}
	objects := newFakeObjectStore()
	s := newTestContentStore(repo, objects, &recordingNotifier{})

	content, err := s.Upload(context.Background(), strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if err := s.Delete(context.Background(), *content); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if len(objects.objects) != 0 {
		t.Errorf("expected stored object removed, have %v", objects.objects)
	}
	if len(repo.contents) != 0 {
		t.Error("expected content row deleted")
	}
	if got := len(s.Contents()); got != 0 {
		t.Errorf("expected cached list emptied, got %d items", got)
	}
}

func TestContentDeleteSurvivesMissingObject(t *testing.T) {
	repo := &fakeContentRepo{}
	objects := newFakeObjectStore()
	objects.failRemove = true
	s := newTestContentStore(repo, objects, &recordingNotifier{})

	content, err := s.Upload(context.Background(), strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	// Object removal failing must not block the row delete.
	if err := s.Delete(context.Background(), *content); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(repo.contents) != 0 {
		t.Error("expected content row deleted despite object removal failure")
	}
}

func TestContentDeleteRowFailureKeepsList(t *testing.T) {
	repo := &fakeContentRepo{}
	objects := newFakeObjectStore()
	s := newTestContentStore(repo, objects, &recordingNotifier{})

	content, err := s.Upload(context.Background(), strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	repo.failDelete = true
	if err := s.Delete(context.Background(), *content); !errors.Is(err, errRemote) {
		t.Fatalf("expected delete error, got %v", err)
	}
	if got := len(s.Contents()); got != 1 {
		t.Errorf("expected cached list untouched after failed delete, got %d items", got)
	}
}

func TestContentStoresScopePerCourse(t *testing.T) {
	repo := &fakeContentRepo{}
	objects := newFakeObjectStore()
	stores := NewContentStores(repo, objects, testBuckets(), &recordingNotifier{}, zerolog.Nop())

	a, err := stores.ForCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("ForCourse returned error: %v", err)
	}
	if _, err := a.Upload(context.Background(), strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	b, err := stores.ForCourse(context.Background(), "course-2")
	if err != nil {
		t.Fatalf("ForCourse returned error: %v", err)
	}
	if got := len(b.Contents()); got != 0 {
		t.Errorf("expected course-2 store empty, got %d items", got)
	}

	again, err := stores.ForCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("ForCourse returned error: %v", err)
	}
	if again != a {
		t.Error("expected the same store instance for a returning course")
	}
}

func TestContentStoresRetryFailedFirstFetch(t *testing.T) {
	repo := &fakeContentRepo{}
	objects := newFakeObjectStore()
	direct := NewContentStore("course-1", repo, objects, testBuckets(), &recordingNotifier{}, zerolog.Nop())
	if _, err := direct.Upload(context.Background(), strings.NewReader("bytes"), "intro.mp4", "video/mp4", model.ContentTypeVideo, "Intro"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	stores := NewContentStores(repo, objects, testBuckets(), &recordingNotifier{}, zerolog.Nop())

	// A backend blip on the first fetch must not pin an empty store.
	repo.failList = true
	if _, err := stores.ForCourse(context.Background(), "course-1"); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error from first use, got %v", err)
	}

	repo.failList = false
	s, err := stores.ForCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("ForCourse returned error after recovery: %v", err)
	}
	if got := len(s.Contents()); got != 1 {
		t.Errorf("expected the retried fetch to load the existing content, got %d items", got)
	}
}

func TestObjectPathRecoversStorageKey(t *testing.T) {
	url := "https://storage.example.com/object/public/course-videos/course-1/1700000000000-intro.mp4"
	if got := objectPath(url, "course-videos"); got != "course-1/1700000000000-intro.mp4" {
		t.Errorf("unexpected path %q", got)
	}
	if got := objectPath(url, "course-notes"); got != "" {
		t.Errorf("expected empty path for wrong bucket, got %q", got)
	}
}
