package store

import (
	"context"
	"errors"
	"testing"

	"app/internal/model"
	"app/internal/session"

	"github.com/rs/zerolog"
)

func adminSession() *session.Session {
	return &session.Session{UserID: "admin-1", Email: "admin@example.com", Role: model.RoleAdmin}
}

func TestAssignRecordsActingAdmin(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	s := NewAssignmentStore(repo, &fakeProfileRepo{}, &recordingNotifier{}, zerolog.Nop())

	assignment, err := s.Assign(context.Background(), adminSession(), "student-1", "course-1")
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if !assignment.AssignedBy.Valid || assignment.AssignedBy.String != "admin-1" {
		t.Errorf("expected assigned_by to carry the admin id, got %+v", assignment.AssignedBy)
	}
	if !s.IsAssigned("student-1", "course-1") {
		t.Error("expected the pair to show as assigned")
	}
}

func TestAssignDuplicatePairConflicts(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	notifier := &recordingNotifier{}
	s := NewAssignmentStore(repo, &fakeProfileRepo{}, notifier, zerolog.Nop())

	if _, err := s.Assign(context.Background(), adminSession(), "student-1", "course-1"); err != nil {
		t.Fatalf("first Assign returned error: %v", err)
	}

	_, err := s.Assign(context.Background(), adminSession(), "student-1", "course-1")
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
	if got := len(s.Assignments()); got != 1 {
		t.Errorf("expected one assignment after duplicate attempt, got %d", got)
	}
	if notifier.lastError() != "Already assigned" {
		t.Errorf("expected conflict notification, got %q", notifier.lastError())
	}
}

func TestAssignSharesTableWithSelfEnrollment(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	enrollStore := NewEnrollmentStore(repo, &recordingNotifier{}, zerolog.Nop(), studentSession("student-1"))
	assignStore := NewAssignmentStore(repo, &fakeProfileRepo{}, &recordingNotifier{}, zerolog.Nop())

	if _, err := enrollStore.Enroll(context.Background(), "course-1"); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}

	// An admin assignment of the same pair hits the same unique constraint.
	_, err := assignStore.Assign(context.Background(), adminSession(), "student-1", "course-1")
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned for an existing self-enrollment, got %v", err)
	}
}

func TestUnassignRemovesJoinRow(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	s := NewAssignmentStore(repo, &fakeProfileRepo{}, &recordingNotifier{}, zerolog.Nop())

	assignment, _ := s.Assign(context.Background(), adminSession(), "student-1", "course-1")
	if err := s.Unassign(context.Background(), assignment.ID); err != nil {
		t.Fatalf("Unassign returned error: %v", err)
	}

	if s.IsAssigned("student-1", "course-1") {
		t.Error("expected the pair gone after unassign")
	}
	if got := len(repo.enrollments); got != 0 {
		t.Errorf("expected join row deleted remotely, got %d rows", got)
	}
}

func TestAssignmentIDLooksUpCachedPair(t *testing.T) {
	s := NewAssignmentStore(&fakeEnrollmentRepo{}, &fakeProfileRepo{}, &recordingNotifier{}, zerolog.Nop())

	assignment, _ := s.Assign(context.Background(), adminSession(), "student-1", "course-1")

	id, ok := s.AssignmentID("student-1", "course-1")
	if !ok || id != assignment.ID {
		t.Errorf("expected cached id %q, got %q (ok=%v)", assignment.ID, id, ok)
	}
	if _, ok := s.AssignmentID("student-1", "course-2"); ok {
		t.Error("expected no id for an unassigned pair")
	}
}

func TestRefetchRelabelsEnrollmentsAsAssignments(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	enrollStore := NewEnrollmentStore(repo, &recordingNotifier{}, zerolog.Nop(), studentSession("student-1"))
	if _, err := enrollStore.Enroll(context.Background(), "course-1"); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}

	s := NewAssignmentStore(repo, &fakeProfileRepo{}, &recordingNotifier{}, zerolog.Nop())
	if err := s.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch returned error: %v", err)
	}

	assignments := s.Assignments()
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(assignments))
	}
	if assignments[0].StudentUserID != "student-1" || assignments[0].CourseID != "course-1" {
		t.Errorf("unexpected relabeled row: %+v", assignments[0])
	}
	if assignments[0].AssignedBy.Valid {
		t.Error("expected self-enrollment to keep its null assigned_by in the admin view")
	}
}

func TestRefetchStudentProfilesFailureKeepsCache(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: []model.Profile{{ID: "student-1", Email: "s1@example.com"}}}
	s := NewAssignmentStore(&fakeEnrollmentRepo{}, profiles, &recordingNotifier{}, zerolog.Nop())

	if err := s.RefetchStudentProfiles(context.Background()); err != nil {
		t.Fatalf("RefetchStudentProfiles returned error: %v", err)
	}
	if got := len(s.StudentProfiles()); got != 1 {
		t.Fatalf("expected 1 profile, got %d", got)
	}

	profiles.fail = true
	if err := s.RefetchStudentProfiles(context.Background()); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if got := len(s.StudentProfiles()); got != 1 {
		t.Errorf("expected cached profiles untouched after failure, got %d", got)
	}
}
