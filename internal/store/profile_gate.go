package store

import (
	"context"
	"sync"
	"time"

	"app/internal/repository"

	"github.com/rs/zerolog"
)

// presentTTL bounds how long a settled "present" is served without a fresh
// lookup, so removing a student record re-locks the gate within this window.
const presentTTL = 5 * time.Minute

// ProfileState is the tri-state outcome of the student profile check.
type ProfileState int

const (
	// ProfilePending means the check has not settled yet; protected content
	// stays blocked.
	ProfilePending ProfileState = iota
	// ProfileAbsent means no student row exists for the user.
	ProfileAbsent
	// ProfilePresent means the user has a student row.
	ProfilePresent
)

// ProfileGate answers "does a student record exist for this user" for one
// user, caching the answer once the check settles. Admins never consult the
// gate; the role bypasses it.
type ProfileGate struct {
	userID string
	repo   repository.StudentRepository
	logger zerolog.Logger

	// now stamps settled states; replaceable in tests.
	now func() time.Time

	mu        sync.RWMutex
	state     ProfileState
	settledAt time.Time
}

// NewProfileGate creates a gate for one auth user.
func NewProfileGate(userID string, repo repository.StudentRepository, logger zerolog.Logger) *ProfileGate {
	return &ProfileGate{
		userID: userID,
		repo:   repo,
		logger: logger.With().Str("store", "ProfileGate").Str("user_id", userID).Logger(),
		now:    time.Now,
	}
}

// State returns the last settled answer, or ProfilePending before the first
// completed check. A "present" older than presentTTL reads as pending again,
// forcing the caller back through Check.
func (g *ProfileGate) State() ProfileState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state == ProfilePresent && g.now().Sub(g.settledAt) > presentTTL {
		return ProfilePending
	}
	return g.state
}

// Check resolves the gate. An unauthenticated user or a failed lookup
// settles as absent; the caller treats absent as "complete enrollment first".
func (g *ProfileGate) Check(ctx context.Context) ProfileState {
	if g.userID == "" {
		g.settle(ProfileAbsent)
		return ProfileAbsent
	}

	student, err := g.repo.GetStudentByUserID(ctx, g.userID)
	if err != nil {
		g.logger.Error().Err(err).Msg("Failed to check student profile")
		g.settle(ProfileAbsent)
		return ProfileAbsent
	}

	state := ProfileAbsent
	if student != nil {
		state = ProfilePresent
	}
	g.settle(state)
	return state
}

func (g *ProfileGate) settle(state ProfileState) {
	g.mu.Lock()
	g.state = state
	g.settledAt = g.now()
	g.mu.Unlock()
}

// ProfileGates hands out one gate per user.
type ProfileGates struct {
	repo   repository.StudentRepository
	logger zerolog.Logger

	mu    sync.Mutex
	gates map[string]*ProfileGate
}

// NewProfileGates creates the per-user gate collection.
func NewProfileGates(repo repository.StudentRepository, logger zerolog.Logger) *ProfileGates {
	return &ProfileGates{
		repo:   repo,
		logger: logger,
		gates:  make(map[string]*ProfileGate),
	}
}

// ForUser returns the gate for one auth user.
func (c *ProfileGates) ForUser(userID string) *ProfileGate {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gates[userID]
	if !ok {
		g = NewProfileGate(userID, c.repo, c.logger)
		c.gates[userID] = g
	}
	return g
}
