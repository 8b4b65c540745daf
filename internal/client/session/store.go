package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/carrental-client/internal/client/storage"
	"github.com/dmitrijs2005/carrental-client/internal/logging"
)

// Durable storage keys.
const (
	KeyCredentials = "auth_credentials"
	KeyUser        = "auth_user"
)

// Status is the session lifecycle stage.
type Status string

const (
	StatusAbsent  Status = "absent"
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

// Manager is the session surface the rest of the client works against.
type Manager interface {
	SetAuth(ctx context.Context, username, password string, userID int64) error
	UpdateUser(ctx context.Context, patch map[string]any) error
	ClearAuth(ctx context.Context) error

	// Conditional forms: they apply only while cred is still the stored
	// credential.
	ConfirmUser(ctx context.Context, cred Credential, patch map[string]any) (*Profile, error)
	ClearAuthIf(ctx context.Context, cred Credential) (bool, error)

	IsAuthenticated() bool
	Status() Status
	Snapshot() (Credential, *Profile)
	User() *Profile
	Credential() Credential
	Durable() bool
}

// state is replaced as a whole on every mutation.
type state struct {
	cred      Credential
	user      *Profile
	validated bool
}

// Store is the single in-memory holder of the session. Every mutation
// writes through to storage before memory changes, so a failed write
// leaves both untouched.
//
// A nil storage is allowed: the session then lives in memory only and
// Durable reports false.
type Store struct {
	mu      sync.RWMutex
	st      state
	storage storage.Storage
	log     logging.Logger
}

var _ Manager = (*Store)(nil)

func NewStore(s storage.Storage, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{storage: s, log: log.With("component", "session")}
}

// Load replaces the in-memory session with what storage holds. A stored
// profile without a credential is deleted. An unreadable profile is logged
// and dropped, leaving the credential pending.
func (s *Store) Load(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.storage.Get(ctx, KeyCredentials)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if !ok || len(raw) == 0 {
		if err := s.storage.Delete(ctx, KeyUser); err != nil {
			return fmt.Errorf("drop orphan profile: %w", err)
		}
		s.st = state{}
		return nil
	}

	next := state{cred: Credential(raw)}

	rawUser, ok, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if ok {
		var p Profile
		if err := json.Unmarshal(rawUser, &p); err != nil {
			s.log.Warn(ctx, "stored profile is unreadable, keeping credential only", "error", err)
		} else {
			next.user = &p
		}
	}

	s.st = next
	s.log.Debug(ctx, "session loaded", "has_profile", next.user != nil)
	return nil
}

// SetAuth starts a session for username with the initial profile
// {username, userId}. Both keys are written in one storage call.
func (s *Store) SetAuth(ctx context.Context, username, password string, userID int64) error {
	next := state{
		cred:      EncodeCredential(username, password),
		user:      &Profile{UserID: userID, Username: username},
		validated: true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.storage != nil {
		userJSON, err := json.Marshal(next.user)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		err = s.storage.SetMany(ctx, map[string][]byte{
			KeyCredentials: []byte(next.cred),
			KeyUser:        userJSON,
		})
		if err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
	}

	s.st = next
	return nil
}

// UpdateUser merges patch into the current profile and persists it. It does
// nothing when there is no profile.
func (s *Store) UpdateUser(ctx context.Context, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.user == nil {
		return nil
	}
	return s.mergeLocked(ctx, patch, s.st.validated)
}

// ConfirmUser merges patch and marks the session active, but only if cred is
// still the current credential and a profile exists. It returns a copy of
// the confirmed profile, or nil when nothing was applied.
func (s *Store) ConfirmUser(ctx context.Context, cred Credential, patch map[string]any) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cred.IsZero() || s.st.cred != cred || s.st.user == nil {
		return nil, nil
	}
	if err := s.mergeLocked(ctx, patch, true); err != nil {
		return nil, err
	}
	return s.st.user.Clone(), nil
}

func (s *Store) mergeLocked(ctx context.Context, patch map[string]any, validated bool) error {
	merged := s.st.user.Merge(patch)

	if s.storage != nil {
		userJSON, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		if err := s.storage.Set(ctx, KeyUser, userJSON); err != nil {
			return fmt.Errorf("persist profile: %w", err)
		}
	}

	s.st = state{cred: s.st.cred, user: &merged, validated: validated}
	return nil
}

// ClearAuth ends the session. Calling it without a session is fine.
func (s *Store) ClearAuth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

func (s *Store) clearLocked(ctx context.Context) error {
	if s.storage != nil {
		if err := s.storage.Delete(ctx, KeyCredentials, KeyUser); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}

	s.st = state{}
	return nil
}

// ClearAuthIf ends the session only if cred is still the current credential.
func (s *Store) ClearAuthIf(ctx context.Context, cred Credential) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cred.IsZero() || s.st.cred != cred {
		return false, nil
	}
	if err := s.clearLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.st.cred.IsZero()
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.st.cred.IsZero():
		return StatusAbsent
	case s.st.validated && s.st.user != nil:
		return StatusActive
	default:
		return StatusPending
	}
}

// Snapshot returns the credential and a copy of the profile as one
// consistent pair.
func (s *Store) Snapshot() (Credential, *Profile) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.cred, s.st.user.Clone()
}

// User returns a copy of the profile, or nil.
func (s *Store) User() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.user.Clone()
}

func (s *Store) Credential() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.cred
}

// Durable reports whether the session is mirrored into storage.
func (s *Store) Durable() bool {
	return s.storage != nil
}
