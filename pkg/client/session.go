package client

import "sync"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Identity is the signed-in user as reported by the server.
type Identity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// DisplayName prefers the first name, as shown on requests and suggestions.
func (i Identity) DisplayName() string {
	if i.FirstName != "" {
		return i.FirstName
	}
	return i.Username
}

// Session carries the bearer token and the identity of the signed-in user. It starts empty,
// is filled by Start (sign-in) and cleared by End (sign-out or expiry).
//
// Role checks on a Session only decide what a UI offers. The server re-validates every change.
type Session struct {
	mu        sync.RWMutex
	token     string
	identity  *Identity
	onSignOut []func(redirectURL string)
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Start(token string, identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.identity = &identity
}

// End clears the session. Sign-out hooks are not fired.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) Active() bool {
	return s.Token() != ""
}

func (s *Session) IsAdmin() bool {
	id, ok := s.Identity()
	return ok && id.Role == RoleAdmin
}

// OnSignOut registers fn to run when the server reports the session as expired.
func (s *Session) OnSignOut(fn func(redirectURL string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSignOut = append(s.onSignOut, fn)
}

func (s *Session) expire(redirectURL string) {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	hooks := append([]func(string){}, s.onSignOut...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(redirectURL)
	}
}
