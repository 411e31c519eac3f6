package client

import "sync"

// DisplayIdentity is the non-authoritative, display-only copy of the last
// verified identity. It exists so a portal can render a name or role label
// without a round trip; no authorization decision may ever read it.
type DisplayIdentity struct {
	Name      string
	Email     string
	RoleLabel string
}

// CredentialStore owns the process-wide client auth state: one slot for the
// stored credential and one for the display cache. All reads and writes go
// through it so clearing is observably atomic across views and goroutines.
type CredentialStore struct {
	mu         sync.RWMutex
	credential string
	display    *DisplayIdentity
}

// NewCredentialStore creates an empty store
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// SetCredential stores the credential handed out at login
func (s *CredentialStore) SetCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

// Credential returns the stored credential, or "" when logged out
func (s *CredentialStore) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetDisplay updates the display cache after a successful verification
func (s *CredentialStore) SetDisplay(identity *DisplayIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display = identity
}

// Display returns the cached display identity, which may be nil
func (s *CredentialStore) Display() *DisplayIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// Clear wipes credential and display cache in one step. Called on logout and
// on any verification rejection; a check running concurrently in another
// view will find the slot empty on its next read.
func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	s.display = nil
}
