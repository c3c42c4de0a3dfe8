package service

import "sync"

// ConnectivityState is the shared online/offline flag set by probes and read
// by the HTTP layer. Offline mode keeps the form usable but disables
// submission.
type ConnectivityState struct {
	mu      sync.RWMutex
	online  bool
	message string
}

// NewConnectivityState starts offline until the first probe reports in.
func NewConnectivityState() *ConnectivityState {
	return &ConnectivityState{message: "Connectivity not yet checked"}
}

// Set records the latest probe outcome.
func (s *ConnectivityState) Set(online bool, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
	s.message = message
}

// Online reports whether the tracker answered the last probe.
func (s *ConnectivityState) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// Message returns the human-readable description of the last probe.
func (s *ConnectivityState) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}
