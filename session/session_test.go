package session

import "testing"

func TestClose_FailedSetupLeavesGaugeUntouched(t *testing.T) {
	m := &Manager{}

	// A session torn down before the manager registered it, e.g. when the
	// warm navigation fails during setup.
	s := &Session{mgr: m}
	s.Close()

	if got := m.ActiveSessions(); got != 0 {
		t.Errorf("ActiveSessions = %d, want 0 after closing an unregistered session", got)
	}
}

func TestClose_DecrementsOnceForRegisteredSession(t *testing.T) {
	m := &Manager{}
	m.activeSessions.Add(1)

	s := &Session{mgr: m, counted: true}
	s.Close()
	s.Close()

	if got := m.ActiveSessions(); got != 0 {
		t.Errorf("ActiveSessions = %d, want 0 after double close", got)
	}
}
