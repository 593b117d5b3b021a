package session

import (
	"fmt"
	"sync"
	"testing"

	"car-support-be/internal/repository/memory"
	"car-support-be/pkg/store"
)

func newTestManager(limit int) *Manager {
	return NewManager(memory.NewSessionRepository(), limit)
}

func TestHistoryBoundFIFO(t *testing.T) {
	m := newTestManager(10)

	for i := 0; i < 25; i++ {
		m.AppendMessage("user-a", store.RoleUser, fmt.Sprintf("msg-%d", i))
	}

	history := m.History("user-a")
	if len(history) != 10 {
		t.Fatalf("history length = %d, want 10", len(history))
	}
	// Oldest entries evicted first: window holds msg-15 .. msg-24.
	if history[0].Content != "msg-15" {
		t.Errorf("oldest entry = %q, want %q", history[0].Content, "msg-15")
	}
	if history[9].Content != "msg-24" {
		t.Errorf("newest entry = %q, want %q", history[9].Content, "msg-24")
	}
}

func TestHistoryNeverExceedsBoundMidSequence(t *testing.T) {
	m := newTestManager(3)
	for i := 0; i < 8; i++ {
		m.AppendMessage("u", store.RoleAssistant, fmt.Sprintf("%d", i))
		if got := len(m.History("u")); got > 3 {
			t.Fatalf("history length %d exceeds bound after %d appends", got, i+1)
		}
	}
}

func TestManualModeDefaultsOff(t *testing.T) {
	m := newTestManager(10)
	if m.IsManualMode("fresh-user") {
		t.Error("manual mode should default to false")
	}

	m.SetManualMode("fresh-user", true)
	if !m.IsManualMode("fresh-user") {
		t.Error("manual mode should be on after SetManualMode(true)")
	}

	m.SetManualMode("fresh-user", false)
	if m.IsManualMode("fresh-user") {
		t.Error("manual mode should be off after SetManualMode(false)")
	}
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	m := newTestManager(10)
	m.AppendMessage("a", store.RoleUser, "hello from a")
	m.SetManualMode("b", true)

	if len(m.History("b")) != 0 {
		t.Error("user b should have empty history")
	}
	if m.IsManualMode("a") {
		t.Error("user a should not be in manual mode")
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	m := newTestManager(10)
	m.AppendMessage("u", store.RoleUser, "original")

	history := m.History("u")
	history[0].Content = "mutated"

	if got := m.History("u")[0].Content; got != "original" {
		t.Errorf("session history mutated through returned slice: %q", got)
	}
}

// Operator endpoints read session state without holding the routing-pass
// lock; those reads must not race a concurrent pass on the same key. Run
// with -race.
func TestInspectionDuringRoutingPassIsRaceFree(t *testing.T) {
	m := newTestManager(10)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			m.Lock("user-x")
			m.SetManualMode("user-x", i%2 == 0)
			m.AppendMessage("user-x", store.RoleUser, fmt.Sprintf("m%d", i))
			m.Unlock("user-x")
		}
	}()

	for i := 0; i < 200; i++ {
		m.IsManualMode("user-x")
		if got := len(m.History("user-x")); got > 10 {
			t.Fatalf("observed history length %d beyond the bound", got)
		}
	}
	<-done
}

func TestConcurrentAppendsAcrossUsers(t *testing.T) {
	m := newTestManager(10)
	var wg sync.WaitGroup

	for u := 0; u < 8; u++ {
		userID := fmt.Sprintf("user-%d", u)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m.Lock(userID)
				m.AppendMessage(userID, store.RoleUser, fmt.Sprintf("m%d", i))
				m.Unlock(userID)
			}
		}()
	}
	wg.Wait()

	for u := 0; u < 8; u++ {
		userID := fmt.Sprintf("user-%d", u)
		if got := len(m.History(userID)); got != 10 {
			t.Errorf("%s history length = %d, want 10", userID, got)
		}
	}
}
