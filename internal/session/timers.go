package session

import (
	"sync"
	"time"

	id "vocilia/pkg/domain"
)

// timerKind names one of the per-session timers.
type timerKind string

const (
	timerSilence timerKind = "silence"
	timerAbandon timerKind = "abandon"
	timerCeiling timerKind = "ceiling"
)

type timerKey struct {
	sessionID id.SessionID
	kind      timerKind
}

// timerSet tracks the armed timers per session. Arming a kind replaces any
// previous timer of that kind. Stop on the old timer is best effort: a fire
// already in flight is discarded by the generation guard in its callback, so
// a lost Stop race cannot corrupt a session.
type timerSet struct {
	mu    sync.Mutex
	armed map[timerKey]*time.Timer
}

func newTimerSet() *timerSet {
	return &timerSet{armed: make(map[timerKey]*time.Timer)}
}

// arm schedules fn after d, replacing any armed timer of the same kind.
func (t *timerSet) arm(sessionID id.SessionID, kind timerKind, d time.Duration, fn func()) {
	key := timerKey{sessionID: sessionID, kind: kind}

	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.armed[key]; ok {
		old.Stop()
	}
	t.armed[key] = time.AfterFunc(d, fn)
}

// cancel stops one timer kind for a session.
func (t *timerSet) cancel(sessionID id.SessionID, kind timerKind) {
	key := timerKey{sessionID: sessionID, kind: kind}

	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.armed[key]; ok {
		timer.Stop()
		delete(t.armed, key)
	}
}

// cancelAll stops every timer for a session. Called on terminal transitions
// so finished sessions hold no scheduler state.
func (t *timerSet) cancelAll(sessionID id.SessionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, kind := range []timerKind{timerSilence, timerAbandon, timerCeiling} {
		key := timerKey{sessionID: sessionID, kind: kind}
		if timer, ok := t.armed[key]; ok {
			timer.Stop()
			delete(t.armed, key)
		}
	}
}
