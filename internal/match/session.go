// internal/match/session.go
package match

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/damas-online/damas/internal/models"
)

// timer kinds owned by a session. Each kind has at most one pending
// instance; arming a kind always cancels the previous instance first.
const (
	timerLobby = iota
	timerTurn
	timerReconnect1
	timerReconnect2
	timerKinds
)

// seat is one player's volatile half of the session: identity,
// outbound channel, and readiness flag.
type seat struct {
	identity models.Identity
	push     PushFunc
	ready    bool
}

func (st *seat) connected() bool {
	return st != nil && st.push != nil
}

// Session is the volatile coordination record binding one match record
// to up to two live output channels and the active timers. It is owned
// exclusively by the session registry entry for its match ID; while it
// is alive, the match record it references is the single writable copy
// of match state and persistence is a side effect.
type Session struct {
	MatchID uuid.UUID
	Match   *models.Match

	// mu serializes every lifecycle step for this match: a handler runs
	// to completion, persistence write included, before the next event
	// for the same match is processed. Cross-match steps are
	// independent.
	mu sync.Mutex

	seats [2]*seat // index 0 = player1 (creator), 1 = player2

	timers       [timerKinds]*time.Timer
	gens         [timerKinds]uint64
	turnDeadline time.Time

	destroyed bool
}

func newSession(m *models.Match) *Session {
	return &Session{MatchID: m.ID, Match: m}
}

// seatFor returns the seat struct for the given user, or nil.
// Lock must be held.
func (s *Session) seatFor(userID uuid.UUID) *seat {
	idx := s.Match.SeatOf(userID)
	if idx == 0 {
		return nil
	}
	return s.seats[idx-1]
}

// reconnectKind maps a seat index (0 or 1) to its reconnection timer kind.
func reconnectKind(seatIdx int) int {
	if seatIdx == 0 {
		return timerReconnect1
	}
	return timerReconnect2
}

// armTimer schedules fn to run after d while holding the session lock.
// The previous pending instance of the same kind, if any, is cancelled:
// the generation counter guards against a cancelled or superseded
// timer's callback firing after the race with Stop is lost. A fired
// timer that finds the session destroyed is a silent no-op.
// Lock must be held.
func (s *Session) armTimer(kind int, d time.Duration, fn func()) {
	if s.timers[kind] != nil {
		s.timers[kind].Stop()
	}
	s.gens[kind]++
	gen := s.gens[kind]
	s.timers[kind] = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.destroyed || s.gens[kind] != gen {
			return
		}
		fn()
	})
}

// cancelTimer stops the pending instance of a timer kind, if any, and
// bumps the generation so an already-fired callback becomes a no-op.
// Lock must be held.
func (s *Session) cancelTimer(kind int) {
	s.gens[kind]++
	if s.timers[kind] != nil {
		s.timers[kind].Stop()
		s.timers[kind] = nil
	}
}

// cancelAllTimers stops every pending timer. Lock must be held.
func (s *Session) cancelAllTimers() {
	for kind := 0; kind < timerKinds; kind++ {
		s.cancelTimer(kind)
	}
}

// reconnectArmed reports whether a reconnection grace timer is pending
// for the given seat. Lock must be held.
func (s *Session) reconnectArmed(seatIdx int) bool {
	return s.timers[reconnectKind(seatIdx)] != nil
}

// readiness snapshots both confirmation flags. Lock must be held.
func (s *Session) readiness() *Readiness {
	r := &Readiness{}
	if s.seats[0] != nil {
		r.Player1 = s.seats[0].ready
	}
	if s.seats[1] != nil {
		r.Player2 = s.seats[1].ready
	}
	return r
}

// snapshot returns a copy of the match record safe to hand to push
// channels: subsequent orchestrator steps may keep mutating the live
// record. Lock must be held.
func (s *Session) snapshot() *models.Match {
	snap := *s.Match
	snap.History = make([]models.HistoryEntry, len(s.Match.History))
	copy(snap.History, s.Match.History)
	return &snap
}

// broadcast pushes one event to every bound channel. Both pushes happen
// within the same step, so the two peers observe transitions in the
// same relative order. Lock must be held.
func (s *Session) broadcast(ev Event) {
	for _, st := range s.seats {
		if st.connected() {
			st.push(ev)
		}
	}
}

// pushTo sends an event to a single seat if it is connected.
// Lock must be held.
func (s *Session) pushTo(st *seat, ev Event) {
	if st.connected() {
		st.push(ev)
	}
}

// destroy cancels all timers and marks the session dead. The registry
// entry is removed by the caller. Lock must be held.
func (s *Session) destroy() {
	s.cancelAllTimers()
	s.destroyed = true
}
