// internal/match/orchestrator.go
package match

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/damas-online/damas/internal/engine"
	"github.com/damas-online/damas/internal/models"
)

// Sentinel errors returned to event handlers. Protocol and
// illegal-move errors are replied to the sender only and never mutate
// state; none of them is fatal to the process.
var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrMatchConcluded = errors.New("match already concluded")
	ErrNotParticipant = errors.New("you are not seated in this match")
	ErrBadState       = errors.New("not valid in the current match state")
	ErrNotYourTurn    = errors.New("it is not your turn")
	ErrIllegalMove    = errors.New("illegal move")
)

// Finish reasons carried on game_over events.
const (
	ReasonSurrender    = "surrender"
	ReasonTurnTimeout  = "turn_timeout"
	ReasonAbandoned    = "abandoned"
	ReasonLobbyExpired = "lobby_expired"
	ReasonCancelled    = "cancelled"
)

// MatchStore is the durable record store the orchestrator persists
// through. Implemented by internal/database; tests use an in-memory fake.
type MatchStore interface {
	Load(ctx context.Context, id uuid.UUID) (*models.Match, error)
	Save(ctx context.Context, m *models.Match) error
	FindWaiting(ctx context.Context, excluding uuid.UUID) ([]*models.Match, error)
}

// RankStore settles rank and win/loss counters for both players of a
// concluded match. forfeit selects the larger forfeiture penalty for
// the loser.
type RankStore interface {
	ApplyResult(ctx context.Context, winnerID, loserID uuid.UUID, forfeit bool) error
}

// Journal receives a fire-and-forget record of every applied move and
// lifecycle transition (the historian queue). May be nil.
type Journal interface {
	Record(ctx context.Context, matchID, actor uuid.UUID, kind string, payload map[string]interface{})
}

// Config holds the tunable timer policy.
type Config struct {
	LobbyExpiry    time.Duration // waiting matches are cancelled after this
	TurnClock      time.Duration // per-turn clock while inprogress
	ReconnectGrace time.Duration // grace before a disconnect becomes a forfeit
	TickInterval   time.Duration // timer_update cadence; 0 disables ticks
}

// DefaultConfig returns the production timer policy.
func DefaultConfig() Config {
	return Config{
		LobbyExpiry:    5 * time.Minute,
		TurnClock:      60 * time.Second,
		ReconnectGrace: 30 * time.Second,
		TickInterval:   time.Second,
	}
}

// Orchestrator drives every session through its lifecycle. All
// mutation of a given session happens as discrete steps under the
// session lock; handlers for different matches proceed independently.
type Orchestrator struct {
	cfg      Config
	log      *logrus.Logger
	sessions *SessionStore
	matches  MatchStore
	ranks    RankStore
	journal  Journal
}

// NewOrchestrator wires the orchestrator to its collaborators.
// journal may be nil.
func NewOrchestrator(cfg Config, log *logrus.Logger, sessions *SessionStore, matches MatchStore, ranks RankStore, journal Journal) *Orchestrator {
	if log == nil {
		log = logrus.New()
	}
	return &Orchestrator{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		matches:  matches,
		ranks:    ranks,
		journal:  journal,
	}
}

// Sessions exposes the registry (used by handlers and tests).
func (o *Orchestrator) Sessions() *SessionStore {
	return o.sessions
}

// CreateMatch persists a new waiting match for its creator, registers
// a session for it, and arms the lobby expiry timer. The creator's
// output channel is bound later, when their websocket attaches.
func (o *Orchestrator) CreateMatch(ctx context.Context, creator models.Identity) (*Session, error) {
	m := models.NewMatch(creator)
	if err := o.matches.Save(ctx, m); err != nil {
		return nil, err
	}

	s := newSession(m)
	s.seats[0] = &seat{identity: creator}
	s = o.sessions.Add(s)

	s.mu.Lock()
	s.armTimer(timerLobby, o.cfg.LobbyExpiry, func() {
		o.lobbyTimeoutLocked(context.Background(), s)
	})
	s.mu.Unlock()

	o.record(m.ID, creator.UserID, "match_created", nil)
	o.log.WithFields(logrus.Fields{"match": m.ID, "user": creator.UserID}).Info("match created")
	return s, nil
}

// Lookup returns the live session for a match, rehydrating it from the
// durable record when the process has restarted since creation. A
// rehydrated inprogress match gets a fresh turn clock; the clock that
// was running before the restart is forgiven.
func (o *Orchestrator) Lookup(ctx context.Context, matchID uuid.UUID) (*Session, error) {
	if s, ok := o.sessions.Get(matchID); ok {
		return s, nil
	}

	m, err := o.matches.Load(ctx, matchID)
	if err != nil {
		return nil, ErrMatchNotFound
	}
	if m.Status.Terminal() {
		return nil, ErrMatchConcluded
	}

	s := newSession(m)
	s.seats[0] = &seat{identity: models.Identity{UserID: m.Player1ID, Username: m.Player1Username}}
	if m.Player2ID != uuid.Nil {
		s.seats[1] = &seat{identity: models.Identity{UserID: m.Player2ID, Username: m.Player2Username}}
	}
	s = o.sessions.Add(s)

	s.mu.Lock()
	switch m.Status {
	case models.StatusWaiting:
		s.armTimer(timerLobby, o.cfg.LobbyExpiry, func() {
			o.lobbyTimeoutLocked(context.Background(), s)
		})
	case models.StatusInProgress:
		o.armTurnLocked(s)
	}
	s.mu.Unlock()

	o.log.WithFields(logrus.Fields{"match": matchID, "status": m.Status}).Info("session rehydrated")
	return s, nil
}

// ListWaiting returns open matches another user could join.
func (o *Orchestrator) ListWaiting(ctx context.Context, excluding uuid.UUID) ([]*models.Match, error) {
	return o.matches.FindWaiting(ctx, excluding)
}

// Attach performs connection admission and binds the peer's output
// channel. A verified identity that holds a seat is (re)bound; while
// the match is waiting, a different identity takes the second seat and
// the match advances to readying. Anyone else is rejected.
func (o *Orchestrator) Attach(ctx context.Context, s *Session, identity models.Identity, push PushFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed || s.Match.Status.Terminal() {
		return ErrMatchConcluded
	}

	seatIdx := s.Match.SeatOf(identity.UserID)
	if seatIdx == 0 {
		if s.Match.Status != models.StatusWaiting {
			return ErrNotParticipant
		}
		// Second player joins through admission.
		s.Match.Player2ID = identity.UserID
		s.Match.Player2Username = identity.Username
		s.Match.Status = models.StatusReadying
		s.seats[1] = &seat{identity: identity, push: push}
		s.cancelTimer(timerLobby)
		o.persist(ctx, s)
		o.record(s.MatchID, identity.UserID, "player_joined", nil)
		s.broadcast(Event{Type: EventPlayerJoined, Match: s.snapshot(), Readiness: s.readiness()})
		o.log.WithFields(logrus.Fields{"match": s.MatchID, "user": identity.UserID}).Info("player joined")
		return nil
	}

	st := s.seats[seatIdx-1]
	if st == nil {
		st = &seat{}
		s.seats[seatIdx-1] = st
	}
	st.identity = identity
	st.push = push

	switch s.Match.Status {
	case models.StatusWaiting:
		s.pushTo(st, Event{Type: EventWaitingOpponent, Match: s.snapshot()})
	case models.StatusReadying:
		s.pushTo(st, Event{Type: EventPlayerJoined, Match: s.snapshot(), Readiness: s.readiness()})
	case models.StatusInProgress:
		if s.reconnectArmed(seatIdx - 1) {
			s.cancelTimer(reconnectKind(seatIdx - 1))
			who := st.identity
			s.broadcast(Event{Type: EventPlayerReconnected, Player: &who})
			o.record(s.MatchID, identity.UserID, "player_reconnected", nil)
		}
		// Sync the full state to the (re)connecting peer.
		s.pushTo(st, Event{Type: EventGameUpdate, Match: s.snapshot()})
	}
	return nil
}

// Ready records the acting player's confirmation; when both players
// have confirmed, the match starts: player1 moves first and the turn
// clock is armed.
func (o *Orchestrator) Ready(ctx context.Context, s *Session, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed || s.Match.Status != models.StatusReadying {
		return ErrBadState
	}
	st := s.seatFor(identity.UserID)
	if st == nil {
		return ErrNotParticipant
	}

	st.ready = true
	s.broadcast(Event{Type: EventReadyStatusUpdate, Readiness: s.readiness()})

	if !(s.seats[0] != nil && s.seats[0].ready && s.seats[1] != nil && s.seats[1].ready) {
		return nil
	}

	s.Match.Status = models.StatusInProgress
	s.Match.CurrentPlayerID = s.Match.Player1ID
	o.persist(ctx, s)
	o.record(s.MatchID, identity.UserID, "game_start", nil)
	s.broadcast(Event{Type: EventGameStart, Match: s.snapshot()})
	o.armTurnLocked(s)
	o.log.WithField("match", s.MatchID).Info("match started")
	return nil
}

// Move validates and applies a move claim from the current player. The
// claim is legal only if it exactly matches one of the maximal capture
// sequences, or, when no capture exists, one of the simple moves. A
// rejected claim mutates nothing and is reported to the sender only.
func (o *Orchestrator) Move(ctx context.Context, s *Session, identity models.Identity, mv engine.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed || s.Match.Status != models.StatusInProgress {
		return ErrBadState
	}
	if s.seatFor(identity.UserID) == nil {
		return ErrNotParticipant
	}
	if identity.UserID != s.Match.CurrentPlayerID {
		return ErrNotYourTurn
	}

	color := s.Match.ColorOf(identity.UserID)
	if err := validateMove(s.Match.Board, color, mv); err != nil {
		return err
	}

	s.Match.Board = engine.ApplyMove(s.Match.Board, mv)
	s.Match.History = append(s.Match.History, models.HistoryEntry{
		Move:      mv.Notation(),
		Username:  identity.Username,
		Timestamp: time.Now().UTC(),
	})
	next := s.Match.OpponentOf(identity.UserID)
	s.Match.CurrentPlayerID = next
	o.persist(ctx, s)
	o.record(s.MatchID, identity.UserID, "move", map[string]interface{}{"move": mv.Notation()})
	s.broadcast(Event{Type: EventGameUpdate, Match: s.snapshot(), LastMove: &mv})

	if outcome := engine.CheckWinCondition(s.Match.Board, color.Opponent()); outcome.Finished {
		o.concludeLocked(ctx, s, identity.UserID, models.StatusFinished, outcome.Reason, false)
		return nil
	}
	o.armTurnLocked(s)
	return nil
}

// Surrender is an immediate forfeiture by the acting player, settled
// as a normal loss rather than an abandonment.
func (o *Orchestrator) Surrender(ctx context.Context, s *Session, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed || s.Match.Status != models.StatusInProgress {
		return ErrBadState
	}
	if s.seatFor(identity.UserID) == nil {
		return ErrNotParticipant
	}
	o.concludeLocked(ctx, s, s.Match.OpponentOf(identity.UserID), models.StatusFinished, ReasonSurrender, false)
	return nil
}

// Cancel lets the creator close a match nobody has joined yet.
func (o *Orchestrator) Cancel(ctx context.Context, s *Session, identity models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed || s.Match.Status != models.StatusWaiting {
		return ErrBadState
	}
	if identity.UserID != s.Match.Player1ID {
		return ErrNotParticipant
	}
	o.cancelMatchLocked(ctx, s, ReasonCancelled)
	return nil
}

// Disconnect clears the departing peer's output channel. While the
// match is inprogress, the remaining peer is notified and a
// reconnection grace timer starts; elsewhere the seat is just unbound.
func (o *Orchestrator) Disconnect(s *Session, identity models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}
	seatIdx := s.Match.SeatOf(identity.UserID)
	if seatIdx == 0 {
		return
	}
	st := s.seats[seatIdx-1]
	if st == nil || st.push == nil {
		return
	}
	st.push = nil

	switch s.Match.Status {
	case models.StatusInProgress:
		who := st.identity
		s.broadcast(Event{Type: EventPlayerDisconnected, Player: &who})
		s.armTimer(reconnectKind(seatIdx-1), o.cfg.ReconnectGrace, func() {
			o.reconnectTimeoutLocked(context.Background(), s, seatIdx-1)
		})
		o.record(s.MatchID, identity.UserID, "player_disconnected", nil)
	case models.StatusReadying:
		// Dropping the connection withdraws the confirmation.
		if st.ready {
			st.ready = false
			s.broadcast(Event{Type: EventReadyStatusUpdate, Readiness: s.readiness()})
		}
	}
}

// --- system-triggered transitions (invoked from timer callbacks with the lock held) ---

// lobbyTimeoutLocked cancels a match nobody joined in time.
func (o *Orchestrator) lobbyTimeoutLocked(ctx context.Context, s *Session) {
	if s.Match.Status != models.StatusWaiting {
		return
	}
	o.cancelMatchLocked(ctx, s, ReasonLobbyExpired)
}

// turnTimeoutLocked forfeits the player who failed to move in time.
func (o *Orchestrator) turnTimeoutLocked(ctx context.Context, s *Session) {
	if s.Match.Status != models.StatusInProgress {
		return
	}
	loser := s.Match.CurrentPlayerID
	o.concludeLocked(ctx, s, s.Match.OpponentOf(loser), models.StatusAbandoned, ReasonTurnTimeout, true)
}

// reconnectTimeoutLocked forfeits a player who did not return within
// the reconnection grace.
func (o *Orchestrator) reconnectTimeoutLocked(ctx context.Context, s *Session, seatIdx int) {
	if s.Match.Status != models.StatusInProgress {
		return
	}
	var loser uuid.UUID
	if seatIdx == 0 {
		loser = s.Match.Player1ID
	} else {
		loser = s.Match.Player2ID
	}
	o.concludeLocked(ctx, s, s.Match.OpponentOf(loser), models.StatusAbandoned, ReasonAbandoned, true)
}

// --- terminal transitions ---

// cancelMatchLocked moves a waiting match to cancelled and destroys
// the session. No settlement: nobody played.
func (o *Orchestrator) cancelMatchLocked(ctx context.Context, s *Session, reason string) {
	if s.Match.Status.Terminal() {
		return
	}
	s.Match.Status = models.StatusCancelled
	now := time.Now().UTC()
	s.Match.EndTime = &now
	o.persist(ctx, s)
	o.record(s.MatchID, uuid.Nil, "match_cancelled", map[string]interface{}{"reason": reason})
	s.broadcast(Event{Type: EventGameOver, Reason: reason})
	s.destroy()
	o.sessions.Delete(s.MatchID)
	o.log.WithFields(logrus.Fields{"match": s.MatchID, "reason": reason}).Info("match cancelled")
}

// concludeLocked settles a decided match: status, winner, rank deltas,
// the game_over broadcast, and session destruction. It is idempotent
// per match: a terminal record makes it a no-op, which guards against
// a duplicate timer firing racing a concurrent move.
func (o *Orchestrator) concludeLocked(ctx context.Context, s *Session, winnerID uuid.UUID, status models.MatchStatus, reason string, forfeit bool) {
	if s.Match.Status.Terminal() {
		return
	}
	s.Match.Status = status
	s.Match.WinnerID = winnerID
	s.Match.CurrentPlayerID = uuid.Nil
	now := time.Now().UTC()
	s.Match.EndTime = &now
	o.persist(ctx, s)

	loserID := s.Match.OpponentOf(winnerID)
	if o.ranks != nil {
		if err := o.ranks.ApplyResult(ctx, winnerID, loserID, forfeit); err != nil {
			o.log.WithError(err).WithField("match", s.MatchID).Error("rank settlement failed")
		}
	}
	o.record(s.MatchID, winnerID, "game_over", map[string]interface{}{
		"reason": reason, "forfeit": forfeit, "status": string(status),
	})

	winner := o.identityOf(s, winnerID)
	s.broadcast(Event{Type: EventGameOver, Winner: winner, Reason: reason, Match: s.snapshot()})
	s.destroy()
	o.sessions.Delete(s.MatchID)
	o.log.WithFields(logrus.Fields{
		"match": s.MatchID, "winner": winnerID, "reason": reason,
	}).Info("match concluded")
}

// identityOf resolves a user's identity from their seat, falling back
// to the usernames stored on the record. Lock must be held.
func (o *Orchestrator) identityOf(s *Session, userID uuid.UUID) *models.Identity {
	if st := s.seatFor(userID); st != nil {
		id := st.identity
		return &id
	}
	switch userID {
	case s.Match.Player1ID:
		return &models.Identity{UserID: userID, Username: s.Match.Player1Username}
	case s.Match.Player2ID:
		return &models.Identity{UserID: userID, Username: s.Match.Player2Username}
	}
	return nil
}

// armTurnLocked (re)arms the per-turn clock for the current player and
// starts the countdown ticks. Arming cancels any previous turn timer.
func (o *Orchestrator) armTurnLocked(s *Session) {
	s.turnDeadline = time.Now().Add(o.cfg.TurnClock)
	s.armTimer(timerTurn, o.cfg.TurnClock, func() {
		o.turnTimeoutLocked(context.Background(), s)
	})
	if o.cfg.TickInterval > 0 {
		o.startTicksLocked(s)
	}
}

// startTicksLocked emits timer_update events at the configured cadence
// until the turn timer is superseded or the session dies. The ticks
// share the turn timer's generation, so cancelling or re-arming the
// turn clock silences them.
func (o *Orchestrator) startTicksLocked(s *Session) {
	gen := s.gens[timerTurn]
	current := s.Match.CurrentPlayerID
	go func() {
		ticker := time.NewTicker(o.cfg.TickInterval)
		defer ticker.Stop()
		for range ticker.C {
			s.mu.Lock()
			if s.destroyed || s.gens[timerTurn] != gen {
				s.mu.Unlock()
				return
			}
			left := int(time.Until(s.turnDeadline).Round(time.Second) / time.Second)
			if left < 0 {
				left = 0
			}
			s.broadcast(Event{Type: EventTimerUpdate, Player: o.identityOf(s, current), SecondsLeft: left})
			s.mu.Unlock()
			if left == 0 {
				return
			}
		}
	}()
}

// persist writes the record through the store. A persistence failure
// is surfaced to logs and the in-memory session is not rolled back:
// the durable record may lag volatile state until the next successful
// write. This is a known consistency gap, not silently masked.
func (o *Orchestrator) persist(ctx context.Context, s *Session) {
	if err := o.matches.Save(ctx, s.Match); err != nil {
		o.log.WithError(err).WithField("match", s.MatchID).Error("persist failed; in-memory state retained")
	}
}

// record publishes to the journal without blocking the step.
func (o *Orchestrator) record(matchID, actor uuid.UUID, kind string, payload map[string]interface{}) {
	if o.journal == nil {
		return
	}
	go o.journal.Record(context.Background(), matchID, actor, kind, payload)
}
