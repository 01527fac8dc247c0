package server

import (
	"strconv"
	"time"

	"triline/game"
	"triline/models"
	"triline/ranking"
)

// Conn is the opaque connection handle a participant is reached through.
// Send is fire-and-forget: implementations must not block the caller and
// must swallow transport failures (the disconnect path cleans up later).
type Conn interface {
	ID() string
	Send(ev models.Event)
}

// Participant is one side of a match: a sanitized display name plus the
// connection it is reached through.
type Participant struct {
	Name string
	Conn Conn
}

type sessionState int

const (
	stateInProgress sessionState = iota
	stateWon
	stateDrawn
	stateEnded
)

// Session owns one board and exactly two participants for the lifetime of
// a match. All methods are called with the coordinator lock held; the
// session has no locking of its own.
type Session struct {
	ID      string
	Players [2]*Participant
	Board   *game.Board

	state      sessionState
	scores     *ranking.Ranking
	winPoints  int
	drawPoints int
}

func newSessionID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// newSession creates the board with a random starting turn and announces
// the match to both participants: rival name, whether it is their turn,
// and their player index.
func newSession(p0, p1 *Participant, scores *ranking.Ranking, winPoints, drawPoints int) *Session {
	s := &Session{
		ID:         newSessionID(),
		Players:    [2]*Participant{p0, p1},
		Board:      game.NewBoard(),
		state:      stateInProgress,
		scores:     scores,
		winPoints:  winPoints,
		drawPoints: drawPoints,
	}
	for i, p := range s.Players {
		p.Conn.Send(models.NewGameStarted(s.ID, s.Players[1-i].Name, s.Board.Turn() == i, i))
	}
	return s
}

func (s *Session) indexOf(name string) int {
	for i, p := range s.Players {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (s *Session) indexOfConn(connID string) int {
	for i, p := range s.Players {
		if p.Conn.ID() == connID {
			return i
		}
	}
	return -1
}

// HandleMove applies a move by the named participant. It returns true
// when the move finished the round (win or draw) and the session now
// waits for its delayed restart. Illegal moves return ErrGamePlay and
// leave every piece of state untouched.
func (s *Session) HandleMove(name string, x, y int) (bool, error) {
	idx := s.indexOf(name)
	if idx < 0 {
		return false, models.ErrPlayerNotFound
	}
	if s.state != stateInProgress {
		return false, models.ErrGamePlay
	}
	if !s.Board.Play(idx, x, y) {
		return false, models.ErrGamePlay
	}

	s.Players[1-idx].Conn.Send(models.NewRivalPlay(s.ID, x, y))

	if line, ok := s.Board.CheckWinner(); ok {
		s.state = stateWon
		winner := s.Players[int(line.Winner)]
		s.scores.Add(winner.Name, s.winPoints)
		for i, p := range s.Players {
			result := models.ResultDefeat
			if i == int(line.Winner) {
				result = models.ResultVictory
			}
			p.Conn.Send(models.NewWin(s.ID, winner.Name, result, string(line.Kind), line.Index))
		}
		return true, nil
	}

	if s.Board.CheckDraw() {
		s.state = stateDrawn
		for _, p := range s.Players {
			s.scores.Add(p.Name, s.drawPoints)
		}
		for _, p := range s.Players {
			p.Conn.Send(models.NewDraw(s.ID))
		}
		return true, nil
	}

	return false, nil
}

// Restart soft-resets the board after a finished round: fresh grid, fresh
// random turn, players retained. Both sides learn whether they start and
// the current cumulative scores. It is a no-op unless the session is in
// the Won or Drawn state (it may have ended during the delay).
func (s *Session) Restart() bool {
	if s.state != stateWon && s.state != stateDrawn {
		return false
	}
	s.Board.Restart()
	s.state = stateInProgress
	for i, p := range s.Players {
		p.Conn.Send(models.NewGameRestarted(s.Board.Turn() == i))
	}
	for i, p := range s.Players {
		p.Conn.Send(models.NewScore(s.scores.Score(p.Name), s.scores.Score(s.Players[1-i].Name)))
	}
	return true
}

// EndByDisconnect transitions to the terminal Ended state when the
// participant behind connID drops. The remaining participant is told it
// won; when the leaver cannot be identified nobody has a determinable win
// and both sides get a draw outcome.
func (s *Session) EndByDisconnect(connID string) {
	if s.state == stateEnded {
		return
	}
	s.state = stateEnded
	idx := s.indexOfConn(connID)
	if idx < 0 {
		for _, p := range s.Players {
			p.Conn.Send(models.NewGameEnded(s.ID, "", models.ResultDraw))
		}
		return
	}
	remaining := s.Players[1-idx]
	remaining.Conn.Send(models.NewGameEnded(s.ID, remaining.Name, models.ResultVictory))
}

// End transitions to the terminal Ended state without a winner, for an
// explicit teardown by the coordinator.
func (s *Session) End() {
	if s.state == stateEnded {
		return
	}
	s.state = stateEnded
	for _, p := range s.Players {
		p.Conn.Send(models.NewGameEnded(s.ID, "", models.ResultDraw))
	}
}
