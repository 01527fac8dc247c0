package server

import (
	"log"
	"sync"
	"time"

	"triline/game"
	"triline/models"
	"triline/ranking"
	"triline/utils"
)

// VirtualOpponent is the automated player the coordinator hands a
// requester to in IA mode. The adapter re-enters through the same
// coordinator surface as any other participant, so the coordinator never
// learns how moves are chosen.
type VirtualOpponent interface {
	Challenge(rivalConnID string)
}

// Mirror receives the encoded top-ten snapshot every time the ranking
// changes, for external readers. Implementations must not block.
type Mirror interface {
	PublishTop(encoded string)
}

// Options carries the coordinator's timing and scoring knobs.
type Options struct {
	RestartDelay      time.Duration
	BroadcastInterval time.Duration
	WinPoints         int
	DrawPoints        int
	LeaderboardSize   int
}

func DefaultOptions() Options {
	return Options{
		RestartDelay:      2000 * time.Millisecond,
		BroadcastInterval: 2000 * time.Millisecond,
		WinPoints:         100,
		DrawPoints:        10,
		LeaderboardSize:   10,
	}
}

// Coordinator owns the waiting queue, the active session set and the
// participant registry, and is the only place pairing policy lives. One
// mutex serializes every mutation of that shared state; outbound sends
// and deferred callbacks (restart delay, leaderboard broadcast, virtual
// opponent replies) happen without it and re-validate on re-entry.
type Coordinator struct {
	mu           sync.Mutex
	opts         Options
	scores       *ranking.Ranking
	queue        []*Participant
	participants map[string]*Participant // conn id -> participant
	sessions     map[string]*Session     // game id -> session
	connGame     map[string]string       // conn id -> game id
	subscribers  map[string]Conn
	virtual      VirtualOpponent
	mirror       Mirror
	stop         chan struct{}
	stopOnce     sync.Once
}

func NewCoordinator(scores *ranking.Ranking, opts Options) *Coordinator {
	return &Coordinator{
		opts:         opts,
		scores:       scores,
		participants: make(map[string]*Participant),
		sessions:     make(map[string]*Session),
		connGame:     make(map[string]string),
		subscribers:  make(map[string]Conn),
		stop:         make(chan struct{}),
	}
}

// SetVirtualOpponent wires the automated player in. Called once during
// startup, before any connection is accepted.
func (c *Coordinator) SetVirtualOpponent(v VirtualOpponent) {
	c.virtual = v
}

// SetMirror wires an optional ranking snapshot mirror in.
func (c *Coordinator) SetMirror(m Mirror) {
	c.mirror = m
}

// Start launches the periodic leaderboard broadcast.
func (c *Coordinator) Start() {
	go c.broadcastLoop()
}

// Stop halts the broadcast loop. In-flight sessions keep running.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// RequestStart sanitizes the name and dispatches by mode: hand off to the
// virtual opponent, pair directly with a named rival, pair with the queue
// head, or wait in the queue. A second queued player with the same name
// is rejected with ErrUsernameExisting.
func (c *Coordinator) RequestStart(conn Conn, name string, mode models.Mode, rivalID string) error {
	name = utils.CleanName(name)

	c.mu.Lock()
	if c.queuedByNameLocked(name) != nil {
		c.mu.Unlock()
		return models.ErrUsernameExisting
	}

	p := &Participant{Name: name, Conn: conn}
	c.participants[conn.ID()] = p

	if mode == models.ModeIA && c.virtual != nil {
		c.mu.Unlock()
		log.Printf("[QUEUE] %s requested a virtual opponent", name)
		c.virtual.Challenge(conn.ID())
		return nil
	}

	if rivalID != "" {
		rival := c.findByConnLocked(rivalID)
		if rival != nil && rival.Name != name {
			if _, busy := c.connGame[rivalID]; !busy {
				c.dequeueLocked(rivalID)
				c.createSessionLocked(p, rival)
				c.mu.Unlock()
				return nil
			}
		}
	}

	if len(c.queue) > 0 {
		rival := c.queue[0]
		c.queue = c.queue[1:]
		if rival.Conn.ID() == conn.ID() || rival.Name == name {
			// Never pair a player with itself. The dequeued rival is
			// gone and the requester is not re-queued, matching the
			// behavior of the original pairing policy.
			log.Printf("[QUEUE] self-pairing guard hit for %s, request dropped", name)
			c.mu.Unlock()
			return nil
		}
		c.createSessionLocked(p, rival)
		c.mu.Unlock()
		return nil
	}

	c.queue = append(c.queue, p)
	log.Printf("[QUEUE] %s is waiting for a rival", name)
	c.mu.Unlock()
	return nil
}

// RequestMove routes a move to its session. Unknown game, unknown player
// and illegal moves come back as the GameError the caller reports; a
// finishing move schedules the delayed restart and refreshes the mirror.
func (c *Coordinator) RequestMove(gameID, name string, x, y int) error {
	c.mu.Lock()
	s, ok := c.sessions[gameID]
	if !ok {
		c.mu.Unlock()
		return models.ErrGameNotFound
	}

	finished, err := s.HandleMove(name, x, y)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	var encoded string
	if finished {
		encoded = c.scores.EncodeTop(c.opts.LeaderboardSize)
		time.AfterFunc(c.opts.RestartDelay, func() {
			c.restartSession(gameID)
		})
	}
	c.mu.Unlock()

	if finished && c.mirror != nil {
		c.mirror.PublishTop(encoded)
	}
	return nil
}

// Disconnect runs when a connection goes away: leave the leaderboard
// subscription, leave the queue, and end the session in favor of the
// remaining participant.
func (c *Coordinator) Disconnect(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.subscribers, conn.ID())

	p := c.findByConnLocked(conn.ID())
	if p == nil {
		return
	}
	delete(c.participants, conn.ID())

	if c.dequeueLocked(conn.ID()) {
		log.Printf("[QUEUE] %s left the queue", p.Name)
	}

	if gameID, ok := c.connGame[conn.ID()]; ok {
		if s, ok := c.sessions[gameID]; ok {
			log.Printf("[SESSION] %s disconnected, ending game %s", p.Name, gameID)
			s.EndByDisconnect(conn.ID())
			c.removeSessionLocked(s)
		}
	}
}

// EndSession tears a session down explicitly; both sides get a draw
// outcome since nobody won.
func (c *Coordinator) EndSession(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[gameID]
	if !ok {
		return
	}
	s.End()
	c.removeSessionLocked(s)
}

// SubscribeToLeaderboard adds the connection to the periodic top-ten
// broadcast. The subscription dies with the connection.
func (c *Coordinator) SubscribeToLeaderboard(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers[conn.ID()] = conn
}

// BoardSnapshot hands observers a copy of a session's grid. The virtual
// opponent uses it to choose a move; a stale game id simply reports false.
func (c *Coordinator) BoardSnapshot(gameID string) ([game.Size][game.Size]game.Cell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[gameID]
	if !ok {
		return [game.Size][game.Size]game.Cell{}, false
	}
	return s.Board.Cells(), true
}

// restartSession fires after the restart delay. The session may have
// ended while the timer was pending, so existence and state are
// re-checked under the lock before anything happens.
func (c *Coordinator) restartSession(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[gameID]
	if !ok {
		return
	}
	if s.Restart() {
		log.Printf("[SESSION] game %s restarted", gameID)
	}
}

func (c *Coordinator) createSessionLocked(p0, p1 *Participant) *Session {
	s := newSession(p0, p1, c.scores, c.opts.WinPoints, c.opts.DrawPoints)
	c.sessions[s.ID] = s
	c.connGame[p0.Conn.ID()] = s.ID
	c.connGame[p1.Conn.ID()] = s.ID
	log.Printf("[SESSION] game %s started: %s vs %s", s.ID, p0.Name, p1.Name)
	return s
}

func (c *Coordinator) removeSessionLocked(s *Session) {
	delete(c.sessions, s.ID)
	for _, p := range s.Players {
		delete(c.connGame, p.Conn.ID())
	}
	log.Printf("[SESSION] game %s removed", s.ID)
}

// dequeueLocked removes the participant behind connID from the waiting
// queue, reporting whether it was there.
func (c *Coordinator) dequeueLocked(connID string) bool {
	for i, q := range c.queue {
		if q.Conn.ID() == connID {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			return true
		}
	}
	return false
}

// findByConnLocked resolves a participant by connection handle.
func (c *Coordinator) findByConnLocked(connID string) *Participant {
	return c.participants[connID]
}

// queuedByNameLocked resolves a waiting participant by display name.
func (c *Coordinator) queuedByNameLocked(name string) *Participant {
	for _, q := range c.queue {
		if q.Name == name {
			return q
		}
	}
	return nil
}

func (c *Coordinator) broadcastLoop() {
	ticker := time.NewTicker(c.opts.BroadcastInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.broadcastLeaderboard()
		}
	}
}

func (c *Coordinator) broadcastLeaderboard() {
	encoded := c.scores.EncodeTop(c.opts.LeaderboardSize)
	c.mu.Lock()
	subs := make([]Conn, 0, len(c.subscribers))
	for _, conn := range c.subscribers {
		subs = append(subs, conn)
	}
	c.mu.Unlock()
	for _, conn := range subs {
		conn.Send(models.NewLeaderboard(encoded))
	}
}
