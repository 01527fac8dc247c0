package bot

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"triline/game"
	"triline/models"
	"triline/server"
)

// Coordinator is the surface the adapter plays through. It is the same
// surface human connections use; the adapter gets no shortcuts besides
// the read-only board snapshot.
type Coordinator interface {
	RequestStart(conn server.Conn, name string, mode models.Mode, rivalID string) error
	RequestMove(gameID, name string, x, y int) error
	BoardSnapshot(gameID string) ([game.Size][game.Size]game.Cell, bool)
}

// Adapter joins matches as a virtual player. Every Challenge spawns an
// independent virtual participant, so any number of bot matches can run
// at once.
type Adapter struct {
	coord    Coordinator
	selector MoveSelector
	name     string
	minDelay time.Duration
	maxDelay time.Duration
}

func NewAdapter(coord Coordinator, selector MoveSelector, name string, minDelay, maxDelay time.Duration) *Adapter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Adapter{
		coord:    coord,
		selector: selector,
		name:     name,
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Challenge pairs a virtual player against the participant behind
// rivalConnID, entering through the explicit-opponent mode of the
// coordinator. Runs asynchronously; the caller is never blocked.
func (a *Adapter) Challenge(rivalConnID string) {
	vp := &virtualPlayer{
		adapter: a,
		id:      uuid.New().String(),
	}
	go func() {
		if err := a.coord.RequestStart(vp, a.name, models.ModePvP, rivalConnID); err != nil {
			log.Printf("[BOT] could not join a match: %v", err)
		}
	}()
}

// responseDelay picks a think time inside the configured bounds.
func (a *Adapter) responseDelay() time.Duration {
	spread := a.maxDelay - a.minDelay
	if spread <= 0 {
		return a.minDelay
	}
	return a.minDelay + time.Duration(rand.Int63n(int64(spread)))
}

// virtualPlayer is the connection handle of one bot participant. It
// receives the same lifecycle events a human client would and reacts to
// them; that is the whole integration contract.
type virtualPlayer struct {
	adapter *Adapter
	id      string

	mu     sync.Mutex
	gameID string
	mark   game.Cell
}

func (v *virtualPlayer) ID() string {
	return v.id
}

// Send is invoked by the coordinator while it holds its lock, so nothing
// here may call back into the coordinator synchronously. Moves are
// scheduled and played later.
func (v *virtualPlayer) Send(ev models.Event) {
	switch ev.Name {
	case models.EventGameStarted:
		v.mu.Lock()
		v.gameID = models.ArgString(ev.Args, 0)
		v.mark = game.Mark0
		if models.ArgInt(ev.Args, 3) == 1 {
			v.mark = game.Mark1
		}
		v.mu.Unlock()
		if models.ArgBool(ev.Args, 2) {
			v.schedulePlay()
		}
	case models.EventGameRestarted:
		if models.ArgBool(ev.Args, 0) {
			v.schedulePlay()
		}
	case models.EventRivalPlay:
		v.schedulePlay()
	case models.EventGameEnded:
		v.mu.Lock()
		v.gameID = ""
		v.mu.Unlock()
	case models.EventError:
		// A move rejected because the game or player vanished while we
		// were thinking is a normal outcome; never retried.
		log.Printf("[BOT] %s: server error %v", v.id, ev.Args)
	}
}

func (v *virtualPlayer) schedulePlay() {
	time.AfterFunc(v.adapter.responseDelay(), v.play)
}

func (v *virtualPlayer) play() {
	v.mu.Lock()
	gameID, mark := v.gameID, v.mark
	v.mu.Unlock()
	if gameID == "" {
		return
	}

	cells, ok := v.adapter.coord.BoardSnapshot(gameID)
	if !ok {
		// Game ended during the delay.
		return
	}
	x, y, ok := v.adapter.selector.SelectMove(cells, mark)
	if !ok {
		return
	}

	if err := v.adapter.coord.RequestMove(gameID, v.adapter.name, x, y); err != nil {
		log.Printf("[BOT] move in game %s rejected: %v", gameID, err)
	}
}
