package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triline/models"
	"triline/ranking"
	"triline/server"
)

func newTestServer(t *testing.T) (*httptest.Server, *server.Coordinator) {
	t.Helper()
	opts := server.DefaultOptions()
	opts.RestartDelay = 20 * time.Millisecond
	opts.BroadcastInterval = 10 * time.Millisecond
	coord := server.NewCoordinator(ranking.New(), opts)
	coord.Start()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := CreateUpgrader()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		HandleConnection(conn, coord)
	}))
	t.Cleanup(func() {
		coord.Stop()
		ts.Close()
	})
	return ts, coord
}

func dial(t *testing.T, ts *httptest.Server) *gws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *gws.Conn, name string, args ...any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(models.Event{Name: name, Args: args}))
}

// readUntil reads frames until one with the wanted verb arrives.
func readUntil(t *testing.T, conn *gws.Conn, name string) models.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var ev models.Event
		require.NoError(t, conn.ReadJSON(&ev), "waiting for %s", name)
		if ev.Name == name {
			return ev
		}
	}
}

func TestClientsPairAndExchangeAMove(t *testing.T) {
	ts, _ := newTestServer(t)

	alice := dial(t, ts)
	bob := dial(t, ts)

	send(t, alice, models.EventStartGame, "alice", 0, "")
	send(t, bob, models.EventStartGame, "bob", 0, "")

	evAlice := readUntil(t, alice, models.EventGameStarted)
	evBob := readUntil(t, bob, models.EventGameStarted)

	gameID := models.ArgString(evAlice.Args, 0)
	require.NotEmpty(t, gameID)
	assert.Equal(t, gameID, models.ArgString(evBob.Args, 0))
	assert.Equal(t, "bob", models.ArgString(evAlice.Args, 1))
	assert.Equal(t, "alice", models.ArgString(evBob.Args, 1))

	aliceTurn := models.ArgBool(evAlice.Args, 2)
	bobTurn := models.ArgBool(evBob.Args, 2)
	require.NotEqual(t, aliceTurn, bobTurn)

	mover, other := alice, bob
	moverName := "alice"
	if bobTurn {
		mover, other = bob, alice
		moverName = "bob"
	}

	send(t, mover, models.EventPlayGame, gameID, moverName, 0, 0)
	play := readUntil(t, other, models.EventRivalPlay)
	assert.Equal(t, gameID, models.ArgString(play.Args, 0))
	assert.Equal(t, 0, models.ArgInt(play.Args, 1))
	assert.Equal(t, 0, models.ArgInt(play.Args, 2))
}

func TestDuplicateQueuedUsernameGetsErrorCode1(t *testing.T) {
	ts, _ := newTestServer(t)

	first := dial(t, ts)
	second := dial(t, ts)

	send(t, first, models.EventStartGame, "alice", 0, "")
	// Give the first request time to enter the queue.
	time.Sleep(50 * time.Millisecond)
	send(t, second, models.EventStartGame, "alice", 0, "")

	ev := readUntil(t, second, models.EventError)
	assert.Equal(t, 1, models.ArgInt(ev.Args, 0))
}

func TestUnknownGameGetsErrorCode2(t *testing.T) {
	ts, _ := newTestServer(t)

	conn := dial(t, ts)
	send(t, conn, models.EventPlayGame, "no-such-game", "alice", 0, 0)

	ev := readUntil(t, conn, models.EventError)
	assert.Equal(t, 2, models.ArgInt(ev.Args, 0))
}

func TestSubscribeReceivesLeaderboardFrames(t *testing.T) {
	ts, coord := newTestServer(t)
	_ = coord

	conn := dial(t, ts)
	send(t, conn, models.EventSubscribeLeaderboard)

	ev := readUntil(t, conn, models.EventLeaderboard)
	assert.Len(t, ev.Args, 1)
}

func TestDisconnectEndsTheGameForTheRival(t *testing.T) {
	ts, _ := newTestServer(t)

	alice := dial(t, ts)
	bob := dial(t, ts)

	send(t, alice, models.EventStartGame, "alice", 0, "")
	send(t, bob, models.EventStartGame, "bob", 0, "")
	gameID := models.ArgString(readUntil(t, alice, models.EventGameStarted).Args, 0)
	readUntil(t, bob, models.EventGameStarted)

	require.NoError(t, alice.Close())

	ev := readUntil(t, bob, models.EventGameEnded)
	assert.Equal(t, gameID, models.ArgString(ev.Args, 0))
	assert.Equal(t, "bob", models.ArgString(ev.Args, 1))
	assert.Equal(t, "victory", models.ArgString(ev.Args, 2))
}
