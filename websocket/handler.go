package websocket

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"triline/models"
	"triline/server"
)

// CreateUpgrader creates a WebSocket upgrader with proper CORS settings
func CreateUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// HandleConnection reads frames from a single client until it goes away,
// routing each verb into the coordinator. Closing the socket, for any
// reason, runs the coordinator's disconnect path exactly once.
func HandleConnection(wsConn *websocket.Conn, coord *server.Coordinator) {
	conn := NewConnection(wsConn)
	defer func() {
		coord.Disconnect(conn)
		conn.Close()
	}()

	log.Printf("[WS] client connected: %s", conn.ID())

	for {
		var ev models.Event
		if err := wsConn.ReadJSON(&ev); err != nil {
			log.Printf("[WS] client %s closed: %v", conn.ID(), err)
			return
		}
		route(conn, ev, coord)
	}
}

func route(conn *Connection, ev models.Event, coord *server.Coordinator) {
	switch ev.Name {
	case models.EventStartGame:
		username := models.ArgString(ev.Args, 0)
		mode := models.Mode(models.ArgInt(ev.Args, 1))
		rivalID := models.ArgString(ev.Args, 2)
		if err := coord.RequestStart(conn, username, mode, rivalID); err != nil {
			sendError(conn, err)
		}
	case models.EventPlayGame:
		gameID := models.ArgString(ev.Args, 0)
		username := models.ArgString(ev.Args, 1)
		x := models.ArgInt(ev.Args, 2)
		y := models.ArgInt(ev.Args, 3)
		if err := coord.RequestMove(gameID, username, x, y); err != nil {
			sendError(conn, err)
		}
	case models.EventSubscribeLeaderboard:
		coord.SubscribeToLeaderboard(conn)
	default:
		log.Printf("[WS] client %s sent unknown event %q", conn.ID(), ev.Name)
	}
}

func sendError(conn *Connection, err error) {
	var ge *models.GameError
	if errors.As(err, &ge) {
		conn.Send(models.NewError(ge.Code, ge.Message))
		return
	}
	conn.Send(models.NewError(0, err.Error()))
}
