package models

// Mode selects the kind of opponent a player asks for when starting a game.
type Mode int

const (
	ModePvP Mode = 0
	ModeIA  Mode = 1
)

// GameResult is the outcome tag delivered with onWin / onGameEnded.
type GameResult string

const (
	ResultVictory GameResult = "victory"
	ResultDefeat  GameResult = "defeat"
	ResultDraw    GameResult = "draw"
)

// Event is one protocol frame in either direction: a verb plus
// positional arguments.
type Event struct {
	Name string `json:"event"`
	Args []any  `json:"args"`
}

// Client to server verbs.
const (
	EventStartGame            = "startGame"
	EventPlayGame             = "playGame"
	EventSubscribeLeaderboard = "subscribeToLeaderboard"
)

// Server to client verbs.
const (
	EventGameStarted   = "onGameStarted"
	EventGameRestarted = "onGameRestarted"
	EventRivalPlay     = "onRivalPlay"
	EventWin           = "onWin"
	EventDraw          = "onDraw"
	EventGameEnded     = "onGameEnded"
	EventScore         = "onScore"
	EventLeaderboard   = "onLeaderboard"
	EventError         = "onError"
)

// Constructors below keep the positional argument order of the protocol in
// one place. Handlers and tests should never build server frames by hand.

func NewGameStarted(gameID, rivalName string, yourTurn bool, yourIndex int) Event {
	return Event{Name: EventGameStarted, Args: []any{gameID, rivalName, yourTurn, yourIndex}}
}

func NewGameRestarted(yourTurn bool) Event {
	return Event{Name: EventGameRestarted, Args: []any{yourTurn}}
}

func NewRivalPlay(gameID string, x, y int) Event {
	return Event{Name: EventRivalPlay, Args: []any{gameID, x, y}}
}

func NewWin(gameID, winnerName string, result GameResult, where string, index int) Event {
	return Event{Name: EventWin, Args: []any{gameID, winnerName, string(result), where, index}}
}

func NewDraw(gameID string) Event {
	return Event{Name: EventDraw, Args: []any{gameID}}
}

func NewGameEnded(gameID, winnerName string, result GameResult) Event {
	return Event{Name: EventGameEnded, Args: []any{gameID, winnerName, string(result)}}
}

func NewScore(yourScore, rivalScore int) Event {
	return Event{Name: EventScore, Args: []any{yourScore, rivalScore}}
}

func NewLeaderboard(encodedTopTen string) Event {
	return Event{Name: EventLeaderboard, Args: []any{encodedTopTen}}
}

func NewError(code int, message string) Event {
	return Event{Name: EventError, Args: []any{code, message}}
}

// Positional argument accessors. Frames that crossed the wire carry
// float64 numbers (JSON), locally built frames carry native types; both
// shapes are accepted. Missing or mistyped arguments yield zero values,
// except ArgInt which yields -1 so a absent coordinate is out of range.

func ArgString(args []any, i int) string {
	if i < len(args) {
		if s, ok := args[i].(string); ok {
			return s
		}
	}
	return ""
}

// ArgInt truncates fractional values toward zero.
func ArgInt(args []any, i int) int {
	if i < len(args) {
		switch v := args[i].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return -1
}

func ArgBool(args []any, i int) bool {
	if i < len(args) {
		if b, ok := args[i].(bool); ok {
			return b
		}
	}
	return false
}
