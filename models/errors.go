package models

// GameError is a validation failure with the stable numeric code the
// protocol exposes through onError. These are never fatal; the state that
// produced them is left untouched.
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

var (
	ErrUsernameExisting = &GameError{Code: 1, Message: "a player with the same name is already waiting"}
	ErrGameNotFound     = &GameError{Code: 2, Message: "game not found"}
	ErrPlayerNotFound   = &GameError{Code: 3, Message: "player not found in game"}
	ErrGamePlay         = &GameError{Code: 4, Message: "illegal move"}
)
