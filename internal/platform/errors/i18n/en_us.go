package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
const (
	CodeDuelNotFound          = "DUEL_NOT_FOUND"
	CodeDuelAlreadyExists     = "DUEL_ALREADY_EXISTS"
	CodeDuelSelfPlay          = "DUEL_SELF_PLAY"
	CodeDuelInvalidOpponent   = "DUEL_INVALID_OPPONENT"
	CodeDuelNotYourTurn       = "DUEL_NOT_YOUR_TURN"
	CodeDuelOver              = "DUEL_OVER"
	CodeDuelTimeoutNotReached = "DUEL_TIMEOUT_NOT_REACHED"
	CodeDuelTurnTimeout       = "DUEL_TURN_TIMEOUT"
	CodeDuelWrongPlayer       = "DUEL_WRONG_PLAYER"
	CodeNotFound              = "NOT_FOUND"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		CodeDuelNotFound:          "No duel exists between these players",
		CodeDuelAlreadyExists:     "A duel between {{.PlayerA}} and {{.PlayerB}} is already in progress",
		CodeDuelSelfPlay:          "You cannot start a duel against yourself",
		CodeDuelInvalidOpponent:   "An opponent is required",
		CodeDuelNotYourTurn:       "It is not your turn to act",
		CodeDuelOver:              "This duel is already over",
		CodeDuelTimeoutNotReached: "Your opponent still has time to act",
		CodeDuelTurnTimeout:       "Your turn window has expired",
		CodeDuelWrongPlayer:       "You are not the {{.Role}} player in this duel",
		CodeNotFound:              "The requested record was not found",
	},
}
