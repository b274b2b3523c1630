// Package errors provides structured error handling for duel operations.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Duel lifecycle errors
	CodeDuelNotFound          Code = "DUEL_NOT_FOUND"
	CodeDuelAlreadyExists     Code = "DUEL_ALREADY_EXISTS"
	CodeDuelSelfPlay          Code = "DUEL_SELF_PLAY"
	CodeDuelInvalidOpponent   Code = "DUEL_INVALID_OPPONENT"
	CodeDuelNotYourTurn       Code = "DUEL_NOT_YOUR_TURN"
	CodeDuelOver              Code = "DUEL_OVER"
	CodeDuelTimeoutNotReached Code = "DUEL_TIMEOUT_NOT_REACHED"
	CodeDuelTurnTimeout       Code = "DUEL_TURN_TIMEOUT"
	CodeDuelWrongPlayer       Code = "DUEL_WRONG_PLAYER"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeDuelSelfPlay,
		CodeDuelInvalidOpponent:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeDuelNotYourTurn,
		CodeDuelOver,
		CodeDuelTimeoutNotReached,
		CodeDuelTurnTimeout:
		return codes.FailedPrecondition

	// PermissionDenied - caller addressed a role they do not hold
	case CodeDuelWrongPlayer:
		return codes.PermissionDenied

	// AlreadyExists - duplicate creation
	case CodeDuelAlreadyExists:
		return codes.AlreadyExists

	// NotFound - resource doesn't exist
	case CodeDuelNotFound,
		CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
