package errors

import "errors"

var (
	ErrMotionNotFound    = errors.New("motion not found")
	ErrActionNotFound    = errors.New("motion action not found")
	ErrBallotNotFound    = errors.New("ballot not found")
	ErrMotionExists      = errors.New("motion already exists")
	ErrNotProposer       = errors.New("caller is not the motion proposer")
	ErrInsufficientStake = errors.New("caller balance is below the motion threshold")
	ErrInvalidCategory   = errors.New("invalid motion category")
	ErrInvalidDuration   = errors.New("voting duration is below the minimum")
	ErrInvalidChoice     = errors.New("invalid ballot choice")
	ErrInvalidActionKind = errors.New("invalid action kind")
	ErrInvalidAction     = errors.New("invalid action input")
	ErrInvalidStatus     = errors.New("motion is in the wrong status for this operation")
	ErrVotingNotOpen     = errors.New("voting has not opened yet")
	ErrVotingClosed      = errors.New("voting deadline has passed")
	ErrTooEarly          = errors.New("operation attempted before its temporal gate")
	ErrNoVotingPower     = errors.New("caller has no voting power")
	ErrTransferFailed    = errors.New("deposit transfer failed")
	ErrBalanceQuery      = errors.New("balance query failed")
	ErrEffectFailed      = errors.New("action effect failed")
	ErrSettingNotFound   = errors.New("protocol setting not found")

	ErrIdempotencyConflict = errors.New("idempotency key conflict")
	ErrConflict            = errors.New("governance record conflict")
)
