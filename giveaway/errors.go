package giveaway

import "errors"

// Errors returned by the Manager. The command layer matches on them with errors.Is.
var (
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidWinnerCount = errors.New("invalid winner count")
	ErrPublishFailed      = errors.New("failed to publish giveaway")
	ErrNotFound           = errors.New("giveaway not found")
	ErrForbidden          = errors.New("missing giveaway host role")
	ErrNotEnded           = errors.New("giveaway has not ended")
	ErrNotOpen            = errors.New("giveaway is not accepting entries")
	ErrMissingRole        = errors.New("missing required role")

	// ErrNotMember is returned by a Directory when the user is no longer in the guild.
	ErrNotMember = errors.New("not a guild member")
)
