package model

import "errors"

var (
	// ErrInvalidConfiguration reports a difficulty table that cannot produce a round.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrMissingAsset reports a sound or image lookup miss.
	ErrMissingAsset = errors.New("missing asset")
)
