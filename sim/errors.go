package sim

import "errors"

var (
	// ErrInvalidConfig marks invalid construction parameters.
	ErrInvalidConfig = errors.New("sim: invalid config")
	// ErrInvalidData marks a candle series the engine cannot use, or a
	// non-positive close/volume inside an observation window.
	ErrInvalidData = errors.New("sim: invalid data")
	// ErrNotReset is returned by Step before the first Reset.
	ErrNotReset = errors.New("sim: step called before reset")
	// ErrEpisodeDone is returned by Step once the episode has terminated.
	ErrEpisodeDone = errors.New("sim: step called after episode done")
)
