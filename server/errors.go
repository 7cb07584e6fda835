package server

import "github.com/pkg/errors"

var (
	ErrEpisodeNotFound = errors.New("episode not found")
	ErrTooManyEpisodes = errors.New("maximum episodes reached")
	ErrInvalidStep     = errors.New("action and angle are mutually exclusive")
)
