package bencs

import (
	"go.uber.org/zap"

	"github.com/stewi1014/bencs/encio"
	"github.com/stewi1014/bencs/encode"
)

// Config defines configuration for Encoders and Decoders
type Config struct {
	// Source builds codecs for the types being encoded.
	// If nil, encode.DefaultSource is used.
	// It is wrapped in an encode.CachingSource, so it does not need to handle recursive types itself.
	Source encode.Source

	// MaxDepth limits how deeply nested decoded lists may be.
	// Recursion depth follows nesting depth, so decoders of untrusted input should set it.
	// If 0, there is no limit.
	MaxDepth int

	// Logger receives debug messages about failed calls.
	// If nil, encio.Logger() is used.
	Logger *zap.Logger
}

func (c *Config) copyAndFill() *Config {
	config := new(Config)
	if c != nil {
		*config = *c
	}

	if config.Source == nil {
		config.Source = encode.DefaultSource
	}

	if config.Logger == nil {
		config.Logger = encio.Logger()
	}

	return config
}
