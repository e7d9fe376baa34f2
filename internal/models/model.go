package models

import (
	"fmt"

	"github.com/san-kum/simfoundry/internal/dynamo"
)

// Model is a System with a canonical initial state.
type Model interface {
	dynamo.System
	DefaultState() dynamo.State
}

func unknownParam(model, name string) error {
	return fmt.Errorf("%s: unknown param %q: %w", model, name, dynamo.ErrInvalidArgument)
}
