package optimizer

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config is the immutable run configuration. It is validated once at
// construction and never mutated afterwards.
type Config struct {
	// Rounds is the fixed number of sample/evaluate rounds; there is no
	// early stopping
	Rounds int `validate:"min=1"`

	// Trials is the number of independent answers sampled per round
	Trials int `validate:"min=1"`

	// InitialPrompt is the instruction the first round runs under
	InitialPrompt string `validate:"required"`
}

func (c Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid run configuration: %w", err)
	}
	return nil
}
