package simple

import (
	"github.com/porterchild/self-prompting/components/systemprompt"
)

type Option = func(g *Generator)

// WithContextProviders registers context providers on the generator
func WithContextProviders(providers ...systemprompt.ContextProvider) Option {
	return func(g *Generator) {
		g.AddContextProviders(providers...)
	}
}
