package simple

import (
	"fmt"
	"strings"

	"github.com/porterchild/self-prompting/components/systemprompt"
)

// Generator is a plain sectioned prompt generator: a content body followed by
// one section per registered context provider.
type Generator struct {
	systemprompt.BaseGenerator
	content string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new prompt Generator
func New(content string, options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	ret.content = content
	return ret
}

func (g *Generator) Generate() string {
	providers := g.ContextProviders()
	promptParts := make([]string, 0, len(providers)*3+2)
	promptParts = append(promptParts, g.content)
	promptParts = append(promptParts, "")
	for _, provider := range providers {
		if info := provider.Info(); info != "" {
			promptParts = append(promptParts, fmt.Sprintf("# %s", provider.Title()))
			promptParts = append(promptParts, info)
			promptParts = append(promptParts, "")
		}
	}
	return strings.TrimSpace(strings.Join(promptParts, "\n"))
}
