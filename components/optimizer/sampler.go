package optimizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/porterchild/self-prompting/components"
)

// TrialObserver is called after every trial with its index, the trimmed
// answer (empty on failure) and the error that caused the failure, if any.
type TrialObserver func(trial int, answer string, err error)

// Sampler issues independent completions for the probe question under a
// candidate prompt. Trials run sequentially and a failed trial degrades to an
// empty answer instead of aborting the batch.
type Sampler struct {
	client   components.Completer
	observer TrialObserver
}

// SamplerOption configures a Sampler
type SamplerOption = func(*Sampler)

// WithTrialObserver sets a per-trial observer.
func WithTrialObserver(fn TrialObserver) SamplerOption {
	return func(s *Sampler) {
		s.observer = fn
	}
}

// NewSampler returns a Sampler issuing completions through the given client.
func NewSampler(client components.Completer, options ...SamplerOption) *Sampler {
	ret := &Sampler{client: client}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Sample collects trialCount independent answers to the question under the
// given prompt. The result always has exactly trialCount entries, in trial
// order; a failed trial leaves an empty string in its slot.
func (s *Sampler) Sample(ctx context.Context, prompt, question string, trialCount int) []string {
	answers := make([]string, trialCount)
	for i := range answers {
		msg := components.NewUserMessage(fmt.Sprintf("%s\n\nQuestion: %s", prompt, question))
		text, err := s.client.Complete(ctx, []components.Message{*msg})
		if err == nil {
			answers[i] = strings.TrimSpace(text)
		}
		if s.observer != nil {
			s.observer(i, answers[i], err)
		}
	}
	return answers
}
