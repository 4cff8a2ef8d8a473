package optimizer

import (
	"context"
	"fmt"
	"log"

	"github.com/porterchild/self-prompting/components"
)

// IterationCallback is called after each round's evaluation with the round
// number (1-based) and the record produced.
type IterationCallback func(round int, rec RoundRecord)

// PromptOptimizer orchestrates the closed-loop refinement of an instruction
// prompt against a fixed probe: every round it samples a batch of answers
// under the current prompt, judges them into an accuracy, and asks the
// mutator for the next candidate. Failures degrade rather than abort: a
// failed evaluation scores 0.0, a failed mutation keeps the current prompt.
type PromptOptimizer struct {
	sampler *Sampler
	judge   *Judge
	mutator *Mutator

	probe   Probe
	config  Config
	history *RunHistory

	iterationCallback IterationCallback
}

// NewPromptOptimizer creates a PromptOptimizer measuring prompts against the
// given probe, issuing all model calls through the given client. Defaults:
// 50 rounds, 10 trials per round, a generic initial prompt.
func NewPromptOptimizer(client components.Completer, probe Probe, options ...Option) (*PromptOptimizer, error) {
	cfg := OptimizerConfig{
		rounds:        50,
		trials:        10,
		initialPrompt: DefaultInitialPrompt,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	conf := Config{
		Rounds:        cfg.rounds,
		Trials:        cfg.trials,
		InitialPrompt: cfg.initialPrompt,
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(probe); err != nil {
		return nil, fmt.Errorf("invalid probe: %w", err)
	}
	return &PromptOptimizer{
		sampler:           NewSampler(client, cfg.samplerOptions...),
		judge:             NewJudge(client, cfg.judgeOptions...),
		mutator:           NewMutator(client, cfg.mutatorOptions...),
		probe:             probe,
		config:            conf,
		history:           NewRunHistory(),
		iterationCallback: cfg.iterationCallback,
	}, nil
}

// Run executes the configured number of rounds and returns the prompt active
// after the final round. Every round samples and evaluates; every round but
// the last appends its record to history and mutates. Only context
// cancellation ends a run early.
func (po *PromptOptimizer) Run(ctx context.Context) (string, error) {
	current := po.config.InitialPrompt
	for round := 1; round <= po.config.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return current, err
		}
		answers := po.sampler.Sample(ctx, current, po.probe.Question, po.config.Trials)
		accuracy, err := po.judge.Evaluate(ctx, answers, po.probe)
		if err != nil {
			log.Printf("evaluation failed on round %d/%d: %v", round, po.config.Rounds, err)
			accuracy = 0.0
		}
		rec := RoundRecord{
			ID:         components.NewTurnID(),
			Prompt:     current,
			Accuracy:   accuracy,
			TrialCount: len(answers),
		}
		if fn := po.iterationCallback; fn != nil {
			fn(round, rec)
		}
		if round == po.config.Rounds {
			break
		}
		po.history.Append(rec)
		next, err := po.mutator.Mutate(ctx, current, accuracy, po.history.Records())
		if err != nil {
			log.Printf("mutation failed on round %d/%d, keeping current prompt: %v", round, po.config.Rounds, err)
			continue
		}
		current = next
	}
	return current, nil
}

// History returns the run history. It holds one record per completed
// non-final round, in order.
func (po *PromptOptimizer) History() *RunHistory {
	return po.history
}

// Config returns the immutable run configuration.
func (po *PromptOptimizer) Config() Config {
	return po.config
}

// Probe returns the fixed probe of the run.
func (po *PromptOptimizer) Probe() Probe {
	return po.probe
}
