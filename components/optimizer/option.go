package optimizer

// OptimizerConfig collects construction-time settings for a PromptOptimizer.
type OptimizerConfig struct {
	// rounds is the fixed number of optimization rounds
	rounds int

	// trials is the number of sampled answers per round
	trials int

	// initialPrompt seeds the first round
	initialPrompt string

	// iterationCallback monitors optimization progress
	iterationCallback IterationCallback

	// samplerOptions configure the answer sampler
	samplerOptions []SamplerOption

	// judgeOptions configure the judge
	judgeOptions []JudgeOption

	// mutatorOptions configure the prompt mutator
	mutatorOptions []MutatorOption
}

type Option = func(*OptimizerConfig)

// WithRounds sets the fixed number of optimization rounds.
func WithRounds(rounds int) Option {
	return func(c *OptimizerConfig) {
		c.rounds = rounds
	}
}

// WithTrials sets the number of sampled answers per round.
func WithTrials(trials int) Option {
	return func(c *OptimizerConfig) {
		c.trials = trials
	}
}

// WithInitialPrompt sets the prompt the first round runs under.
func WithInitialPrompt(prompt string) Option {
	return func(c *OptimizerConfig) {
		c.initialPrompt = prompt
	}
}

// WithIterationCallback sets a callback function to be called after each round.
func WithIterationCallback(callback IterationCallback) Option {
	return func(c *OptimizerConfig) {
		c.iterationCallback = callback
	}
}

// WithSamplerOptions forwards options to the answer sampler.
func WithSamplerOptions(options ...SamplerOption) Option {
	return func(c *OptimizerConfig) {
		c.samplerOptions = append(c.samplerOptions, options...)
	}
}

// WithJudgeOptions forwards options to the judge.
func WithJudgeOptions(options ...JudgeOption) Option {
	return func(c *OptimizerConfig) {
		c.judgeOptions = append(c.judgeOptions, options...)
	}
}

// WithMutatorOptions forwards options to the prompt mutator.
func WithMutatorOptions(options ...MutatorOption) Option {
	return func(c *OptimizerConfig) {
		c.mutatorOptions = append(c.mutatorOptions, options...)
	}
}
