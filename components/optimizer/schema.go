package optimizer

import "github.com/porterchild/self-prompting/schema"

// DefaultInitialPrompt is the generic instruction every run starts from
// unless configured otherwise.
const DefaultInitialPrompt = "Answer the following question."

// Probe is the fixed question and reference answer a run measures prompts
// against. Immutable for the entire run.
type Probe struct {
	schema.Base
	// Question is the probe question posed on every trial
	Question string `json:"question" validate:"required"`

	// ReferenceAnswer is the ground truth the judge compares candidate
	// answers to
	ReferenceAnswer string `json:"reference_answer" validate:"required"`
}

// RoundRecord captures the outcome of one optimization round: the prompt that
// was active and the accuracy it achieved over a fixed number of trials.
type RoundRecord struct {
	schema.Base
	// ID uniquely identifies the round within the run
	ID string `json:"id,omitempty"`

	// Prompt is the instruction text that was evaluated this round
	Prompt string `json:"prompt"`

	// Accuracy is the fraction of trials judged correct, in [0,1]
	Accuracy float64 `json:"accuracy"`

	// TrialCount is the fixed denominator of the accuracy ratio
	TrialCount int `json:"trial_count"`
}
