package optimizer

import (
	"context"
	"fmt"

	"github.com/porterchild/self-prompting/components"
)

// JudgmentObserver is called after every judgment with the trial index, the
// judge's full reasoning text (empty when no model call was made) and the
// extracted verdict.
type JudgmentObserver func(trial int, reasoning string, verdict Verdict)

// Judge scores a batch of answers against the probe's reference answer using
// a semantic-equivalence judgment from the completion service. Exact string
// matching is useless here: the correct answer can be phrased many ways, so
// the judge model grades free-form and reports through a strict trailing
// marker that ParseVerdict extracts.
type Judge struct {
	client   components.Completer
	observer JudgmentObserver
}

// JudgeOption configures a Judge
type JudgeOption = func(*Judge)

// WithJudgmentObserver sets a per-judgment observer.
func WithJudgmentObserver(fn JudgmentObserver) JudgeOption {
	return func(j *Judge) {
		j.observer = fn
	}
}

// NewJudge returns a Judge issuing judgment requests through the given client.
func NewJudge(client components.Completer, options ...JudgeOption) *Judge {
	ret := &Judge{client: client}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Evaluate scores every answer and returns the fraction judged correct, an
// exact ratio over the full batch size. Empty answers are scored incorrect
// without consulting the model. A failed judgment call scores that answer
// incorrect and the batch continues; an error is returned only when every
// judgment call failed, leaving no signal at all.
func (j *Judge) Evaluate(ctx context.Context, answers []string, probe Probe) (float64, error) {
	if len(answers) == 0 {
		return 0, fmt.Errorf("no answers to evaluate")
	}
	var (
		correctCount int
		failed       int
		attempted    int
		lastErr      error
	)
	for i, answer := range answers {
		if answer == "" {
			j.observe(i, "", VerdictIncorrect)
			continue
		}
		attempted++
		msg := components.NewUserMessage(judgmentRequest(probe, answer))
		judgment, err := j.client.Complete(ctx, []components.Message{*msg})
		if err != nil {
			failed++
			lastErr = err
			j.observe(i, "", VerdictIncorrect)
			continue
		}
		verdict := ParseVerdict(judgment)
		if verdict == VerdictCorrect {
			correctCount++
		}
		j.observe(i, judgment, verdict)
	}
	if attempted > 0 && failed == attempted {
		return 0, fmt.Errorf("judging failed for all %d answers: %w", attempted, lastErr)
	}
	return float64(correctCount) / float64(len(answers)), nil
}

func (j *Judge) observe(trial int, reasoning string, verdict Verdict) {
	if j.observer != nil {
		j.observer(trial, reasoning, verdict)
	}
}

// judgmentRequest builds the semantic-equivalence judgment request for one
// candidate answer.
func judgmentRequest(probe Probe, answer string) string {
	return fmt.Sprintf(
		"You are judging the correctness of a test question.\n"+
			"Question: '%s'\n"+
			"Ground Truth answer: '%s'\n\n"+
			"Determine if the following answer is semantically equivalent to the ground truth answer (even if wording differs slightly). "+
			"Provide a brief reasoning, then end your response with exactly 'The answer is correct' if it matches the ground truth, or 'The answer is incorrect' if it doesn't.\n\n"+
			"Here is the answer to judge: '%s'\n",
		probe.Question, probe.ReferenceAnswer, answer,
	)
}
