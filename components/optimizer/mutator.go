package optimizer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/porterchild/self-prompting/components"
	"github.com/porterchild/self-prompting/components/systemprompt"
	"github.com/porterchild/self-prompting/components/systemprompt/simple"
	"github.com/porterchild/self-prompting/components/tokencounter"
)

// NewPromptMarker is the exact, case-sensitive marker the meta-model is
// instructed to terminate with. Everything after its first occurrence is the
// new prompt.
const NewPromptMarker = "NEW PROMPT:"

// ErrRepeatedPrompt reports that the meta-model reproduced a prompt already
// present in history despite being instructed not to.
var ErrRepeatedPrompt = errors.New("mutated prompt repeats a previous prompt")

// MutationObserver is called after every mutation attempt with the
// meta-model's full reasoning and the extracted new prompt.
type MutationObserver func(reasoning, newPrompt string)

// Mutator proposes the next candidate prompt from the current one, its
// accuracy and the run history. The exploration policy — vary hypotheses,
// never repeat history, stay domain-general — is carried by the meta-request
// instructions; the repeat constraint is additionally enforced with a hash
// check against history.
type Mutator struct {
	client   components.Completer
	observer MutationObserver

	// counter and tokenBudget bound how much rendered history the
	// meta-request carries; zero budget means all of it
	counter     tokencounter.TokenCounter
	tokenBudget int

	// repeat guard is on unless explicitly disabled
	noRepeatGuard bool
}

// MutatorOption configures a Mutator
type MutatorOption = func(*Mutator)

// WithMutationObserver sets an observer for mutation attempts.
func WithMutationObserver(fn MutationObserver) MutatorOption {
	return func(m *Mutator) {
		m.observer = fn
	}
}

// WithHistoryTokenBudget caps the rendered history included in mutation
// requests at budget tokens, keeping the most recent records. A nil counter
// or non-positive budget disables the cap.
func WithHistoryTokenBudget(counter tokencounter.TokenCounter, budget int) MutatorOption {
	return func(m *Mutator) {
		m.counter = counter
		m.tokenBudget = budget
	}
}

// WithoutRepeatGuard disables the hash check against history, leaving the
// non-repetition constraint to instruction-following alone.
func WithoutRepeatGuard() MutatorOption {
	return func(m *Mutator) {
		m.noRepeatGuard = true
	}
}

// NewMutator returns a Mutator issuing meta-requests through the given client.
func NewMutator(client components.Completer, options ...MutatorOption) *Mutator {
	ret := &Mutator{client: client}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Mutate proposes a new prompt from the current prompt, its accuracy and the
// full history. The returned prompt is the marker-extracted text, or the
// whole trimmed response when the meta-model omitted the marker.
func (m *Mutator) Mutate(ctx context.Context, current string, accuracy float64, history []RoundRecord) (string, error) {
	msg := components.NewUserMessage(m.mutationRequest(current, accuracy, history))
	response, err := m.client.Complete(ctx, []components.Message{*msg})
	if err != nil {
		return "", err
	}
	response = strings.TrimSpace(response)
	next := ExtractNewPrompt(response)
	if m.observer != nil {
		m.observer(response, next)
	}
	if !m.noRepeatGuard && repeatsHistory(next, history) {
		return "", ErrRepeatedPrompt
	}
	return next, nil
}

// mutationRequest assembles the meta-reasoning request: the improvement task
// and current state up front, then the rendered history, then the exploration
// policy and output contract so the marker instruction stays last.
func (m *Mutator) mutationRequest(current string, accuracy float64, history []RoundRecord) string {
	content := fmt.Sprintf(
		"You are improving a prompt for an LLM to answer a question accurately.\n\n"+
			"Current prompt: '%s'\n\n"+
			"Current accuracy: %.1f%%",
		current, accuracy*100,
	)
	gen := simple.New(content, simple.WithContextProviders(
		&historyContextProvider{
			records: history,
			counter: m.counter,
			budget:  m.tokenBudget,
		},
		staticContextProvider{
			title: "Instructions",
			info: "Suggest an improved version of the prompt to increase accuracy. " +
				"Consider the weaknesses of LLMs when crafting an improved prompt. " +
				"**Do not repeat any previous prompt.** Keep trying new things, beyond just small iterations; " +
				"formulate hypotheses and run experiments to validate or invalidate them. " +
				"Even if there is a pattern in your previous attempts, never mindlessly continue the pattern at the expense of trying a new hypothesis.\n\n" +
				"The new prompt must be general and generic, without any specific hints, details, or references to the question, answer, or scenario. " +
				"First reason about the results you've achieved so far, and then plan the next experiment you will perform. " +
				"Then end your response with " + NewPromptMarker + " <your new prompt>",
		},
	))
	return gen.Generate()
}

// ExtractNewPrompt returns the trimmed text after the first occurrence of
// NewPromptMarker, or the whole trimmed response when the marker is absent.
func ExtractNewPrompt(response string) string {
	if idx := strings.Index(response, NewPromptMarker); idx >= 0 {
		return strings.TrimSpace(response[idx+len(NewPromptMarker):])
	}
	return strings.TrimSpace(response)
}

// repeatsHistory reports whether the candidate prompt collides with any
// prompt already recorded, up to case and whitespace.
func repeatsHistory(candidate string, history []RoundRecord) bool {
	digest := promptDigest(candidate)
	for _, rec := range history {
		if promptDigest(rec.Prompt) == digest {
			return true
		}
	}
	return false
}

func promptDigest(prompt string) [sha256.Size]byte {
	normalized := strings.Join(strings.Fields(strings.ToLower(prompt)), " ")
	return sha256.Sum256([]byte(normalized))
}

// staticContextProvider is a fixed titled block.
type staticContextProvider struct {
	title string
	info  string
}

var _ systemprompt.ContextProvider = staticContextProvider{}

func (p staticContextProvider) Title() string { return p.title }

func (p staticContextProvider) Info() string { return p.info }

// historyContextProvider renders history as indexed prompt/accuracy blocks,
// optionally keeping only the newest records that fit a token budget. Indices
// always reflect positions in the full history.
type historyContextProvider struct {
	records []RoundRecord
	counter tokencounter.TokenCounter
	budget  int
}

var _ systemprompt.ContextProvider = (*historyContextProvider)(nil)

func (p *historyContextProvider) Title() string {
	return "History of past prompts and their accuracies"
}

func (p *historyContextProvider) Info() string {
	start := 0
	if p.budget > 0 && p.counter != nil {
		start = p.budgetStart()
	}
	var b strings.Builder
	for i := start; i < len(p.records); i++ {
		fmt.Fprintf(&b, "%d. Prompt: '%s'\n\nEnd of Prompt %d. Accuracy: %.1f%%\n",
			i+1, p.records[i].Prompt, i+1, p.records[i].Accuracy*100)
	}
	return strings.TrimRight(b.String(), "\n")
}

// budgetStart walks backwards from the newest record, accumulating rendered
// token counts until the budget is spent, and returns the first index kept.
// The newest record is always kept even when it alone exceeds the budget.
func (p *historyContextProvider) budgetStart() int {
	remaining := p.budget
	for i := len(p.records) - 1; i >= 0; i-- {
		rendered := fmt.Sprintf("%d. Prompt: '%s'\n\nEnd of Prompt %d. Accuracy: %.1f%%\n",
			i+1, p.records[i].Prompt, i+1, p.records[i].Accuracy*100)
		remaining -= p.counter.Count([]byte(rendered))
		if remaining < 0 {
			if i == len(p.records)-1 {
				return i
			}
			return i + 1
		}
	}
	return 0
}
