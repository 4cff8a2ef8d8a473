package optimizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/porterchild/self-prompting/components"
	"github.com/porterchild/self-prompting/schema"
)

// fakeCompleter routes every request through a handler and records requests
// in order. The handler receives the 0-based call index and the request text.
type fakeCompleter struct {
	handler  func(call int, request string) (string, error)
	requests []string
}

var _ components.Completer = (*fakeCompleter)(nil)

func (f *fakeCompleter) Complete(_ context.Context, messages []components.Message) (string, error) {
	request := schema.Stringify(messages[len(messages)-1].Content())
	f.requests = append(f.requests, request)
	return f.handler(len(f.requests)-1, request)
}

func isSampleRequest(request string) bool {
	return strings.Contains(request, "\n\nQuestion: ")
}

func isJudgeRequest(request string) bool {
	return strings.HasPrefix(request, "You are judging")
}

func isMutateRequest(request string) bool {
	return strings.HasPrefix(request, "You are improving")
}

func TestRunSingleRound(t *testing.T) {
	samples := []string{"4", "four", "5"}
	judgments := map[string]string{
		"4":    "Exactly the reference. The answer is correct.",
		"four": "Same value spelled out. The answer is correct.",
		"5":    "Off by one. The answer is incorrect.",
	}
	clt := &fakeCompleter{handler: func(call int, request string) (string, error) {
		switch {
		case isSampleRequest(request):
			answer := samples[0]
			samples = samples[1:]
			return answer, nil
		case isJudgeRequest(request):
			for answer, judgment := range judgments {
				if strings.Contains(request, "Here is the answer to judge: '"+answer+"'") {
					return judgment, nil
				}
			}
			return "", errors.New("unexpected judge request")
		default:
			return "", errors.New("no mutation expected in a single-round run")
		}
	}}

	var recorded []RoundRecord
	po, err := NewPromptOptimizer(clt,
		Probe{Question: "2+2?", ReferenceAnswer: "4"},
		WithRounds(1),
		WithTrials(3),
		WithInitialPrompt("Answer the question."),
		WithIterationCallback(func(round int, rec RoundRecord) {
			recorded = append(recorded, rec)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	final, err := po.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if final != "Answer the question." {
		t.Errorf("final prompt = %q, want the initial prompt", final)
	}
	if len(recorded) != 1 {
		t.Fatalf("callback fired %d times, want 1", len(recorded))
	}
	if want := 2.0 / 3.0; recorded[0].Accuracy != want {
		t.Errorf("accuracy = %v, want exactly %v", recorded[0].Accuracy, want)
	}
	if recorded[0].TrialCount != 3 {
		t.Errorf("trial count = %d, want 3", recorded[0].TrialCount)
	}
	// the final round never appends to history
	if po.History().Len() != 0 {
		t.Errorf("history length = %d, want 0", po.History().Len())
	}
}

func TestRunRoundAndMutationCounts(t *testing.T) {
	const rounds = 4
	var sampleCalls, judgeCalls, mutateCalls int
	var historyLenAtMutation []int

	var po *PromptOptimizer
	clt := &fakeCompleter{}
	clt.handler = func(call int, request string) (string, error) {
		switch {
		case isSampleRequest(request):
			sampleCalls++
			return "an answer", nil
		case isJudgeRequest(request):
			judgeCalls++
			return "The answer is incorrect.", nil
		case isMutateRequest(request):
			mutateCalls++
			historyLenAtMutation = append(historyLenAtMutation, po.History().Len())
			return "Some reasoning. NEW PROMPT: variant number " + strings.Repeat("x", mutateCalls), nil
		default:
			return "", errors.New("unrecognized request")
		}
	}

	po, err := NewPromptOptimizer(clt,
		Probe{Question: "2+2?", ReferenceAnswer: "4"},
		WithRounds(rounds),
		WithTrials(1),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := po.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sampleCalls != rounds {
		t.Errorf("sample calls = %d, want %d", sampleCalls, rounds)
	}
	if judgeCalls != rounds {
		t.Errorf("judge calls = %d, want %d", judgeCalls, rounds)
	}
	if mutateCalls != rounds-1 {
		t.Errorf("mutate calls = %d, want %d", mutateCalls, rounds-1)
	}
	// history after round k holds k records
	for i, l := range historyLenAtMutation {
		if l != i+1 {
			t.Errorf("history length at mutation %d = %d, want %d", i+1, l, i+1)
		}
	}
	if po.History().Len() != rounds-1 {
		t.Errorf("final history length = %d, want %d", po.History().Len(), rounds-1)
	}
}

func TestRunKeepsPromptOnMutationFailure(t *testing.T) {
	clt := &fakeCompleter{}
	clt.handler = func(call int, request string) (string, error) {
		switch {
		case isSampleRequest(request):
			return "an answer", nil
		case isJudgeRequest(request):
			return "The answer is correct.", nil
		default:
			return "", errors.New("meta model unavailable")
		}
	}
	po, err := NewPromptOptimizer(clt,
		Probe{Question: "2+2?", ReferenceAnswer: "4"},
		WithRounds(2),
		WithTrials(1),
		WithInitialPrompt("Keep me."),
	)
	if err != nil {
		t.Fatal(err)
	}
	final, err := po.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if final != "Keep me." {
		t.Errorf("final prompt = %q, want the unchanged prompt", final)
	}
}

func TestRunDegradesEvaluationFailureToZero(t *testing.T) {
	clt := &fakeCompleter{}
	clt.handler = func(call int, request string) (string, error) {
		switch {
		case isSampleRequest(request):
			return "an answer", nil
		case isJudgeRequest(request):
			return "", errors.New("judge unavailable")
		default:
			return "NEW PROMPT: something fresh", nil
		}
	}
	var accuracies []float64
	po, err := NewPromptOptimizer(clt,
		Probe{Question: "2+2?", ReferenceAnswer: "4"},
		WithRounds(2),
		WithTrials(2),
		WithIterationCallback(func(round int, rec RoundRecord) {
			accuracies = append(accuracies, rec.Accuracy)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := po.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(accuracies) != 2 {
		t.Fatalf("callback fired %d times, want 2", len(accuracies))
	}
	for i, acc := range accuracies {
		if acc != 0.0 {
			t.Errorf("round %d accuracy = %v, want 0.0", i+1, acc)
		}
	}
}

func TestNewPromptOptimizerValidation(t *testing.T) {
	clt := &fakeCompleter{handler: func(int, string) (string, error) { return "", nil }}
	tests := []struct {
		name    string
		probe   Probe
		options []Option
	}{
		{
			name:    "zero trials",
			probe:   Probe{Question: "q", ReferenceAnswer: "a"},
			options: []Option{WithTrials(0)},
		},
		{
			name:    "negative rounds",
			probe:   Probe{Question: "q", ReferenceAnswer: "a"},
			options: []Option{WithRounds(-1)},
		},
		{
			name:    "empty initial prompt",
			probe:   Probe{Question: "q", ReferenceAnswer: "a"},
			options: []Option{WithInitialPrompt("")},
		},
		{
			name:  "probe without question",
			probe: Probe{ReferenceAnswer: "a"},
		},
		{
			name:  "probe without reference",
			probe: Probe{Question: "q"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPromptOptimizer(clt, tt.probe, tt.options...); err == nil {
				t.Error("NewPromptOptimizer() error = nil, want validation error")
			}
		})
	}
}
