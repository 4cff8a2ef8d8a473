package optimizer

import "strings"

// Verdict is a judge's binary decision about one answer.
type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
)

// ParseVerdict extracts the trailing correct/incorrect token from a judgment
// response. The judge is instructed to end its reasoning with exactly
// "The answer is correct" or "The answer is incorrect"; this parser tolerates
// trailing punctuation and casing but nothing else. Ambiguous output defaults
// to incorrect — the parser never assumes correctness.
func ParseVerdict(judgment string) Verdict {
	cleaned := strings.ToLower(strings.TrimSpace(judgment))
	cleaned = strings.TrimRight(cleaned, ".!?")
	// "incorrect" ends in "correct", so it must be checked first
	if strings.HasSuffix(cleaned, string(VerdictIncorrect)) {
		return VerdictIncorrect
	}
	if strings.HasSuffix(cleaned, string(VerdictCorrect)) {
		return VerdictCorrect
	}
	return VerdictIncorrect
}
