package services

import "strings"

// ConfidenceScorer decides the confidence score and reason recorded on a
// household for the keys that matched. Scoring beyond "exact key match" is a
// policy question, so it stays behind this interface.
type ConfidenceScorer interface {
	Score(matchedFields []string) (int, string)
}

type exactKeyScorer struct{}

// NewExactKeyScorer scores every exact identity-key match at 100.
func NewExactKeyScorer() ConfidenceScorer { return exactKeyScorer{} }

func (exactKeyScorer) Score(matchedFields []string) (int, string) {
	if len(matchedFields) == 0 {
		return 0, ""
	}
	return 100, "matched on " + strings.Join(matchedFields, " and ")
}

const (
	manualConfidenceScore  = 100
	manualConfidenceReason = "manually matched"
)
