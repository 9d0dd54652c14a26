package services

import (
	"regexp"
	"strconv"
	"strings"

	"prohire/resume-screener/internal/models"
)

// MatchThreshold is the lowest match percentage that may be shortlisted.
const MatchThreshold = 72

const (
	rejectDecisionLine = "Decision: ❌ Reject"
	reasonPrefix       = "Reason (if Rejected):"
	thresholdReason    = reasonPrefix + " Match % below 72% threshold."
	emptyModelResponse = "Match %: 0\n" + rejectDecisionLine + "\n" + reasonPrefix + " No response from model."
)

var (
	matchPercentLine = regexp.MustCompile(`Match\s*%:\s*(\d+)`)
	decisionLine     = regexp.MustCompile(`Decision:.*`)
	reasonLine       = regexp.MustCompile(`Reason \(if Rejected\):.*`)
	decisionToken    = regexp.MustCompile(`Decision:\s*(✅ Shortlist|❌ Reject)`)
)

type Verdict struct {
	MatchPercent int
	Decision     models.Decision
	// ResultText is the model response after the threshold rewrite.
	ResultText string
}

// ParseVerdict reads the match percentage and decision from a model response.
// Below MatchThreshold the decision and reason lines are rewritten to a
// rejection whatever the model said.
func ParseVerdict(text string) Verdict {
	text = strings.TrimSpace(text)
	if text == "" {
		text = emptyModelResponse
	}

	percent := parseMatchPercent(text)
	if percent < MatchThreshold {
		return Verdict{
			MatchPercent: percent,
			Decision:     models.DecisionRejected,
			ResultText:   forceRejection(text),
		}
	}

	return Verdict{
		MatchPercent: percent,
		Decision:     decisionLabel(text),
		ResultText:   text,
	}
}

func parseMatchPercent(text string) int {
	m := matchPercentLine.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Only overflow gets here; digits are guaranteed by the pattern.
		return 100
	}
	if n > 100 {
		return 100
	}
	return n
}

func forceRejection(text string) string {
	if loc := decisionLine.FindStringIndex(text); loc != nil {
		text = text[:loc[0]] + rejectDecisionLine + text[loc[1]:]
	} else {
		text += "\n" + rejectDecisionLine
	}

	if strings.Contains(text, reasonPrefix) {
		loc := reasonLine.FindStringIndex(text)
		if loc != nil {
			return text[:loc[0]] + thresholdReason + text[loc[1]:]
		}
	}
	return text + "\n" + thresholdReason
}

func decisionLabel(text string) models.Decision {
	m := decisionToken.FindStringSubmatch(text)
	if m == nil {
		return models.DecisionIndeterminate
	}
	if strings.Contains(m[1], "Shortlist") {
		return models.DecisionShortlisted
	}
	return models.DecisionRejected
}
