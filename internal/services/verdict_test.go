package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"prohire/resume-screener/internal/models"
)

func TestParseVerdict_ThresholdOverridesModel(t *testing.T) {
	text := "Match %: 50%\nPros:\n- Good\nDecision: ✅ Shortlist\nReason (if Rejected): N/A"

	v := ParseVerdict(text)

	assert.Equal(t, 50, v.MatchPercent)
	assert.Equal(t, models.DecisionRejected, v.Decision)
	assert.Contains(t, v.ResultText, "Decision: ❌ Reject")
	assert.NotContains(t, v.ResultText, "✅ Shortlist")
	assert.Contains(t, v.ResultText, "Reason (if Rejected): Match % below 72% threshold.")
	assert.NotContains(t, v.ResultText, "N/A")
}

func TestParseVerdict_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name         string
		percent      string
		wantDecision models.Decision
		wantOverride bool
	}{
		{name: "72 keeps shortlist", percent: "72", wantDecision: models.DecisionShortlisted},
		{name: "71 is rejected", percent: "71", wantDecision: models.DecisionRejected, wantOverride: true},
		{name: "100 keeps shortlist", percent: "100", wantDecision: models.DecisionShortlisted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ParseVerdict("Match %: " + tt.percent + "%\nDecision: ✅ Shortlist\nReason (if Rejected): -")
			assert.Equal(t, tt.wantDecision, v.Decision)
			assert.Equal(t, tt.wantOverride, strings.Contains(v.ResultText, thresholdReason))
		})
	}
}

func TestParseVerdict_AppendsMissingLines(t *testing.T) {
	v := ParseVerdict("Match %: 10\nCons:\n- No relevant experience")

	assert.Equal(t, models.DecisionRejected, v.Decision)
	assert.True(t, strings.HasSuffix(v.ResultText, "\nDecision: ❌ Reject\nReason (if Rejected): Match % below 72% threshold."))
}

func TestParseVerdict_OnlyFirstDecisionLineRewritten(t *testing.T) {
	v := ParseVerdict("Match %: 30\nDecision: ✅ Shortlist\nNotes\nDecision: maybe")

	assert.Equal(t, 1, strings.Count(v.ResultText, "Decision: ❌ Reject"))
	assert.Contains(t, v.ResultText, "Decision: maybe")
}

func TestParseVerdict_MissingOrMalformedPercent(t *testing.T) {
	for _, text := range []string{
		"Decision: ✅ Shortlist",
		"Match %: about ninety\nDecision: ✅ Shortlist",
		"match %: 90\nDecision: ✅ Shortlist",
	} {
		v := ParseVerdict(text)
		assert.Equal(t, 0, v.MatchPercent, text)
		assert.Equal(t, models.DecisionRejected, v.Decision, text)
	}
}

func TestParseVerdict_ClampsPercent(t *testing.T) {
	v := ParseVerdict("Match %: 250\nDecision: ✅ Shortlist")
	assert.Equal(t, 100, v.MatchPercent)

	v = ParseVerdict("Match %: 99999999999999999999999\nDecision: ❌ Reject")
	assert.Equal(t, 100, v.MatchPercent)
	assert.Equal(t, models.DecisionRejected, v.Decision)
}

func TestParseVerdict_IndeterminateDecision(t *testing.T) {
	v := ParseVerdict("Match %: 85%\nDecision: Hold for now")

	assert.Equal(t, 85, v.MatchPercent)
	assert.Equal(t, models.DecisionIndeterminate, v.Decision)
	assert.Equal(t, "Match %: 85%\nDecision: Hold for now", v.ResultText)
}

func TestParseVerdict_EmptyResponse(t *testing.T) {
	v := ParseVerdict("   ")

	assert.Equal(t, 0, v.MatchPercent)
	assert.Equal(t, models.DecisionRejected, v.Decision)
	assert.True(t, strings.HasPrefix(v.ResultText, "Match %: 0\nDecision: ❌ Reject"))
	assert.Contains(t, v.ResultText, thresholdReason)
}

func TestParseVerdict_ShortlistAboveThreshold(t *testing.T) {
	text := "Match %: 88%\nPros:\n- Strong Go background\nDecision:  ✅ Shortlist\nReason (if Rejected): -"

	v := ParseVerdict(text)

	assert.Equal(t, 88, v.MatchPercent)
	assert.Equal(t, models.DecisionShortlisted, v.Decision)
	assert.Equal(t, text, v.ResultText)
}

func FuzzParseVerdict(f *testing.F) {
	f.Add("Match %: 50%\nDecision: ✅ Shortlist\nReason (if Rejected): -")
	f.Add("Match %: 72%\nDecision: ✅ Shortlist")
	f.Add("Reason (if Rejected): Decision: ✅ Shortlist\nMatch %: 3")
	f.Add("")
	f.Add("Match%:999999999999999999999")

	f.Fuzz(func(t *testing.T, text string) {
		v := ParseVerdict(text)

		if v.MatchPercent < 0 || v.MatchPercent > 100 {
			t.Fatalf("match percent out of range: %d", v.MatchPercent)
		}
		switch v.Decision {
		case models.DecisionShortlisted, models.DecisionRejected, models.DecisionIndeterminate:
		default:
			t.Fatalf("unexpected decision %q", v.Decision)
		}
		if v.MatchPercent < MatchThreshold {
			if v.Decision != models.DecisionRejected {
				t.Fatalf("below threshold but decision %q", v.Decision)
			}
			if !strings.Contains(v.ResultText, thresholdReason) {
				t.Fatalf("below threshold without reason: %q", v.ResultText)
			}
		}
	})
}
