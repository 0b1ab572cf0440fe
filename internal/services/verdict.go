package services

import (
	"encoding/json"
	"regexp"
	"strings"

	types "github.com/yungbote/searchlift-backend/internal/domain"
)

// VerdictOutcome is the tagged result of parsing a model relevance reply.
// OK=false means the payload could not be repaired into the contract;
// callers treat that branch as fail-open and accept everything.
type VerdictOutcome struct {
	OK      bool
	Verdict types.ValidationVerdict
}

var (
	codeFenceRe    = regexp.MustCompile("```(?:json)?")
	trailingComma  = regexp.MustCompile(`,\s*([\]}])`)
	jsonObjectSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseVerdict repairs the usual model-output damage before decoding:
// code fences, prose around the object, single-quoted JSON, trailing
// commas. The decode itself is strict.
func ParseVerdict(raw string) VerdictOutcome {
	cleaned := codeFenceRe.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(cleaned)

	if span := jsonObjectSpan.FindString(cleaned); span != "" {
		cleaned = span
	}
	cleaned = trailingComma.ReplaceAllString(cleaned, "$1")

	if v, ok := decodeVerdict(cleaned); ok {
		return VerdictOutcome{OK: true, Verdict: v}
	}

	// Single-quoted JSON from models that ignore the format instruction.
	if strings.Contains(cleaned, "'") {
		requoted := strings.ReplaceAll(cleaned, "'", `"`)
		if v, ok := decodeVerdict(requoted); ok {
			return VerdictOutcome{OK: true, Verdict: v}
		}
	}

	return VerdictOutcome{}
}

func decodeVerdict(s string) (types.ValidationVerdict, bool) {
	var v types.ValidationVerdict
	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(&v); err != nil {
		return types.ValidationVerdict{}, false
	}
	if v.Valid == nil && v.Invalid == nil {
		return types.ValidationVerdict{}, false
	}
	return v, true
}

// ApplyVerdict resolves a verdict against a batch of n items, returning
// the accepted index set. Indices the model never classified default to
// valid.
func ApplyVerdict(outcome VerdictOutcome, n int) []int {
	accepted := make([]int, 0, n)
	if !outcome.OK {
		for i := 0; i < n; i++ {
			accepted = append(accepted, i)
		}
		return accepted
	}

	invalid := map[int]bool{}
	for _, idx := range outcome.Verdict.Invalid {
		if idx >= 0 && idx < n {
			invalid[idx] = true
		}
	}
	for i := 0; i < n; i++ {
		if !invalid[i] {
			accepted = append(accepted, i)
		}
	}
	return accepted
}
