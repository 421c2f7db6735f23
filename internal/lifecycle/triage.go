package lifecycle

import "github.com/synapsec/core/internal/domain/entity"

// TriageRule is the pluggable condition evaluated against a freshly created
// finding before auto-confirm fires (spec §4.F, §9 "Triage-rule condition
// evaluation is the one deliberate open slot"). A rule that returns true
// holds the finding in New; auto-confirm only proceeds when every active
// rule returns false.
type TriageRule func(f *entity.Finding, rule entity.TriageRule) bool

// AlwaysConfirm is the shipped default: no active rule ever holds a finding,
// matching the spec's documented stub behavior.
func AlwaysConfirm(f *entity.Finding, rule entity.TriageRule) bool {
	return false
}

// ShouldHold reports whether any active rule fires for f, using the
// supplied evaluator for each rule's (currently unevaluated) JSON condition.
func ShouldHold(f *entity.Finding, rules []entity.TriageRule, evaluate TriageRule) bool {
	if evaluate == nil {
		evaluate = AlwaysConfirm
	}
	for _, r := range rules {
		if !r.Active {
			continue
		}
		if evaluate(f, r) {
			return true
		}
	}
	return false
}
