// Package appcode resolves an application_id for a newly parsed finding by
// matching its metadata fields against priority-ordered regexes (spec §4.B).
//
// Grounded in modules/fplearning/service/ml_patterns.go's pattern-matching
// shape (value in, structured result out) and pkg/validation's regexp.Compile
// usage; SynApSec replaces similarity scoring with named-capture extraction
// since the resolver's job is "pull app_code out", not "score how alike".
package appcode

import "regexp"

// Pattern is one configured extraction rule (entity.AppCodePattern, loaded
// from the store for a single source tool).
type Pattern struct {
	FieldName string
	Regex     string
	Priority  int
	Active    bool
}

// Field is one (name, value) pair pulled from a parsed finding's metadata.
type Field struct {
	Name  string
	Value string
}

// Resolve returns the app_code named-capture value from the first pattern
// (highest priority first) whose field_name matches one of fields and whose
// regex matches that field's value non-emptily. Malformed regexes are
// skipped, not fatal. Returns ("", false) when nothing matches.
func Resolve(patterns []Pattern, fields []Field) (string, bool) {
	ordered := sortedByPriorityDesc(patterns)

	for _, p := range ordered {
		if !p.Active {
			continue
		}
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			continue
		}
		groupIndex := re.SubexpIndex("app_code")
		if groupIndex < 0 {
			continue
		}
		for _, f := range fields {
			if f.Name != p.FieldName {
				continue
			}
			match := re.FindStringSubmatch(f.Value)
			if match == nil || groupIndex >= len(match) {
				continue
			}
			if code := match[groupIndex]; code != "" {
				return code, true
			}
		}
	}
	return "", false
}

// sortedByPriorityDesc returns a stable copy of patterns ordered by Priority
// descending, without mutating the caller's slice.
func sortedByPriorityDesc(patterns []Pattern) []Pattern {
	ordered := make([]Pattern, len(patterns))
	copy(ordered, patterns)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Priority > ordered[j-1].Priority; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}
