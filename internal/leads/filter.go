package leads

import (
	"strings"

	"golang.org/x/text/cases"
)

// PhonePolicy selects which candidates are kept based on phone availability.
type PhonePolicy int

const (
	// PolicyBoth keeps every candidate.
	PolicyBoth PhonePolicy = iota
	// PolicyWithPhone keeps only candidates that have a phone number.
	PolicyWithPhone
	// PolicyWithoutPhone keeps only candidates without a phone number.
	PolicyWithoutPhone
)

// ResolvePhonePolicy maps the two command-line flags to a policy. Setting
// neither flag means "keep everything", the same as setting both.
func ResolvePhonePolicy(withPhone, withoutPhone bool) PhonePolicy {
	switch {
	case withPhone && !withoutPhone:
		return PolicyWithPhone
	case withoutPhone && !withPhone:
		return PolicyWithoutPhone
	default:
		return PolicyBoth
	}
}

// Accept reports whether a candidate with the given phone state passes the policy.
func (p PhonePolicy) Accept(hasPhone bool) bool {
	switch p {
	case PolicyWithPhone:
		return hasPhone
	case PolicyWithoutPhone:
		return !hasPhone
	default:
		return true
	}
}

func (p PhonePolicy) String() string {
	switch p {
	case PolicyWithPhone:
		return "with_phone"
	case PolicyWithoutPhone:
		return "without_phone"
	default:
		return "both"
	}
}

// MatchesTerm is the relevance gate: the search term must appear in the
// candidate name, ignoring case. Text search is loose and returns nearby
// businesses of unrelated kinds.
func MatchesTerm(term, name string) bool {
	if name == "" {
		return false
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(name), fold.String(term))
}
