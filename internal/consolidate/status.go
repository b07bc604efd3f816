package consolidate

import "strings"

// Buyer status tokens as they appear in the sheet. The precedence table is
// explicit so merge resolution never has to infer eligibility from string
// content, and so the ordering can be revised without touching merge logic.
const (
	StatusActive       = "追客中"
	StatusNegotiating  = "商談中"
	StatusDormant      = "休眠"
	StatusPurchased    = "買済"
	StatusTransacted   = "成約済"
	StatusDisqualified = "対象外"
)

// statusRank orders tokens from most eligible (lowest rank) to least.
// Gaps leave room for the unknown-token rank between dormant and the
// terminal states.
var statusRank = map[string]int{
	StatusActive:       0,
	StatusNegotiating:  10,
	StatusDormant:      20,
	StatusPurchased:    40,
	StatusTransacted:   40,
	StatusDisqualified: 50,
}

// Tokens the sheet uses for statuses we have never cataloged rank here:
// below every known active status, above the terminal ones.
const unknownStatusRank = 30

func rankOf(status string) int {
	if r, ok := statusRank[status]; ok {
		return r
	}
	return unknownStatusRank
}

// ResolveStatus returns the most-eligible status present in the group.
// Among equally ranked tokens the first seen wins.
func ResolveStatus(statuses []string) string {
	best := ""
	bestRank := int(^uint(0) >> 1)
	for _, s := range statuses {
		if r := rankOf(s); r < bestRank {
			best = s
			bestRank = r
		}
	}
	return best
}

// excludedStatuses are statuses that block distribution entirely: the buyer
// has already transacted or is disqualified.
var excludedStatuses = map[string]struct{}{
	StatusPurchased:    {},
	StatusTransacted:   {},
	StatusDisqualified: {},
}

// StatusExcluded reports whether a resolved status blocks distribution.
func StatusExcluded(status string) bool {
	_, ok := excludedStatuses[status]
	return ok
}

// Distribution flag values that make a record eligible. "要" and "メール"
// are explicit opt-ins; a flag carrying the "→要" transition marker records
// a switch to eligible and counts as well.
const (
	FlagRequired   = "要"
	FlagMail       = "メール"
	flagTransition = "→要"
)

// FlagEligible reports whether a single record's distribution flag opts the
// record in.
func FlagEligible(flag string) bool {
	switch flag {
	case FlagRequired, FlagMail:
		return true
	}
	return strings.Contains(flag, flagTransition)
}
