package pricerange

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies a parsed price-range text.
type Kind int

const (
	// Unrestricted means empty text or an explicit "no preference" marker.
	Unrestricted Kind = iota
	// Interval is a concrete bound: at least one of Min/Max is set.
	Interval
	// Unparseable is text that fits none of the known patterns. By current
	// policy it never matches a price; callers count these occurrences so
	// malformed data stays visible.
	Unparseable
)

// Range is the parsed form of a buyer's price-range text. Bounds are in yen
// and inclusive.
type Range struct {
	Kind Kind
	Min  *int // nil means no lower bound
	Max  *int // nil means no upper bound
}

// Spreadsheet values use 万円 (10,000 yen) units, optionally with comma
// grouping, and either the full-width or half-width tilde for spans.
var (
	reBetween = regexp.MustCompile(`^([0-9][0-9,]*)万円[～〜~]([0-9][0-9,]*)万円$`)
	reAtLeast = regexp.MustCompile(`^([0-9][0-9,]*)万円以上$`)
	reAtMost  = regexp.MustCompile(`^([0-9][0-9,]*)万円以下$`)
)

const noPreference = "指定なし"

// Parse interprets a free-text price-range expression. Recognized forms:
//
//	""            -> Unrestricted
//	"指定なし"     -> Unrestricted
//	"X万円以上"    -> [X*10000, +inf)
//	"X万円以下"    -> (-inf, X*10000]
//	"X万円～Y万円"  -> [X*10000, Y*10000]
//
// Anything else is Unparseable.
func Parse(text string) Range {
	text = strings.TrimSpace(text)
	if text == "" || text == noPreference {
		return Range{Kind: Unrestricted}
	}

	if m := reBetween.FindStringSubmatch(text); m != nil {
		min, ok1 := yen(m[1])
		max, ok2 := yen(m[2])
		if ok1 && ok2 {
			return Range{Kind: Interval, Min: &min, Max: &max}
		}
		return Range{Kind: Unparseable}
	}
	if m := reAtLeast.FindStringSubmatch(text); m != nil {
		if min, ok := yen(m[1]); ok {
			return Range{Kind: Interval, Min: &min}
		}
		return Range{Kind: Unparseable}
	}
	if m := reAtMost.FindStringSubmatch(text); m != nil {
		if max, ok := yen(m[1]); ok {
			return Range{Kind: Interval, Max: &max}
		}
		return Range{Kind: Unparseable}
	}
	return Range{Kind: Unparseable}
}

func yen(manEn string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(manEn, ",", ""))
	if err != nil {
		return 0, false
	}
	return n * 10000, true
}

// Matches applies the range to a property price. An unknown price (nil)
// cannot violate a bound, so intervals treat it as a match. Unrestricted
// always matches; Unparseable never does.
func (r Range) Matches(price *int) bool {
	switch r.Kind {
	case Unrestricted:
		return true
	case Unparseable:
		return false
	}
	if price == nil {
		return true
	}
	if r.Min != nil && *price < *r.Min {
		return false
	}
	if r.Max != nil && *price > *r.Max {
		return false
	}
	return true
}
