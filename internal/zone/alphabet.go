package zone

import "sort"

// The zone alphabet is the closed set of 50 circled-number glyphs ① through
// ㊿. Unicode scatters them across three blocks, so ordering and validity go
// through the tables below instead of raw code-point comparisons.
const AlphabetSize = 50

var alphabet = buildAlphabet()

var symbolIndex = func() map[rune]int {
	m := make(map[rune]int, AlphabetSize)
	for i, r := range alphabet {
		m[r] = i
	}
	return m
}()

func buildAlphabet() []rune {
	out := make([]rune, 0, AlphabetSize)
	for r := rune(0x2460); r <= 0x2473; r++ { // ① .. ⑳
		out = append(out, r)
	}
	for r := rune(0x3251); r <= 0x325F; r++ { // ㉑ .. ㉟
		out = append(out, r)
	}
	for r := rune(0x32B1); r <= 0x32BF; r++ { // ㊱ .. ㊿
		out = append(out, r)
	}
	return out
}

// Symbols returns the full alphabet in canonical order.
func Symbols() []rune {
	out := make([]rune, AlphabetSize)
	copy(out, alphabet)
	return out
}

// IsSymbol reports whether r belongs to the zone alphabet.
func IsSymbol(r rune) bool {
	_, ok := symbolIndex[r]
	return ok
}

// SymbolForNumber maps a 1-based zone number to its glyph.
func SymbolForNumber(n int) (rune, bool) {
	if n < 1 || n > AlphabetSize {
		return 0, false
	}
	return alphabet[n-1], true
}

// NumberForSymbol maps a glyph back to its 1-based zone number.
func NumberForSymbol(r rune) (int, bool) {
	i, ok := symbolIndex[r]
	if !ok {
		return 0, false
	}
	return i + 1, true
}

// SymbolOf validates a single-symbol string, as stored on a zone reference.
func SymbolOf(s string) (rune, bool) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	if !IsSymbol(runes[0]) {
		return 0, false
	}
	return runes[0], true
}

// SymbolSet is an unordered set of zone symbols.
type SymbolSet map[rune]struct{}

// Decompose splits a zone-membership string into its symbol set. The wire
// format has no separators and no guaranteed order; decomposition is by code
// point, never by byte. Runes outside the alphabet are dropped.
func Decompose(s string) SymbolSet {
	set := make(SymbolSet)
	for _, r := range s {
		if IsSymbol(r) {
			set[r] = struct{}{}
		}
	}
	return set
}

// Add inserts a symbol into the set.
func (s SymbolSet) Add(r rune) {
	s[r] = struct{}{}
}

// Contains reports set membership.
func (s SymbolSet) Contains(r rune) bool {
	_, ok := s[r]
	return ok
}

// Union merges other into s.
func (s SymbolSet) Union(other SymbolSet) {
	for r := range other {
		s[r] = struct{}{}
	}
}

// Intersects reports whether the two sets share any symbol.
func (s SymbolSet) Intersects(other SymbolSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for r := range small {
		if _, ok := large[r]; ok {
			return true
		}
	}
	return false
}

// Canonical renders the set as the reproducible wire string: symbols sorted
// in alphabet order, concatenated without a separator.
func (s SymbolSet) Canonical() string {
	runes := make([]rune, 0, len(s))
	for r := range s {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool {
		return symbolIndex[runes[i]] < symbolIndex[runes[j]]
	})
	return string(runes)
}
