package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlphabet(t *testing.T) {
	symbols := Symbols()
	assert.Len(t, symbols, AlphabetSize)

	// Every symbol is distinct and round-trips through its number.
	seen := make(map[rune]bool)
	for i, r := range symbols {
		assert.False(t, seen[r], "duplicate symbol %q", string(r))
		seen[r] = true

		n, ok := NumberForSymbol(r)
		assert.True(t, ok)
		assert.Equal(t, i+1, n)

		back, ok := SymbolForNumber(n)
		assert.True(t, ok)
		assert.Equal(t, r, back)
	}

	_, ok := SymbolForNumber(0)
	assert.False(t, ok)
	_, ok = SymbolForNumber(51)
	assert.False(t, ok)
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int // zone numbers
	}{
		{
			name:     "Single symbol",
			input:    "⑨",
			expected: []int{9},
		},
		{
			name:     "Multi-byte symbols across blocks",
			input:    "⑨㊲",
			expected: []int{9, 37},
		},
		{
			name:     "Unordered input",
			input:    "⑳①⑩",
			expected: []int{1, 10, 20},
		},
		{
			name:     "Duplicates collapse",
			input:    "①①①",
			expected: []int{1},
		},
		{
			name:     "Foreign runes are dropped",
			input:    "① ②x③",
			expected: []int{1, 2, 3},
		},
		{
			name:     "Empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Decompose(tt.input)
			assert.Len(t, set, len(tt.expected))
			for _, n := range tt.expected {
				r, ok := SymbolForNumber(n)
				assert.True(t, ok)
				assert.True(t, set.Contains(r), "expected zone %d in set", n)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	// Canonical form sorts by alphabet order regardless of input order.
	set := Decompose("㊿①㉑⑳")
	assert.Equal(t, "①⑳㉑㊿", set.Canonical())

	// Round trip is stable.
	assert.Equal(t, set.Canonical(), Decompose(set.Canonical()).Canonical())
}

func TestSymbolOf(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"Valid symbol", "⑨", true},
		{"Last symbol", "㊿", true},
		{"Plain digit", "9", false},
		{"Two symbols", "⑨⑩", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SymbolOf(tt.input)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSymbolSetOps(t *testing.T) {
	a := Decompose("①②③")
	b := Decompose("③④")
	c := Decompose("⑤")

	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
	assert.False(t, Decompose("").Intersects(a))

	a.Union(c)
	assert.Equal(t, "①②③⑤", a.Canonical())
}
