package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHash(t *testing.T) {
	fields := []string{"1", "09/2007", "Buzz"}

	assert.Equal(t, CalculateHash(fields), CalculateHash([]string{"1", "09/2007", "Buzz"}))
	assert.Len(t, CalculateHash(fields), 16)
	assert.NotEqual(t, CalculateHash(fields), CalculateHash([]string{"2", "09/2007", "Buzz"}))
	assert.NotEqual(t, CalculateHash(fields), CalculateHash([]string{"Buzz", "09/2007", "1"}), "field order is part of the digest")
}

func TestHashLines(t *testing.T) {
	lines := []string{"1|Buzz", "2|Trashy Blonde"}

	assert.Equal(t, HashLines(lines), HashLines([]string{"1|Buzz", "2|Trashy Blonde"}))
	assert.Len(t, HashLines(lines), 16)
	assert.NotEqual(t, HashLines(lines), HashLines([]string{"1|Buzz2|Trashy Blonde"}),
		"line boundaries are part of the digest")
	assert.NotEqual(t, HashLines(nil), HashLines(lines))
}
