// internal/deck/deck_test.go
package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealSortedDescendingWithinRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		hand := Deal(HandSize)
		require.Len(t, hand, HandSize)
		for j, v := range hand {
			assert.GreaterOrEqual(t, v, 1)
			assert.LessOrEqual(t, v, MaxCardValue)
			if j > 0 {
				assert.LessOrEqual(t, v, hand[j-1], "hand must be sorted descending")
			}
		}
	}
}

func TestDealDrawsAcrossValueSpace(t *testing.T) {
	// Not a distribution test, just a sanity check that draws are independent
	// rather than repeated.
	seen := map[int]bool{}
	for _, v := range Deal(1000) {
		seen[v] = true
	}
	assert.Greater(t, len(seen), 5, "1000 draws should cover most of the 13 values")
}
