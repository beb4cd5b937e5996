// internal/deck/deck.go
package deck

import (
	"math/rand/v2"
	"sort"
)

// MaxCardValue is the highest card value in play. Draws are uniform over [1, MaxCardValue].
const MaxCardValue = 13

// HandSize is the number of cards dealt to a player at game start and on a redeal.
const HandSize = 5

// Deal draws count independent uniform cards and returns them sorted descending,
// so a hand always renders highest-first regardless of draw order.
func Deal(count int) []int {
	cards := make([]int, count)
	for i := range cards {
		cards[i] = rand.IntN(MaxCardValue) + 1
	}
	sort.Sort(sort.Reverse(sort.IntSlice(cards)))
	return cards
}
