package schedule

import "math/rand"

// cycle deals player indices round-robin through a seeded shuffle of
// [0, playerCount). When a shuffle is used up it reshuffles, so over any
// window of playerCount consecutive assignable units every player appears
// close to exactly once. Within one shuffle consecutive owners are distinct
// by construction; at a reshuffle boundary the new head is swapped one slot
// ahead if it would repeat the previous owner.
type cycle struct {
	r     *rand.Rand
	order []int
	pos   int
	last  int
}

func newCycle(playerCount int, r *rand.Rand) *cycle {
	order := make([]int, playerCount)
	for i := range order {
		order[i] = i
	}
	shuffleInts(r, order)
	return &cycle{r: r, order: order, last: -1}
}

// next returns the owner for the next assignable unit. Chorus units must
// not call this: they never consume a turn.
func (c *cycle) next() int {
	if c.pos == len(c.order) {
		shuffleInts(c.r, c.order)
		c.pos = 0
		if len(c.order) > 1 && c.order[0] == c.last {
			c.order[0], c.order[1] = c.order[1], c.order[0]
		}
	}
	owner := c.order[c.pos]
	c.pos++
	c.last = owner
	return owner
}
