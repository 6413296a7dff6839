package store

import "strconv"

// idSequence hands out "<prefix><n>" ids from a monotonic counter, skipping any
// id already in use. Ids therefore keep the look of the seed data but cannot
// collide, even after deletions shrink a collection.
type idSequence struct {
	prefix string
	last   int
}

func newIDSequence(prefix string, start int) *idSequence {
	return &idSequence{prefix: prefix, last: start}
}

// next must be called with the store lock held.
func (q *idSequence) next(taken func(id string) bool) string {
	for {
		q.last++
		id := q.prefix + strconv.Itoa(q.last)
		if !taken(id) {
			return id
		}
	}
}
