package partition

import (
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

// DefaultCount is the number of lock stripes used when none is configured.
const DefaultCount = 256

// For returns the stripe for an aggregate id in [0, count).
// Same id always maps to the same stripe.
func For(id uuid.UUID, count int) int {
	h := fnv.New32a()
	h.Write(id[:])
	return int(h.Sum32() % uint32(count))
}

// Locks serializes commands per aggregate within one process. Two ids may
// share a stripe; they then contend but never deadlock, as long as callers
// acquire stripes through LockAll.
type Locks struct {
	stripes []sync.Mutex
}

// NewLocks creates count stripes. count <= 0 selects DefaultCount.
func NewLocks(count int) *Locks {
	if count <= 0 {
		count = DefaultCount
	}
	return &Locks{stripes: make([]sync.Mutex, count)}
}

// Lock acquires the stripe for id and returns its release function.
func (l *Locks) Lock(id uuid.UUID) func() {
	m := &l.stripes[For(id, len(l.stripes))]
	m.Lock()
	return m.Unlock
}

// LockAll acquires the stripes for every id in ascending stripe order,
// skipping duplicates, and returns a function releasing them.
func (l *Locks) LockAll(ids ...uuid.UUID) func() {
	held := make([]bool, len(l.stripes))
	for _, id := range ids {
		held[For(id, len(l.stripes))] = true
	}

	var acquired []*sync.Mutex
	for i := range held {
		if !held[i] {
			continue
		}
		l.stripes[i].Lock()
		acquired = append(acquired, &l.stripes[i])
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}

// Count returns the number of stripes.
func (l *Locks) Count() int {
	return len(l.stripes)
}
