package broker

import "sync"

const lockShards = 64

// keyedMutex serializes mutating operations per trader id using a fixed set
// of mutex shards. Two operations on the same id always hit the same shard,
// giving the at-most-one-in-flight-per-trader guarantee the load-mutate-save
// sequence relies on.
type keyedMutex struct {
	shards [lockShards]sync.Mutex
}

// Lock acquires the shard for id and returns the matching unlock func.
func (k *keyedMutex) Lock(id int) func() {
	s := &k.shards[uint(id)%lockShards]
	s.Lock()
	return s.Unlock
}
