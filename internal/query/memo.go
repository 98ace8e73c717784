package query

import (
	"sync"

	"github.com/zeebo/blake3"
)

const shardCount = 16

// MemoKey identifies one memoized query invocation: a query name plus the
// canonical hash of its arguments (spec §4.6: "memo table keyed on
// (query_id, args_hash)").
type MemoKey struct {
	Name     string
	ArgsHash [32]byte
}

func argsHash(encoded []byte) [32]byte {
	h := blake3.New()
	h.Write(encoded)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// shardFor picks one of shardCount independently-locked shards (spec §4.6:
// "memo table is sharded... memo-table shards may be locked
// independently"), using the sum of the args hash's bytes plus the name's
// length as a cheap, deterministic selector.
func shardFor(key MemoKey) int {
	sum := len(key.Name)
	for _, b := range key.ArgsHash {
		sum += int(b)
	}
	return sum % shardCount
}

type memoEntry struct {
	value any
	deps  map[[32]byte]struct{}
}

// memoTable is the sharded result cache. Each shard is independently
// mutex-guarded so unrelated queries never contend.
type memoTable struct {
	shards [shardCount]struct {
		mu      sync.Mutex
		entries map[MemoKey]memoEntry
	}
}

func newMemoTable() *memoTable {
	m := &memoTable{}
	for i := range m.shards {
		m.shards[i].entries = make(map[MemoKey]memoEntry)
	}
	return m
}

func (m *memoTable) get(key MemoKey) (memoEntry, bool) {
	s := &m.shards[shardFor(key)]
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok
}

func (m *memoTable) put(key MemoKey, e memoEntry) {
	s := &m.shards[shardFor(key)]
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
}

// invalidate drops every memo entry whose dependency set contains cid
// (spec §4.6: "On invalidation... all memo entries whose dependency set
// contains that CID are evicted").
func (m *memoTable) invalidate(c [32]byte) {
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for k, e := range s.entries {
			if _, hit := e.deps[c]; hit {
				delete(s.entries, k)
			}
		}
		s.mu.Unlock()
	}
}
