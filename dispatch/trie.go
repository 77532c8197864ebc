// Package dispatch implements the trip trie and worker pool: group trips
// with identical canonical identity into one class, solve only one
// representative per class, and scatter the result back to every member.
package dispatch

// Group is a class of trips sharing one canonical identity tuple: only
// Representative is ever solved; every index in Members (which includes
// Representative) receives the same outcome.
type Group struct {
	Representative int
	Members        []int
}

type trieNode struct {
	children map[string]*trieNode
	trips    []int
}

// Trie is a prefix trie over canonical-identity tuples: trips are inserted
// keyed by the fields of their canonical-identity tuple. Each field of the
// tuple is one level of the trie, so trips sharing a
// prefix — e.g. the same trip/service/block/shape/headsign/route/mode/
// direction but a different stop sequence — share branches; only trips
// whose entire tuple matches end up in the same leaf.
type Trie struct {
	root *trieNode
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{root: &trieNode{children: map[string]*trieNode{}}}
}

// Insert files tripIndex under the path described by fields.
func (t *Trie) Insert(tripIndex int, fields []string) {
	n := t.root
	for _, f := range fields {
		child, ok := n.children[f]
		if !ok {
			child = &trieNode{children: map[string]*trieNode{}}
			n.children[f] = child
		}
		n = child
	}
	n.trips = append(n.trips, tripIndex)
}

// Leaves collects one Group per node where one or more trip tuples
// terminate; only these leaves are ever dispatched to a worker. A node
// mid-trie can itself be a leaf if some trip's tuple is a strict prefix of
// another's (a shorter stop sequence that otherwise matches); such a node
// still yields its own group independent of any deeper children.
func (t *Trie) Leaves() []Group {
	var out []Group
	var walk func(n *trieNode)
	walk = func(n *trieNode) {
		if len(n.trips) > 0 {
			out = append(out, Group{Representative: n.trips[0], Members: append([]int(nil), n.trips...)})
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// NodeCount returns the total number of trie nodes below the root,
// reported as telemetry.SolverStats.NumTries — a structural size
// diagnostic distinct from NumTrieLeaves (node count vs. leaf count; this
// dispatcher never retries a solve, so it is not a retry count).
func (t *Trie) NodeCount() int {
	count := 0
	var walk func(n *trieNode)
	walk = func(n *trieNode) {
		count++
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return count - 1 // exclude the root itself, which carries no trip
}
