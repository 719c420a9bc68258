package discriminate

import "sort"

// Node is one decision in the compiled classifier. A leaf names the single
// candidate index still possible, or reports no match. An internal node
// reads one observation from the buffer (its length, or the byte at a
// fixed position) and branches on it: a candidate bucket per value seen
// among the surviving summaries, and a catch-all for every other
// observation.
type Node struct {
	leaf    bool
	matched bool
	index   int

	kind      nodeKind
	pos       int // meaningful only for nodeByte
	children  map[int]*Node
	elseChild *Node
}

type nodeKind int

const (
	nodeSize nodeKind = iota
	nodeByte
)

// Classify runs buf through the compiled tree and returns the matched
// candidate index, or (0, false) if none is compatible.
func (n *Node) Classify(buf []byte) (int, bool) {
	for !n.leaf {
		var next *Node
		switch n.kind {
		case nodeSize:
			next = n.children[len(buf)]
		case nodeByte:
			if n.pos < len(buf) {
				next = n.children[int(buf[n.pos])]
			}
		}
		if next == nil {
			next = n.elseChild
		}
		n = next
	}
	return n.index, n.matched
}

func leafNode(index int, matched bool) *Node {
	return &Node{leaf: true, index: index, matched: matched}
}

// candidate pairs a candidate's original index with its summary, since the
// working set shrinks as the tree is built.
type candidate struct {
	index   int
	summary Summary
}

// Build compiles summaries into a decision tree. summaries[i] is candidate
// i; Build never breaks a tie by picking an arbitrary winner — a candidate
// set that cannot be further split, and still holds more than one member,
// compiles to a permanent none leaf for every buffer that reaches it.
func Build(summaries []Summary) *Node {
	set := make([]candidate, len(summaries))
	for i, s := range summaries {
		set[i] = candidate{index: i, summary: s}
	}
	return build(set)
}

func build(set []candidate) *Node {
	if len(set) == 0 {
		return leafNode(0, false)
	}
	if len(set) == 1 {
		return leafNode(set[0].index, true)
	}

	g, ok := bestGrouping(set)
	if !ok {
		return leafNode(0, false)
	}

	node := &Node{kind: g.kind, pos: g.pos, children: make(map[int]*Node, len(g.buckets))}
	for _, key := range sortedKeys(g.buckets) {
		node.children[key] = build(g.buckets[key])
	}
	node.elseChild = build(g.elseSet)
	return node
}

// grouping is a candidate split: one bucket per distinct value observed
// among the current candidate set at this test, plus a catch-all for any
// other value.
type grouping struct {
	kind    nodeKind
	pos     int
	buckets map[int][]candidate
	elseSet []candidate
	worst   int
}

// bestGrouping tries the size grouping and a byte grouping at every oracle
// position still live in set, and keeps whichever minimizes the largest
// resulting bucket — "largest guaranteed reduction of the candidate set in
// the worst case" (spec.md §4.H). A grouping is only valid if its worst
// bucket is strictly smaller than set, guaranteeing build() terminates.
// Ties prefer the size grouping (cheaper), then the smallest byte
// position.
func bestGrouping(set []candidate) (grouping, bool) {
	var best grouping
	haveBest := false

	if g, ok := sizeGrouping(set); ok {
		best, haveBest = g, true
	}
	for _, pos := range sortedPositions(set) {
		g, ok := byteGrouping(set, pos)
		if !ok {
			continue
		}
		if !haveBest || g.worst < best.worst {
			best, haveBest = g, true
		}
	}
	return best, haveBest
}

func sizeGrouping(set []candidate) (grouping, bool) {
	buckets := make(map[int][]candidate)
	var flexible []candidate
	for _, c := range set {
		if n, ok := c.summary.exactSize(); ok {
			buckets[n] = append(buckets[n], c)
		} else {
			flexible = append(flexible, c)
		}
	}
	// A flexible candidate only joins a bucket whose exact size actually
	// falls within its own size range; one outside that range can never
	// have produced a buffer of that length, so excluding it here keeps
	// the bucket as tight as the summaries allow instead of padding every
	// bucket with candidates bestGrouping will have to split out later.
	for n, fixed := range buckets {
		bucket := append([]candidate{}, fixed...)
		for _, c := range flexible {
			if c.summary.sizeCompatible(n) {
				bucket = append(bucket, c)
			}
		}
		buckets[n] = bucket
	}
	worst := len(flexible)
	for _, b := range buckets {
		if len(b) > worst {
			worst = len(b)
		}
	}
	if worst >= len(set) {
		return grouping{}, false
	}
	return grouping{kind: nodeSize, buckets: buckets, elseSet: flexible, worst: worst}, true
}

func byteGrouping(set []candidate, pos int) (grouping, bool) {
	buckets := make(map[int][]candidate)
	var wildcard []candidate
	for _, c := range set {
		if c.summary.MaxSize != Unbounded && pos >= c.summary.MaxSize {
			continue // structurally impossible here; excluded from every bucket
		}
		values, ok := c.summary.Oracle[pos]
		if !ok {
			wildcard = append(wildcard, c)
			continue
		}
		for _, v := range sortedByteValues(values) {
			buckets[int(v)] = append(buckets[int(v)], c)
		}
	}
	if len(buckets) == 0 {
		return grouping{}, false
	}
	for v := range buckets {
		buckets[v] = append(append([]candidate{}, buckets[v]...), wildcard...)
	}
	worst := len(wildcard)
	for _, b := range buckets {
		if len(b) > worst {
			worst = len(b)
		}
	}
	if worst >= len(set) {
		return grouping{}, false
	}
	return grouping{kind: nodeByte, pos: pos, buckets: buckets, elseSet: wildcard, worst: worst}, true
}

func sortedKeys(m map[int][]candidate) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func sortedPositions(set []candidate) []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range set {
		for pos := range c.summary.Oracle {
			if !seen[pos] {
				seen[pos] = true
				out = append(out, pos)
			}
		}
	}
	sort.Ints(out)
	return out
}

func sortedByteValues(set map[byte]bool) []byte {
	out := make([]byte, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
