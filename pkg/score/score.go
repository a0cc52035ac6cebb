// Package score distributes a total point pool across a tree of scorable
// nodes. Every node declares an absolute value (claimed off the top) and a
// relative weight (its share of whatever is left after all values are
// claimed). Groups recurse: a group's allocated score becomes the pool for
// its own children.
package score

// Info holds the scoring declaration of a single node.
type Info struct {
	// Weight is the node's relative share of the pool remaining after the
	// value phase. Must be >= 0.
	Weight float64
	// Value is the node's absolute score, claimed before weights apply.
	// Must be >= 0.
	Value float64
	// ExtraCredit is added on top of the allocated score and never
	// consumes the pool.
	ExtraCredit float64
}

// Node is a scorable element of the allocation tree. Leaves return nil
// children; groups return their children in declaration order.
type Node interface {
	ScoreInfo() Info
	Children() []Node
	// SetScore records the final allocated score. The allocator calls it
	// exactly once per node.
	SetScore(float64)
}

// Compute allocates total across one sibling list, returning the scores in
// declaration order.
//
// Value phase: each node claims its absolute value; the pool may go
// negative. Weight phase: a positive remainder is split proportionally to
// weight. If the values alone meet or exceed the total (the extra-credit
// state) the weight phase is skipped and weights have no effect. A
// zero-weight sibling list leaves a positive remainder unconsumed.
func Compute(infos []Info, total float64) []float64 {
	out := make([]float64, len(infos))

	remaining := total
	var totalWeight float64
	for _, s := range infos {
		remaining -= s.Value
		totalWeight += s.Weight
	}

	for i, s := range infos {
		out[i] = s.Value
		if remaining > 0 && totalWeight > 0 {
			out[i] += remaining * s.Weight / totalWeight
		}
		out[i] += s.ExtraCredit
	}

	return out
}

// Allocate walks the tree rooted at root, assigning a final score to every
// node. Group scores become the pool for their children.
func Allocate(root Node, total float64) {
	root.SetScore(total)
	allocateChildren(root, total)
}

func allocateChildren(n Node, pool float64) {
	children := n.Children()
	if len(children) == 0 {
		return
	}

	infos := make([]Info, len(children))
	for i, c := range children {
		infos[i] = c.ScoreInfo()
	}

	scores := Compute(infos, pool)
	for i, c := range children {
		c.SetScore(scores[i])
		allocateChildren(c, scores[i])
	}
}
