package problem

import "rubric/pkg/score"

// Group is an ordered container of Params and sub-Groups sharing one score
// pool. A group's allocated score becomes the total distributed across its
// children.
type Group struct {
	info     score.Info
	children []score.Node

	score    float64
	scoreSet bool
}

// ScoreInfo implements score.Node.
func (g *Group) ScoreInfo() score.Info { return g.info }

// Children implements score.Node, in declaration order.
func (g *Group) Children() []score.Node { return g.children }

// SetScore implements score.Node.
func (g *Group) SetScore(s float64) {
	if g.scoreSet {
		panic("problem: Group score assigned twice")
	}
	g.score = s
	g.scoreSet = true
}

// Score returns the score pool the allocator assigned to this group.
func (g *Group) Score() float64 { return g.score }

// Params returns the group's leaf test cases in declaration order,
// descending into sub-groups.
func (g *Group) Params() []*Param {
	var out []*Param
	for _, c := range g.children {
		switch n := c.(type) {
		case *Param:
			out = append(out, n)
		case *Group:
			out = append(out, n.Params()...)
		}
	}
	return out
}
