package modelfile

import (
	"fmt"
	"pricewise/domain"
)

type tree struct {
	nodes []NodeSpec
}

// newTree checks the node table. Children must come after their parent,
// which rules out cycles, so eval always reaches a leaf.
func newTree(spec TreeSpec) (tree, error) {
	n := len(spec.Nodes)
	if n == 0 {
		return tree{}, fmt.Errorf("%w: empty tree", ErrArtifactCorrupt)
	}

	for i, node := range spec.Nodes {
		if node.isLeaf() {
			continue
		}
		if node.Feature < 0 || node.Feature >= domain.FeatureCount {
			return tree{}, fmt.Errorf("%w: node %d splits on feature %d", ErrSchemaMismatch, i, node.Feature)
		}
		if node.Left <= i || node.Left >= n || node.Right <= i || node.Right >= n {
			return tree{}, fmt.Errorf("%w: node %d has children %d/%d", ErrArtifactCorrupt, i, node.Left, node.Right)
		}
	}

	return tree{nodes: append([]NodeSpec(nil), spec.Nodes...)}, nil
}

func (t tree) eval(x []float64) float64 {
	i := 0
	for {
		node := t.nodes[i]
		if node.isLeaf() {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}
