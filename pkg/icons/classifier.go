// Package icons detects icon-like nodes in a Figma node tree.
package icons

import "github.com/kataras/figma-bridge/pkg/figma"

// Kind tells whether a candidate is a single vector or a group of vectors.
type Kind string

const (
	KindVector Kind = "vector"
	KindGroup  Kind = "group"
)

// Candidate is a node worth exporting as an icon.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Classify walks the tree rooted at root in pre-order and returns every vector node and
// every container whose whole subtree consists of vectors. Descent is not pruned after
// a group match, so the vectors of a group are reported as well; the result is flat and
// may overlap. The tree is never modified.
func Classify(root *figma.Node) []Candidate {
	var out []Candidate
	if root == nil {
		return out
	}
	classify(root, &out)
	return out
}

func classify(node *figma.Node, out *[]Candidate) {
	switch {
	case node.Type == figma.NodeTypeVector:
		*out = append(*out, Candidate{ID: node.ID, Name: nameOr(node.Name, "icon"), Kind: KindVector})
	case isContainer(node.Type) && len(node.Children) > 0 && allDescendantsAreVectors(node):
		*out = append(*out, Candidate{ID: node.ID, Name: nameOr(node.Name, "icon_group"), Kind: KindGroup})
	}

	for i := range node.Children {
		classify(&node.Children[i], out)
	}
}

// allDescendantsAreVectors reports whether every child is a vector or a non-empty
// container that satisfies the same rule.
func allDescendantsAreVectors(node *figma.Node) bool {
	for i := range node.Children {
		child := &node.Children[i]
		if child.Type == figma.NodeTypeVector {
			continue
		}
		if !isContainer(child.Type) || len(child.Children) == 0 || !allDescendantsAreVectors(child) {
			return false
		}
	}
	return true
}

func isContainer(nodeType string) bool {
	switch nodeType {
	case figma.NodeTypeFrame, figma.NodeTypeComponent, figma.NodeTypeInstance, figma.NodeTypeGroup:
		return true
	default:
		return false
	}
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
