package icons

import (
	"reflect"
	"testing"

	"github.com/kataras/figma-bridge/pkg/figma"
)

func vector(id string) figma.Node {
	return figma.Node{ID: id, Name: "v" + id, Type: figma.NodeTypeVector}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		root *figma.Node
		want []Candidate
	}{
		{
			name: "nil root",
			root: nil,
			want: nil,
		},
		{
			name: "single vector leaf",
			root: &figma.Node{ID: "1:1", Name: "Arrow", Type: figma.NodeTypeVector},
			want: []Candidate{{ID: "1:1", Name: "Arrow", Kind: KindVector}},
		},
		{
			name: "unnamed vector gets default name",
			root: &figma.Node{ID: "1:1", Type: figma.NodeTypeVector},
			want: []Candidate{{ID: "1:1", Name: "icon", Kind: KindVector}},
		},
		{
			name: "frame of vectors emits group before its children",
			root: &figma.Node{
				ID:       "0:1",
				Name:     "Close",
				Type:     figma.NodeTypeFrame,
				Children: []figma.Node{vector("1:1"), vector("1:2")},
			},
			want: []Candidate{
				{ID: "0:1", Name: "Close", Kind: KindGroup},
				{ID: "1:1", Name: "v1:1", Kind: KindVector},
				{ID: "1:2", Name: "v1:2", Kind: KindVector},
			},
		},
		{
			name: "unnamed group gets default name",
			root: &figma.Node{
				ID:       "0:1",
				Type:     figma.NodeTypeGroup,
				Children: []figma.Node{vector("1:1")},
			},
			want: []Candidate{
				{ID: "0:1", Name: "icon_group", Kind: KindGroup},
				{ID: "1:1", Name: "v1:1", Kind: KindVector},
			},
		},
		{
			name: "empty container is never a group",
			root: &figma.Node{ID: "0:1", Name: "Empty", Type: figma.NodeTypeFrame},
			want: nil,
		},
		{
			name: "mixed container is not a group",
			root: &figma.Node{
				ID:   "0:1",
				Name: "Card",
				Type: figma.NodeTypeFrame,
				Children: []figma.Node{
					vector("1:1"),
					{ID: "1:2", Name: "Label", Type: "TEXT"},
				},
			},
			want: []Candidate{{ID: "1:1", Name: "v1:1", Kind: KindVector}},
		},
		{
			name: "nested all-vector containers qualify at every level",
			root: &figma.Node{
				ID:   "0:1",
				Name: "Outer",
				Type: figma.NodeTypeComponent,
				Children: []figma.Node{
					{
						ID:       "1:1",
						Name:     "Inner",
						Type:     figma.NodeTypeInstance,
						Children: []figma.Node{vector("2:1")},
					},
					vector("1:2"),
				},
			},
			want: []Candidate{
				{ID: "0:1", Name: "Outer", Kind: KindGroup},
				{ID: "1:1", Name: "Inner", Kind: KindGroup},
				{ID: "2:1", Name: "v2:1", Kind: KindVector},
				{ID: "1:2", Name: "v1:2", Kind: KindVector},
			},
		},
		{
			name: "empty nested container disqualifies the parent",
			root: &figma.Node{
				ID:   "0:1",
				Name: "Outer",
				Type: figma.NodeTypeFrame,
				Children: []figma.Node{
					vector("1:1"),
					{ID: "1:2", Name: "Spacer", Type: figma.NodeTypeGroup},
				},
			},
			want: []Candidate{{ID: "1:1", Name: "v1:1", Kind: KindVector}},
		},
		{
			name: "missing type is skipped but its children are visited",
			root: &figma.Node{
				ID:   "0:1",
				Name: "Unknown",
				Children: []figma.Node{
					{ID: "1:1", Name: "Star", Type: figma.NodeTypeGroup, Children: []figma.Node{vector("2:1")}},
				},
			},
			want: []Candidate{
				{ID: "1:1", Name: "Star", Kind: KindGroup},
				{ID: "2:1", Name: "v2:1", Kind: KindVector},
			},
		},
		{
			name: "child without type disqualifies the container",
			root: &figma.Node{
				ID:       "0:1",
				Name:     "Frame",
				Type:     figma.NodeTypeFrame,
				Children: []figma.Node{vector("1:1"), {ID: "1:2"}},
			},
			want: []Candidate{{ID: "1:1", Name: "v1:1", Kind: KindVector}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.root)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassifyAllVectorLeaves(t *testing.T) {
	root := &figma.Node{
		ID:   "0:0",
		Type: "CANVAS",
		Children: []figma.Node{
			vector("1:1"), vector("1:2"), vector("1:3"), vector("1:4"),
		},
	}

	got := Classify(root)
	if len(got) != 4 {
		t.Fatalf("Classify() returned %d candidates, want 4", len(got))
	}
	for _, c := range got {
		if c.Kind != KindVector {
			t.Errorf("candidate %s has kind %q, want %q", c.ID, c.Kind, KindVector)
		}
	}
}

func TestClassifyDoesNotMutate(t *testing.T) {
	root := &figma.Node{
		ID:       "0:1",
		Type:     figma.NodeTypeFrame,
		Children: []figma.Node{{ID: "1:1", Type: figma.NodeTypeVector}},
	}

	Classify(root)

	if root.Name != "" || root.Children[0].Name != "" {
		t.Errorf("Classify() modified the input tree: %+v", root)
	}
}
