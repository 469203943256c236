package hierarchy

import (
	"strings"
	"testing"
)

func sample() *Node {
	suite := New("LoginSuite", 0).
		Add(New("LoginTest", 3)).
		Add(New("LogoutTest", 1))
	job := New("jobA", 4).Add(suite)
	return New("Failures", 0).
		Add(job).
		Add(New("jobB", 2))
}

func TestAddSetsDepth(t *testing.T) {
	root := sample()

	want := map[string]int{
		"Failures":   0,
		"jobA":       1,
		"jobB":       1,
		"LoginSuite": 2,
		"LoginTest":  3,
		"LogoutTest": 3,
	}
	root.Walk(func(n *Node, _ []*Node) bool {
		if got := n.Depth; got != want[n.Name] {
			t.Errorf("%s.Depth = %d, want %d", n.Name, got, want[n.Name])
		}
		return true
	})
}

func TestAggregate(t *testing.T) {
	root := sample()

	tests := []struct {
		name string
		node *Node
		want float64
	}{
		{"root sums leaves", root, 6},
		{"job ignores face value", root.Children[0], 4},
		{"suite sums cases", root.Children[0].Children[0], 4},
		{"leaf uses face value", root.Children[1], 2},
		{"empty root", New("Failures", 9), 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Aggregate(); got != tt.want {
				t.Errorf("Aggregate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkAncestors(t *testing.T) {
	root := sample()

	var paths []string
	root.Walk(func(n *Node, ancestors []*Node) bool {
		names := make([]string, 0, len(ancestors)+1)
		for _, a := range ancestors {
			names = append(names, a.Name)
		}
		paths = append(paths, strings.Join(append(names, n.Name), "/"))
		return true
	})

	want := []string{
		"Failures",
		"Failures/jobA",
		"Failures/jobA/LoginSuite",
		"Failures/jobA/LoginSuite/LoginTest",
		"Failures/jobA/LoginSuite/LogoutTest",
		"Failures/jobB",
	}
	if len(paths) != len(want) {
		t.Fatalf("Walk() visited %d nodes, want %d: %v", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestWalkSkip(t *testing.T) {
	root := sample()
	visited := 0
	root.Walk(func(n *Node, _ []*Node) bool {
		visited++
		return n.Depth < 1
	})
	if visited != 3 {
		t.Errorf("Walk() visited %d nodes, want 3", visited)
	}
}

func TestCountAndMaxDepth(t *testing.T) {
	root := sample()
	if got := root.Count(); got != 6 {
		t.Errorf("Count() = %d, want 6", got)
	}
	if got := root.MaxDepth(); got != 3 {
		t.Errorf("MaxDepth() = %d, want 3", got)
	}
	if got := New("Failures", 0).MaxDepth(); got != 0 {
		t.Errorf("MaxDepth() = %d, want 0", got)
	}
}
