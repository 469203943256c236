package partition

import (
	"math"
	"testing"

	sberrors "github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
)

const epsilon = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < epsilon }

func jobs(values ...float64) *hierarchy.Node {
	root := hierarchy.New("Failures", 0)
	names := []string{"jobA", "jobB", "jobC", "jobD"}
	for i, v := range values {
		root.Add(hierarchy.New(names[i], v))
	}
	return root
}

func deepTree() *hierarchy.Node {
	login := hierarchy.New("LoginSuite", 0).
		Add(hierarchy.New("LoginTest", 3)).
		Add(hierarchy.New("LogoutTest", 1))
	cart := hierarchy.New("CartSuite", 0).
		Add(hierarchy.New("AddItem", 0)).
		Add(hierarchy.New("RemoveItem", 0))
	return hierarchy.New("Failures", 0).
		Add(hierarchy.New("jobA", 4).Add(login).Add(cart)).
		Add(hierarchy.New("jobB", 0).Add(hierarchy.New("EmptySuite", 0))).
		Add(hierarchy.New("jobC", 2))
}

func TestLayoutRoot(t *testing.T) {
	root := Layout(jobs(1, 2))
	if !root.Hidden {
		t.Error("root should be hidden")
	}
	if root.AngleStart != 0 || root.AngleEnd != FullCircle {
		t.Errorf("root span = [%v, %v), want [0, 2π)", root.AngleStart, root.AngleEnd)
	}
	if root.RadiusInner != 0 {
		t.Errorf("root RadiusInner = %v, want 0", root.RadiusInner)
	}
	for _, c := range root.Children {
		if c.Hidden {
			t.Errorf("%s should be visible", c.Name())
		}
	}
}

func TestLayoutProportional(t *testing.T) {
	root := Layout(jobs(3, 1))

	tests := []struct {
		name        string
		start, span float64
	}{
		{"jobA", 0, 1.5 * math.Pi},
		{"jobB", 1.5 * math.Pi, 0.5 * math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := root.Find(tt.name)
			if n == nil {
				t.Fatalf("Find(%q) = nil", tt.name)
			}
			if !approx(n.AngleStart, tt.start) {
				t.Errorf("AngleStart = %v, want %v", n.AngleStart, tt.start)
			}
			if !approx(n.Span(), tt.span) {
				t.Errorf("Span() = %v, want %v", n.Span(), tt.span)
			}
		})
	}
}

func TestLayoutEqualSplit(t *testing.T) {
	root := Layout(jobs(0, 0))
	for _, c := range root.Children {
		if !approx(c.Span(), math.Pi) {
			t.Errorf("%s Span() = %v, want π", c.Name(), c.Span())
		}
	}

	deep := Layout(deepTree())
	cart := deep.Find("jobA", "CartSuite")
	for _, c := range cart.Children {
		if !approx(c.Span(), cart.Span()/2) {
			t.Errorf("%s Span() = %v, want half of %v", c.Name(), c.Span(), cart.Span())
		}
	}
	if !approx(cart.Span(), 0) {
		t.Errorf("zero-sum CartSuite Span() = %v, want 0 next to non-zero siblings", cart.Span())
	}
}

func TestLayoutAggregateIgnoresFaceValue(t *testing.T) {
	root := Layout(deepTree())

	// jobA carries a face value of 4 but its leaves sum to 4 as well;
	// jobB carries 0 and its leaves sum to 0, so only jobA and jobC count.
	if got := root.Sum; got != 6 {
		t.Errorf("root Sum = %v, want 6", got)
	}
	if got := root.Find("jobB").Span(); got != 0 {
		t.Errorf("jobB Span() = %v, want 0", got)
	}
	if got, want := root.Find("jobA").Span(), FullCircle*4/6; !approx(got, want) {
		t.Errorf("jobA Span() = %v, want %v", got, want)
	}
}

func TestLayoutContiguity(t *testing.T) {
	inputs := map[string]*hierarchy.Node{
		"flat":      jobs(1, 2, 3, 4),
		"zeros":     jobs(0, 0, 0),
		"deep":      deepTree(),
		"fractions": jobs(1, 1, 1),
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			Layout(input).Walk(func(n *Node) {
				if n.AngleEnd < n.AngleStart {
					t.Errorf("%s: AngleEnd %v < AngleStart %v", n.Name(), n.AngleEnd, n.AngleStart)
				}
				if n.RadiusOuter < n.RadiusInner {
					t.Errorf("%s: RadiusOuter %v < RadiusInner %v", n.Name(), n.RadiusOuter, n.RadiusInner)
				}
				if len(n.Children) == 0 {
					return
				}
				if n.Children[0].AngleStart != n.AngleStart {
					t.Errorf("%s: first child starts at %v, want %v", n.Name(), n.Children[0].AngleStart, n.AngleStart)
				}
				if last := n.Children[len(n.Children)-1]; last.AngleEnd != n.AngleEnd {
					t.Errorf("%s: last child ends at %v, want %v", n.Name(), last.AngleEnd, n.AngleEnd)
				}
				var total float64
				for i, c := range n.Children {
					total += c.Span()
					if i > 0 && c.AngleStart != n.Children[i-1].AngleEnd {
						t.Errorf("%s: gap between %s and %s", n.Name(), n.Children[i-1].Name(), c.Name())
					}
				}
				if !approx(total, n.Span()) {
					t.Errorf("%s: children cover %v, want %v", n.Name(), total, n.Span())
				}
			})
		})
	}
}

func TestLayoutBands(t *testing.T) {
	const r = 300.0
	root := Layout(deepTree(), WithRadius(r))
	unit := r * r / 4 // four levels: root, job, suite, case

	root.Walk(func(n *Node) {
		d := float64(n.Depth())
		if !approx(n.RadiusInner, d*unit) || !approx(n.RadiusOuter, (d+1)*unit) {
			t.Errorf("%s band = [%v, %v], want [%v, %v]", n.Name(), n.RadiusInner, n.RadiusOuter, d*unit, (d+1)*unit)
		}
	})

	leaf := root.Find("jobA", "LoginSuite", "LoginTest")
	if got := (SqrtScale{}).Radius(leaf.RadiusOuter); !approx(got, r) {
		t.Errorf("outermost radius = %v, want %v", got, r)
	}
}

func TestLayoutLinearScale(t *testing.T) {
	root := Layout(jobs(1, 1), WithScale(LinearScale{}), WithRadius(120))
	c := root.Children[0]
	if c.RadiusInner != 60 || c.RadiusOuter != 120 {
		t.Errorf("band = [%v, %v], want [60, 120]", c.RadiusInner, c.RadiusOuter)
	}
}

func TestLayoutEmpty(t *testing.T) {
	root := Layout(hierarchy.New("Failures", 0))
	if len(root.Children) != 0 {
		t.Errorf("empty root has %d children", len(root.Children))
	}
	if !root.Hidden || root.Span() != FullCircle {
		t.Errorf("empty root = %+v, want hidden full circle", root)
	}
}

func TestLayoutDoesNotMutateInput(t *testing.T) {
	input := deepTree()
	before := input.Count()
	Layout(input)
	Layout(input)
	if input.Count() != before || input.Children[0].Value != 4 {
		t.Error("Layout() modified its input")
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ScaleSqrt},
		{"sqrt", ScaleSqrt},
		{"linear", ScaleLinear},
	}
	for _, tt := range tests {
		s, err := ParseScale(tt.in)
		if err != nil {
			t.Fatalf("ParseScale(%q) error: %v", tt.in, err)
		}
		if s.Name() != tt.want {
			t.Errorf("ParseScale(%q) = %s, want %s", tt.in, s.Name(), tt.want)
		}
	}

	if _, err := ParseScale("log"); !sberrors.Is(err, sberrors.ErrCodeInvalidScale) {
		t.Errorf("ParseScale(log) error = %v, want INVALID_SCALE", err)
	}
}
