package failures

import (
	"encoding/json"
	"math"
	"strconv"

	sberrors "github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/hierarchy"
)

// RootName is the name of the synthetic root every normalized tree hangs from.
const RootName = "Failures"

// Normalize converts a report into a generic tree rooted at a node named
// [RootName].
//
// The root gets one child per job in report order. A job's value is its
// failedCount. Each suite becomes a child with value 0 and each test case a
// leaf carrying its own failedCount. Jobs without test suites are leaves.
//
// Any count that is negative, fractional, or not a number fails the whole
// call with an error satisfying [sberrors.IsMalformedInput]; no partial tree
// is returned. An empty report yields a root without children.
func Normalize(t Tree) (*hierarchy.Node, error) {
	root := hierarchy.New(RootName, 0)
	for _, job := range t.Jobs {
		v, err := parseCount(job.FailedCount, job.Name)
		if err != nil {
			return nil, err
		}
		jn := hierarchy.New(job.Name, v)
		for _, suite := range job.TestSuites {
			sn := hierarchy.New(suite.Name, 0)
			for _, tc := range suite.Children {
				cv, err := parseCount(tc.FailedCount, job.Name+"/"+suite.Name+"/"+tc.Name)
				if err != nil {
					return nil, err
				}
				sn.Add(hierarchy.New(tc.Name, cv))
			}
			jn.Add(sn)
		}
		root.Add(jn)
	}
	return root, nil
}

func parseCount(n json.Number, where string) (float64, error) {
	if n == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, sberrors.NewMalformedInput("%s: failedCount %s is not a number", where, n)
	}
	if v < 0 {
		return 0, sberrors.NewMalformedInput("%s: failedCount %s is negative", where, n)
	}
	if v != math.Trunc(v) {
		return 0, sberrors.NewMalformedInput("%s: failedCount %s is not a whole number", where, n)
	}
	return v, nil
}
