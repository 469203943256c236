// Package failures holds the raw CI failure report and turns it into a
// generic [hierarchy.Node] tree.
//
// A report is a JSON object keyed by job name:
//
//	{
//	  "jobA": {"failedCount": 3, "testsuites": [
//	    {"name": "LoginSuite", "children": [{"name": "LoginTest", "failedCount": 3}]}
//	  ]},
//	  "jobB": {"failedCount": 1}
//	}
//
// [Decode] keeps the jobs in document order, so the first key in the report
// becomes the first ring segment clockwise from twelve o'clock.
//
// [hierarchy.Node]: github.com/matzehuels/sunburst/pkg/hierarchy.Node
package failures

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	sberrors "github.com/matzehuels/sunburst/pkg/errors"
)

// Tree is a failure report. Jobs are kept in the order they were read.
type Tree struct {
	Jobs []Job
}

// Job is one top-level entry of a report. TestSuites is nil when the
// report has no "testsuites" key for the job, which makes the job a leaf.
type Job struct {
	Name        string
	FailedCount json.Number
	TestSuites  []Suite
}

// Suite groups the failing test cases of a job.
type Suite struct {
	Name     string `json:"name"`
	Children []Case `json:"children"`
}

// Case is a single failing test case.
type Case struct {
	Name        string      `json:"name"`
	FailedCount json.Number `json:"failedCount"`
}

// Len returns the number of jobs in t.
func (t Tree) Len() int { return len(t.Jobs) }

// rawJob mirrors Job on the wire. Counts stay raw so that Normalize, not the
// JSON decoder, decides what a malformed count is.
type rawJob struct {
	FailedCount json.RawMessage `json:"failedCount"`
	TestSuites  *[]rawSuite     `json:"testsuites"`
}

type rawSuite struct {
	Name     string    `json:"name"`
	Children []rawCase `json:"children"`
}

type rawCase struct {
	Name        string          `json:"name"`
	FailedCount json.RawMessage `json:"failedCount"`
}

// Parse decodes a report from data. See [Decode].
func Parse(data []byte) (Tree, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a report from r, preserving the document order of jobs.
//
// Syntax errors and anything but whitespace after the report are reported
// with [sberrors.ErrCodeInvalidFormat]. A
// document that is valid JSON but not shaped like a report, or that repeats
// a job name, is reported with [sberrors.ErrCodeMalformedInput]. Counts are
// not validated here; [Normalize] does that.
func Decode(r io.Reader) (Tree, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return Tree{}, decodeErr(err)
	}
	if tok == nil {
		return Tree{}, expectEnd(dec)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Tree{}, sberrors.NewMalformedInput("report must be a JSON object keyed by job name")
	}

	var t Tree
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Tree{}, decodeErr(err)
		}
		name, _ := tok.(string)
		if seen[name] {
			return Tree{}, sberrors.NewMalformedInput("job %q appears more than once", name)
		}
		seen[name] = true

		var rj rawJob
		if err := dec.Decode(&rj); err != nil {
			return Tree{}, decodeErr(fmt.Errorf("job %q: %w", name, err))
		}
		t.Jobs = append(t.Jobs, rj.toJob(name))
	}
	if _, err := dec.Token(); err != nil {
		return Tree{}, decodeErr(err)
	}
	if err := expectEnd(dec); err != nil {
		return Tree{}, err
	}
	return t, nil
}

// expectEnd fails unless only whitespace follows the report value.
func expectEnd(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return sberrors.New(sberrors.ErrCodeInvalidFormat, "parse failure report: unexpected data after the report")
	}
	return nil
}

func decodeErr(err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return sberrors.Wrap(sberrors.ErrCodeInvalidFormat, err, "parse failure report")
	}
	return sberrors.Wrap(sberrors.ErrCodeMalformedInput, err, "parse failure report")
}

func (rj rawJob) toJob(name string) Job {
	j := Job{Name: name, FailedCount: rawCount(rj.FailedCount)}
	if rj.TestSuites == nil {
		return j
	}
	j.TestSuites = make([]Suite, 0, len(*rj.TestSuites))
	for _, rs := range *rj.TestSuites {
		s := Suite{Name: rs.Name, Children: make([]Case, 0, len(rs.Children))}
		for _, rc := range rs.Children {
			s.Children = append(s.Children, Case{Name: rc.Name, FailedCount: rawCount(rc.FailedCount)})
		}
		j.TestSuites = append(j.TestSuites, s)
	}
	return j
}

// rawCount keeps the literal text of a count. A missing or null count
// becomes the empty Number, which Normalize reads as zero.
func rawCount(raw json.RawMessage) json.Number {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	return json.Number(raw)
}

type wireJob struct {
	FailedCount json.Number `json:"failedCount"`
	TestSuites  []Suite     `json:"testsuites,omitempty"`
}

// MarshalJSON writes t as a JSON object with jobs in their stored order.
func (t Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, j := range t.Jobs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(j.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(wireJob{FailedCount: j.FailedCount, TestSuites: j.TestSuites})
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", j.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
