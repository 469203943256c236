// Package io reads failure reports from files, stdin and HTTP sources and
// writes reports and rendered artifacts back to disk.
//
// # Report Format
//
// A report is a JSON object keyed by job name. Each job carries its own
// failure count and optionally a list of test suites, each suite a list of
// failing test cases:
//
//	{
//	  "nightly-build": {
//	    "failedCount": 3,
//	    "testsuites": [
//	      {"name": "LoginSuite", "children": [{"name": "LoginTest", "failedCount": 3}]}
//	    ]
//	  },
//	  "lint": {"failedCount": 1}
//	}
//
// Job order in the file is preserved and becomes the clockwise order of the
// chart's inner ring.
//
// # Import
//
// Use [ImportJSON] to read a report from a file path, or [ReadJSON] to read
// from any io.Reader. [Fetcher] resolves a source string ("-" for stdin, a
// path, or an http(s) URL) and returns the raw bytes, retrying transient
// network failures.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write a report in document order.
// [WriteArtifacts] stores rendered outputs next to each other using the
// format as file extension.
package io
