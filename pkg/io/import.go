package io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/failures"
)

// ReadJSON decodes a failure report from r.
//
// Decoding errors keep their error code (INVALID_FORMAT for broken JSON,
// MALFORMED_INPUT for structural problems). ReadJSON does not close r.
func ReadJSON(r io.Reader) (failures.Tree, error) {
	t, err := failures.Decode(r)
	if err != nil {
		return failures.Tree{}, fmt.Errorf("decode: %w", err)
	}
	return t, nil
}

// ImportJSON reads the report file at path, up to the size limit that
// applies to fetched reports.
func ImportJSON(path string) (failures.Tree, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return failures.Tree{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return failures.Tree{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	data, err := readLimited(f)
	if err != nil {
		return failures.Tree{}, err
	}
	return ReadJSON(bytes.NewReader(data))
}
