package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys.
type Keyer interface {
	// ReportKey names a raw report fetched from source.
	ReportKey(source string) string

	// ArtifactKey names one rendered output of the report whose content
	// hash is reportHash.
	ArtifactKey(reportHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists everything besides the report that changes an
// artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string   `json:"format"`
	Size        float64  `json:"size"`
	Scale       string   `json:"scale"`
	Palette     []string `json:"palette,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	Headline    string   `json:"headline,omitempty"`
	Description string   `json:"description,omitempty"`
	PNGScale    float64  `json:"png_scale,omitempty"`
}

// DefaultKeyer builds plain keys. RedisOptions.Prefix namespaces them per
// deployment.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey returns "report:<source>".
func (DefaultKeyer) ReportKey(source string) string {
	return fmt.Sprintf("report:%s", source)
}

// ArtifactKey returns "artifact:<format>:<hash of report and options>".
func (DefaultKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, reportHash, opts)
}

var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<prefix>:<sha256 of parts as JSON>".
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	json.NewEncoder(h).Encode(parts)
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}
