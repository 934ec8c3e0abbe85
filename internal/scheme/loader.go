// internal/scheme/loader.go
package scheme

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"hansel/internal/seqio"
)

// Metadata is the optional YAML companion of a tile FASTA.
//
//	name: heidelberg
//	version: 0.5.0
//	defaults:
//	  low_coverage_warning: 20
//	expected:
//	  "2.1.1.2": {all: 188, positive: 15, negative: 173, subtype: 6}
type Metadata struct {
	Name     string              `yaml:"name"`
	Version  string              `yaml:"version"`
	Defaults Defaults            `yaml:"defaults"`
	Expected map[string]Expected `yaml:"expected"`
}

const negativePrefix = "negative"

// ParseTileID splits a scheme FASTA header of the form "<site>-<subtype>"
// or "negative<site>-<subtype>".
func ParseTileID(id string) (site int, subtype string, pol Polarity, err error) {
	rest := id
	if strings.HasPrefix(rest, negativePrefix) {
		pol = Negative
		rest = rest[len(negativePrefix):]
	}
	i := strings.IndexByte(rest, '-')
	if i <= 0 || i == len(rest)-1 {
		return 0, "", pol, fmt.Errorf("tile id %q: want <site>-<subtype>", id)
	}
	site, err = strconv.Atoi(rest[:i])
	if err != nil || site < 0 {
		return 0, "", pol, fmt.Errorf("tile id %q: bad target site %q", id, rest[:i])
	}
	return site, rest[i+1:], pol, nil
}

// LoadMetadata reads a YAML metadata file.
func LoadMetadata(path string) (*Metadata, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScheme, path, err)
	}
	return &m, nil
}

// Load reads a tile FASTA and, if metaPath is non-empty, its YAML metadata.
// The scheme name comes from the metadata, else from the FASTA file stem.
func Load(ctx context.Context, fastaPath, metaPath string) (*Scheme, error) {
	var meta *Metadata
	if metaPath != "" {
		m, err := LoadMetadata(metaPath)
		if err != nil {
			return nil, err
		}
		meta = m
	}
	var sigs []Signature
	_, err := seqio.ReadFile(ctx, fastaPath, func(r seqio.Record) error {
		site, label, pol, err := ParseTileID(r.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScheme, err)
		}
		sigs = append(sigs, Signature{ID: r.ID, Site: site, Subtype: label, Polarity: pol, Seq: r.Seq})
		return nil
	})
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(fastaPath), filepath.Ext(fastaPath))
	name = strings.TrimSuffix(name, ".fasta")
	version := ""
	if meta != nil {
		if meta.Name != "" {
			name = meta.Name
		}
		version = meta.Version
	}
	return New(name, version, sigs, meta)
}
