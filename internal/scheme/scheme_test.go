package scheme

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sig(id string, seq string) Signature {
	site, label, pol, err := ParseTileID(id)
	if err != nil {
		panic(err)
	}
	return Signature{ID: id, Site: site, Subtype: label, Polarity: pol, Seq: []byte(seq)}
}

func testScheme(t *testing.T) *Scheme {
	t.Helper()
	s, err := New("toy", "1.0", []Signature{
		sig("100-1", "AAAACCCC"),
		sig("negative100-1", "AAAAGCCC"),
		sig("200-2", "CCCCGGGG"),
		sig("300-2.1", "GGGGTTTT"),
		sig("400-2.1.1", "TTTTAAAC"),
		sig("negative500-2.10", "ACACACAC"),
	}, nil)
	require.NoError(t, err)
	return s
}

func TestParseTileID(t *testing.T) {
	site, label, pol, err := ParseTileID("negative308238-2.1.1.2")
	require.NoError(t, err)
	assert.Equal(t, 308238, site)
	assert.Equal(t, "2.1.1.2", label)
	assert.Equal(t, Negative, pol)

	_, _, pol, err = ParseTileID("202001-1.1")
	require.NoError(t, err)
	assert.Equal(t, Positive, pol)

	for _, bad := range []string{"", "abc", "12-", "-1.1", "x1-1"} {
		_, _, _, err := ParseTileID(bad)
		assert.Error(t, err, bad)
	}
}

func TestTreeStructure(t *testing.T) {
	s := testScheme(t)
	var labels []string
	for _, n := range s.Nodes() {
		labels = append(labels, n.Label)
	}
	assert.Equal(t, []string{"1", "2", "2.1", "2.1.1", "2.10"}, labels)

	n, ok := s.Node("2.1.1")
	require.True(t, ok)
	assert.Equal(t, 3, n.Depth)
	var chain []string
	for _, a := range n.Lineage() {
		chain = append(chain, a.Label)
	}
	assert.Equal(t, []string{"2", "2.1", "2.1.1"}, chain)

	two, _ := s.Node("2")
	one, _ := s.Node("1")
	assert.True(t, two.IsAncestorOf(n))
	assert.False(t, one.IsAncestorOf(n))
	assert.True(t, s.Root().IsAncestorOf(one))
}

func TestExpectedDerived(t *testing.T) {
	s := testScheme(t)
	e := s.Expected("2.1.1")
	assert.Equal(t, Expected{All: 5, Positive: 3, Negative: 2, Subtype: 1}, e)
	assert.Equal(t, Expected{}, s.Expected("9"))
}

func TestNewLeavesInputUntouched(t *testing.T) {
	in := []Signature{sig("100-1", "aaaacccc"), sig("200-2", "CCCCGGGG")}
	s, err := New("toy", "1.0", in, nil)
	require.NoError(t, err)
	assert.Equal(t, "aaaacccc", string(in[0].Seq))
	assert.Equal(t, "AAAACCCC", string(s.Signatures[0].Seq))

	in[1].ID = "changed"
	in[1].Seq[0] = 'T'
	assert.Equal(t, "200-2", s.Signatures[1].ID)
	assert.Equal(t, "CCCCGGGG", string(s.Signatures[1].Seq))
}

func TestNewRejects(t *testing.T) {
	_, err := New("x", "", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidScheme)

	_, err = New("x", "", []Signature{sig("1-1", "ACGN")}, nil)
	assert.ErrorIs(t, err, ErrInvalidScheme)

	_, err = New("x", "", []Signature{sig("1-1", "ACGT"), sig("1-1", "ACGT")}, nil)
	assert.ErrorIs(t, err, ErrInvalidScheme)

	_, err = New("x", "", []Signature{{ID: "a", Subtype: "1..2", Seq: []byte("ACGT")}}, nil)
	assert.ErrorIs(t, err, ErrInvalidScheme)

	_, err = New("x", "", []Signature{sig("1-1", "ACGT")}, &Metadata{Expected: map[string]Expected{"7": {}}})
	assert.ErrorIs(t, err, ErrInvalidScheme)
}

func TestCompareLabels(t *testing.T) {
	assert.Equal(t, -1, CompareLabels("2.9", "2.10"))
	assert.Equal(t, -1, CompareLabels("2", "2.1"))
	assert.Equal(t, 1, CompareLabels("2.1", "1.9"))
	assert.Equal(t, 0, CompareLabels("2.1", "2.1"))
	assert.Equal(t, -1, CompareLabels("2.a", "2.b"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	fa := filepath.Join(dir, "toy.fasta")
	meta := filepath.Join(dir, "toy.yaml")
	require.NoError(t, os.WriteFile(fa, []byte(">100-1\nAAAACCCC\n>negative100-1\naaaagccc\n>200-2\nCCCCGGGG\n"), 0o644))
	require.NoError(t, os.WriteFile(meta, []byte(`name: toyscheme
version: 0.8.0
defaults:
  low_coverage_warning: 20
  min_tile_freq: 8
expected:
  "2": {all: 10, positive: 4, negative: 6, subtype: 4}
`), 0o644))

	s, err := Load(context.Background(), fa, meta)
	require.NoError(t, err)
	assert.Equal(t, "toyscheme", s.Name)
	assert.Equal(t, "0.8.0", s.Version)
	assert.Equal(t, 20.0, s.Defaults.LowCoverageWarning)
	assert.Equal(t, 8, s.Defaults.MinTileFreq)
	assert.Equal(t, Expected{All: 10, Positive: 4, Negative: 6, Subtype: 4}, s.Expected("2"))
	assert.Equal(t, "AAAAGCCC", string(s.Signatures[1].Seq))

	s, err = Load(context.Background(), fa, "")
	require.NoError(t, err)
	assert.Equal(t, "toy", s.Name)
}

func TestLoadBadHeader(t *testing.T) {
	fa := filepath.Join(t.TempDir(), "bad.fasta")
	require.NoError(t, os.WriteFile(fa, []byte(">tile\nACGT\n"), 0o644))
	_, err := Load(context.Background(), fa, "")
	assert.ErrorIs(t, err, ErrInvalidScheme)
}
