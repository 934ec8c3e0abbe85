// internal/dna/rc_test.go
package dna

import (
	"bytes"
	"testing"
)

func TestRevCompSimple(t *testing.T) {
	got := RevComp([]byte("AGTC"))
	want := []byte("GACT")
	if !bytes.Equal(got, want) {
		t.Errorf("RevComp(AGTC) = %s, want %s", got, want)
	}
}

func TestRevCompAmbiguous(t *testing.T) {
	in := []byte("RYSWKMBDHVN")
	want := []byte("NBDHVKMWSRY")
	got := RevComp(in)
	if !bytes.Equal(got, want) {
		t.Errorf("RevComp(%s) = %s, want %s", in, got, want)
	}
}

func TestRevCompEmpty(t *testing.T) {
	if RevComp(nil) != nil {
		t.Errorf("RevComp(nil) should return nil")
	}
	if out := RevComp([]byte("")); len(out) != 0 {
		t.Errorf("RevComp(\"\") length = %d, want 0", len(out))
	}
}

func TestIndexAndNormalize(t *testing.T) {
	for _, c := range []byte("ACGTacgtUu") {
		if Index(c) < 0 {
			t.Errorf("Index(%q) < 0", c)
		}
	}
	if Index('N') != -1 || Index('-') != -1 {
		t.Errorf("N and gaps must not index")
	}
	if got := string(Normalize([]byte("acgun"))); got != "ACGTN" {
		t.Errorf("Normalize = %q, want ACGTN", got)
	}
	if !IsACGT([]byte("ACGT")) || IsACGT([]byte("ACNT")) {
		t.Errorf("IsACGT mismatch")
	}
}
