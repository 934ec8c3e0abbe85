// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hansel/internal/app"
)

func write(t *testing.T, fn, data string) string {
	t.Helper()
	if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

// Toy scheme tiles used to build reads.
var tiles = map[string]string{
	"200-2":               "CCAAGGTTAC",
	"300-2.1":             "GATTACAGGC",
	"310-2.1":             "GATTTCAGCC",
	"400-2.1.1":           "TCTCAAGAGC",
	"410-2.1.1":           "TCTGAAGTGC",
	"600-2.1.1.2":         "AGGACTTGCA",
	"negative100-1":       "AAACCGAAAG",
	"negative500-2.1.1.1": "ACCAGATGAC",
}

func fastq(n int, ids ...string) string {
	var b strings.Builder
	for _, id := range ids {
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "@%s_%d\nGG%sGG\n+\n%s\n", id, i, tiles[id], strings.Repeat("F", 14))
		}
	}
	return b.String()
}

func TestEndToEnd_PairedReads(t *testing.T) {
	dir := t.TempDir()
	r1 := write(t, filepath.Join(dir, "s_R1.fastq"), fastq(12, "200-2", "300-2.1", "310-2.1", "400-2.1.1"))
	r2 := write(t, filepath.Join(dir, "s_R2.fastq"), fastq(12, "410-2.1.1", "600-2.1.1.2", "negative100-1", "negative500-2.1.1.1"))

	var out, errBuf bytes.Buffer
	code := app.Run([]string{
		"--scheme", "../../testdata/toy.fasta",
		"--scheme-metadata", "../../testdata/toy.yaml",
		"--no-header",
		"--log-level", "error",
		"S=" + r1 + "," + r2,
	}, &out, &errBuf)
	if code != 0 {
		t.Fatalf("run exit %d, err=%s", code, errBuf.String())
	}
	cols := strings.Split(strings.TrimRight(out.String(), "\n"), "\t")
	if cols[0] != "S" || cols[3] != "2.1.1.2" {
		t.Fatalf("unexpected row: %q", out.String())
	}
	// metadata lowers the coverage warning to 4
	if cols[20] != "12.000" || cols[21] != "PASS" {
		t.Fatalf("coverage/status = %s/%s (%s)", cols[20], cols[21], cols[22])
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	dir := t.TempDir()
	var samples []string
	for i := 0; i < 6; i++ {
		fn := filepath.Join(dir, fmt.Sprintf("s%d.fastq", i))
		write(t, fn, fastq(8+i, "200-2", "300-2.1", "310-2.1"))
		samples = append(samples, fn)
	}
	run := func(threads int) string {
		var out, errB bytes.Buffer
		args := append([]string{
			"--scheme", "../../testdata/toy.fasta",
			"--threads", fmt.Sprint(threads),
			"--log-level", "error",
		}, samples...)
		code := app.Run(args, &out, &errB)
		if code != 0 {
			t.Fatalf("exit %d err %s", code, errB.String())
		}
		return out.String()
	}

	serial := run(1)
	parallel := run(4)

	if serial != parallel {
		t.Fatalf("parallel output differs from serial\nserial: %s\nparallel:%s", serial, parallel)
	}
	if n := strings.Count(serial, "\n"); n != 7 {
		t.Fatalf("want header + 6 rows, got %d lines", n)
	}
}
