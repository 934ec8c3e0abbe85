package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hansel/internal/app"
)

func TestCtrlC_MidScan_Exit130(t *testing.T) {
	// Biggish FASTA to ensure scanning is underway.
	fn := filepath.Join(t.TempDir(), "cancel_big.fa")
	const Mb = 1 << 20
	line := strings.Repeat("ACGT", 20) + "\n"
	var b strings.Builder
	b.WriteString(">chr1\n")
	for b.Len() < 64*Mb {
		b.WriteString(line)
	}
	if err := os.WriteFile(fn, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write fasta: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel shortly after start.
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	code := app.RunContext(ctx, []string{"--scheme", "../../testdata/toy.fasta", "--log-level", "error", fn}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
