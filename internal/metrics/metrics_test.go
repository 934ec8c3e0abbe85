package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSample(t *testing.T) {
	m := New()
	m.ObserveSample("reads", "PASS", 120, 2*time.Second)
	m.ObserveSample("reads", "FAIL", 3, time.Second)
	m.ObserveSample("contigs", "PASS", 200, time.Second)
	m.InputError()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.samples.WithLabelValues("reads", "PASS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.samples.WithLabelValues("reads", "FAIL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inputErrors))
	assert.Equal(t, 2, testutil.CollectAndCount(m.sampleTime))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSample("reads", "PASS", 1, time.Second)
	m.InputError()
	require.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveSample("contigs", "WARNING", 10, time.Millisecond)
	fn := filepath.Join(t.TempDir(), "hansel.prom")
	require.NoError(t, m.WriteTextfile(fn))
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `hansel_samples_total{kind="contigs",qc_status="WARNING"} 1`))
}
