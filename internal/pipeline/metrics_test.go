package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()
	m.Observe(&Result{
		Labels:     []string{"a", "b", "c"},
		Reports:    []Report{{Respondent: "Sam"}},
		Stats:      Stats{Kept: 4, ExcludedRespondent: 1, ExcludedAnswer: 2},
		FinishedAt: time.Unix(1700000000, 0),
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.documents))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.answers.WithLabelValues("kept")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("excluded_respondent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.answers.WithLabelValues("excluded_answer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.respondents))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.lastRun))
}

func TestMetricsWriteFile(t *testing.T) {
	m := NewMetrics()
	m.Observe(&Result{Labels: []string{"a"}})

	path := filepath.Join(t.TempDir(), "packet.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "packet_documents_total 1")
}
