package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myfind/internal/finder"
)

func sampleReport() *finder.Report {
	return &finder.Report{Entries: []finder.Entry{
		{Target: "a", Outcome: finder.Ok([]finder.Record{{Name: "a"}, {Name: "a"}})},
		{Target: "b", Outcome: finder.Ok(nil)},
		{Target: "c", Outcome: finder.Failed(finder.KindSpawnFailed, "no pids left")},
		{Target: "d", Outcome: finder.Failed(finder.KindWorkerCrashed, "exit status 2")},
	}}
}

func TestObserveReport(t *testing.T) {
	r := NewRecorder()
	r.ObserveReport(sampleReport(), 1500*time.Millisecond)

	assert.Equal(t, 4.0, testutil.ToFloat64(r.TargetsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.MatchesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.WorkersTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.WorkersTotal.WithLabelValues("spawn_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.WorkersTotal.WithLabelValues("worker_crashed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.LastRunFailed))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.RunDuration))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveReport(sampleReport(), time.Second)

	path := filepath.Join(t.TempDir(), "myfind.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `myfind_workers_total{outcome="ok"} 2`)
	assert.Contains(t, string(data), "myfind_matches_total 2")
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.ObserveReport(sampleReport(), time.Second)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.TargetsTotal))
	n, err := testutil.GatherAndCount(b.Gatherer(), "myfind_targets_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
