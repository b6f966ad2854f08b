package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/slideroute/internal/routing"
)

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "drift.json")

	require.NoError(t, WriteJSON(path, map[string]any{"driftDetected": false}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["driftDetected"])
}

func TestBuildMetricsExport(t *testing.T) {
	session := routing.NewSession(nil)

	snapshot := BuildMetricsExport(session)
	assert.NotEmpty(t, snapshot.ExportedAt)
	assert.Zero(t, snapshot.Metrics.TotalChecks)
	assert.NotNil(t, snapshot.Failures)

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"failures":[]`)
}
