package sync

import (
	"os"
	"path/filepath"
	"testing"

	"cayasync/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestLedgerMissingFile(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/sync")
	defer cleanup()

	l := OpenLedger(filepath.Join(t.TempDir(), "downloaded_files.json"))
	require.Equal(t, 0, l.Len())
	require.False(t, l.Contains("D1"))
}

func TestLedgerRoundTrip(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/sync")
	defer cleanup()

	path := filepath.Join(t.TempDir(), "downloaded_files.json")

	l := OpenLedger(path)
	require.NoError(t, l.RecordSuccess("D1"))
	require.NoError(t, l.RecordSuccess("D2"))
	// recording the same id twice must not duplicate it
	require.NoError(t, l.RecordSuccess("D1"))

	require.True(t, l.Contains("D1"))
	require.True(t, l.Contains("D2"))
	require.Equal(t, 2, l.Len())

	// every RecordSuccess persists immediately
	reloaded := OpenLedger(path)
	require.Equal(t, []string{"D1", "D2"}, reloaded.Ids())
}

func TestLedgerUnparseableFile(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/sync")
	defer cleanup()

	path := filepath.Join(t.TempDir(), "downloaded_files.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	l := OpenLedger(path)
	require.Equal(t, 0, l.Len())

	// the ledger is still usable afterwards
	require.NoError(t, l.RecordSuccess("D1"))
	require.True(t, OpenLedger(path).Contains("D1"))
}
