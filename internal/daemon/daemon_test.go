package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "run", "appusage.pid"))
}

func TestWriteAndReadPID(t *testing.T) {
	d := newTestDaemon(t)

	require.NoError(t, d.WritePID())

	pid, err := d.ReadPID()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	running, got, err := d.IsRunning()
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), got)
}

func TestReadPIDMissingFile(t *testing.T) {
	d := newTestDaemon(t)

	pid, err := d.ReadPID()
	require.NoError(t, err)
	assert.Zero(t, pid)

	running, _, err := d.IsRunning()
	require.NoError(t, err)
	assert.False(t, running)
}

func TestReadPIDGarbage(t *testing.T) {
	d := newTestDaemon(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.PIDFile()), 0o755))
	require.NoError(t, os.WriteFile(d.PIDFile(), []byte("not-a-pid"), 0o644))

	_, err := d.ReadPID()
	assert.Error(t, err)
}

func TestIsRunningRemovesStaleFile(t *testing.T) {
	d := newTestDaemon(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.PIDFile()), 0o755))
	// pid_max on Linux is at most 2^22
	require.NoError(t, os.WriteFile(d.PIDFile(), []byte("99999999"), 0o644))

	running, _, err := d.IsRunning()
	require.NoError(t, err)
	assert.False(t, running)
	assert.NoFileExists(t, d.PIDFile())
}

func TestAcquireOwnPID(t *testing.T) {
	d := newTestDaemon(t)

	require.NoError(t, d.Acquire())
	require.NoError(t, d.Acquire())

	require.NoError(t, d.RemovePID())
	require.NoError(t, d.RemovePID())
	assert.NoFileExists(t, d.PIDFile())
}

func TestAcquireHeldByOtherProcess(t *testing.T) {
	d := newTestDaemon(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.PIDFile()), 0o755))
	// the parent of the test binary is alive for the whole run
	require.NoError(t, os.WriteFile(d.PIDFile(), fmt.Appendf(nil, "%d", os.Getppid()), 0o644))

	err := d.Acquire()
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestStopNotRunning(t *testing.T) {
	d := newTestDaemon(t)
	assert.ErrorIs(t, d.Stop(), ErrNotRunning)
}
