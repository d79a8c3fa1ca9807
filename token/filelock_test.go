package token

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_BasicAcquireRelease(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "spotify_auth.json")

	lock, err := acquireFileLock(testFile)
	require.NoError(t, err)

	_, err = os.Stat(testFile + ".lock")
	require.NoError(t, err)

	require.NoError(t, lock.release())
	_, err = os.Stat(testFile + ".lock")
	require.True(t, os.IsNotExist(err))
}

func TestFileLock_ConcurrentAccess(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "spotify_auth.json")

	const goroutines = 5
	var (
		holders atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			lock, err := acquireFileLock(testFile)
			if !assert.NoError(t, err) {
				return
			}

			n := holders.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(10 * time.Millisecond)
			holders.Add(-1)

			assert.NoError(t, lock.release())
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), maxSeen.Load())
}

func TestFileLock_StaleLockIsRemoved(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "spotify_auth.json")
	lockPath := testFile + ".lock"

	stale, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	stale.Close()
	staleTime := time.Now().Add(-35 * time.Second)
	require.NoError(t, os.Chtimes(lockPath, staleTime, staleTime))

	lock, err := acquireFileLock(testFile)
	require.NoError(t, err)
	defer lock.release()
	require.NotNil(t, lock.lockFile)
}
