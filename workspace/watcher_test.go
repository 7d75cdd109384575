package workspace

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dhamidi/gqlfront/reactive"
)

type changeRecorder struct {
	mu      sync.Mutex
	sub     reactive.Subscription
	changes chan Change
	errs    chan error
}

func newChangeRecorder() *changeRecorder {
	return &changeRecorder{changes: make(chan Change, 16), errs: make(chan error, 1)}
}

func (r *changeRecorder) OnSubscribe(s reactive.Subscription) {
	r.mu.Lock()
	r.sub = s
	r.mu.Unlock()
	s.Request(math.MaxInt64)
}

func (r *changeRecorder) OnNext(c Change)   { r.changes <- c }
func (r *changeRecorder) OnError(err error) { r.errs <- err }
func (r *changeRecorder) OnComplete()       {}

func (r *changeRecorder) cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sub.Cancel()
}

func (r *changeRecorder) next(t *testing.T) Change {
	t.Helper()
	select {
	case c := <-r.changes:
		return c
	case err := <-r.errs:
		t.Fatalf("watcher failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change")
	}
	return Change{}
}

func TestWatcherPublishesChanges(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	root := t.TempDir()
	ws := New(root)
	rec := newChangeRecorder()
	NewWatcher(ws, WatcherConfig{Debounce: 20 * time.Millisecond, SkipHidden: true}).Subscribe(rec)
	defer rec.cancel()

	path := filepath.Join(root, "schema.graphql")
	require.NoError(t, os.WriteFile(path, []byte("type Q { a: Int }"), 0o644))

	change := rec.next(t)
	require.Equal(t, ChangeUpdated, change.Kind)
	require.Equal(t, path, change.Path)
	require.NotNil(t, change.File)
	require.NoError(t, change.File.ParseErr)
	require.Same(t, change.File, ws.File(path))

	require.NoError(t, os.Remove(path))
	change = rec.next(t)
	require.Equal(t, ChangeRemoved, change.Kind)
	require.Nil(t, ws.File(path))
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	root := t.TempDir()
	ws := New(root)
	rec := newChangeRecorder()
	NewWatcher(ws, WatcherConfig{Debounce: 10 * time.Millisecond, SkipHidden: true}).Subscribe(rec)
	defer rec.cancel()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden.graphql"), []byte("{ a }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "q.graphql"), []byte("{ a }"), 0o644))

	change := rec.next(t)
	require.Equal(t, filepath.Join(root, "q.graphql"), change.Path)
	require.Len(t, ws.Files(), 1)
}

func TestWatcherMissingRoot(t *testing.T) {
	ws := New(filepath.Join(t.TempDir(), "missing"))
	rec := newChangeRecorder()
	NewWatcher(ws, DefaultWatcherConfig()).Subscribe(rec)

	select {
	case err := <-rec.errs:
		require.ErrorContains(t, err, "watch")
	case <-time.After(time.Second):
		t.Fatal("expected an error for a missing root")
	}
}
