package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dhamidi/gqlfront/reactive"
)

type ChangeKind int

const (
	ChangeUpdated ChangeKind = iota
	ChangeRemoved
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "updated"
}

// Change reports that a file was re-parsed or dropped from the workspace.
// File is nil for removals.
type Change struct {
	Kind ChangeKind
	Path string
	File *File
}

type WatcherConfig struct {
	// Debounce is how long a path must stay quiet before it is re-parsed.
	Debounce   time.Duration
	SkipHidden bool
}

func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		Debounce:   100 * time.Millisecond,
		SkipHidden: true,
	}
}

// Watcher publishes the changes it applies to a workspace while files under
// its root are edited. Each subscription runs its own fsnotify watcher
// until it is cancelled.
type Watcher struct {
	ws  *Workspace
	cfg WatcherConfig
}

func NewWatcher(ws *Workspace, cfg WatcherConfig) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultWatcherConfig().Debounce
	}
	return &Watcher{ws: ws, cfg: cfg}
}

func (w *Watcher) Subscribe(sub reactive.Subscriber[Change]) {
	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		err = w.addTree(fsw, w.ws.RootDir())
		if err != nil {
			fsw.Close()
		}
	}
	if err != nil {
		sub.OnSubscribe(closedSubscription{})
		sub.OnError(fmt.Errorf("watch %s: %w", w.ws.RootDir(), err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan Change)
	go func() {
		defer close(changes)
		defer fsw.Close()
		w.run(ctx, fsw, changes)
	}()
	log.Infof("watching %s", w.ws.RootDir())
	reactive.FromChannel(ctx, changes).Subscribe(&watchSubscriber{Subscriber: sub, cancel: cancel})
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Change) {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, event.Name); err != nil {
						log.Warningf("cannot watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(w.cfg.Debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Errorf("watcher: %v", err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			clear(pending)
			slices.Sort(paths)
			for _, path := range paths {
				select {
				case out <- w.apply(path):
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// apply brings the workspace in line with the file on disk.
func (w *Watcher) apply(path string) Change {
	if err := w.ws.ScanFile(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warningf("%v", err)
		}
		w.ws.RemoveFile(path)
		return Change{Kind: ChangeRemoved, Path: path}
	}
	return Change{Kind: ChangeUpdated, Path: path, File: w.ws.File(path)}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if !HasExtension(event.Name) {
		return false
	}
	return !w.cfg.SkipHidden || !strings.HasPrefix(filepath.Base(event.Name), ".")
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.cfg.SkipHidden && path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch directory %s: %w", path, err)
		}
		log.Debugf("watching directory %s", path)
		return nil
	})
}

// watchSubscriber stops the fsnotify loop when the subscription is
// cancelled.
type watchSubscriber struct {
	reactive.Subscriber[Change]
	cancel context.CancelFunc
}

func (s *watchSubscriber) OnSubscribe(sub reactive.Subscription) {
	s.Subscriber.OnSubscribe(&watchSubscription{Subscription: sub, cancel: s.cancel})
}

func (s *watchSubscriber) OnError(err error) {
	s.cancel()
	s.Subscriber.OnError(err)
}

func (s *watchSubscriber) OnComplete() {
	s.cancel()
	s.Subscriber.OnComplete()
}

type watchSubscription struct {
	reactive.Subscription
	cancel context.CancelFunc
}

func (s *watchSubscription) Cancel() {
	s.Subscription.Cancel()
	s.cancel()
}

type closedSubscription struct{}

func (closedSubscription) Request(int64) {}
func (closedSubscription) Cancel()       {}
