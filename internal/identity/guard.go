package identity

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/gridboot/internal/core/domain"
)

const guardOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Guard detects changes to the identity record between resolution and
// handoff. It watches the record's directory from the moment it is armed
// and compares the record against the digest of the bytes the identity
// was resolved from.
type Guard struct {
	path    string
	digest  [sha256.Size]byte
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	changed []string
	done    chan struct{}
	closed  bool
}

// NewGuard arms a guard over the record at path. digest is the
// Resolution.Digest returned by GetOrCreate.
func NewGuard(path string, digest [sha256.Size]byte) (*Guard, error) {
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, domain.ErrIdentityStore.WithDetails("create watcher").WithCause(err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, domain.ErrIdentityStore.WithDetails("watch record directory").WithCause(err)
	}

	g := &Guard{
		path:    path,
		digest:  digest,
		watcher: w,
		done:    make(chan struct{}),
	}
	go g.loop()
	return g, nil
}

func (g *Guard) loop() {
	defer close(g.done)
	for {
		select {
		case ev, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != g.path || ev.Op&guardOps == 0 {
				continue
			}
			g.mu.Lock()
			g.changed = append(g.changed, ev.Op.String())
			g.mu.Unlock()
		case _, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Verify returns ErrIdentityChanged if the record was touched after the
// guard was armed or its content differs from the resolved digest.
func (g *Guard) Verify() error {
	g.mu.Lock()
	events := append([]string(nil), g.changed...)
	g.mu.Unlock()

	if len(events) > 0 {
		return domain.ErrIdentityChanged.WithDetailsf("%s: observed %v", g.path, events)
	}

	digest, err := digestFile(g.path)
	if err != nil {
		return domain.ErrIdentityChanged.WithDetails(g.path).WithCause(err)
	}
	if digest != g.digest {
		return domain.ErrIdentityChanged.WithDetailsf("%s: content digest changed", g.path)
	}
	return nil
}

// Close stops watching. It is safe to call more than once.
func (g *Guard) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.mu.Unlock()

	err := g.watcher.Close()
	<-g.done
	return err
}

func digestFile(path string) ([sha256.Size]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, fmt.Errorf("read %s: %w", path, err)
	}
	return sha256.Sum256(data), nil
}
