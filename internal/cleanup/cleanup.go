// Package cleanup removes downloaded files after a grace period. Deletion
// is deferred so Telegram finishes reading the upload before the file
// disappears, and idempotent so crashes and double schedules are harmless.
package cleanup

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Janitor tracks pending deletions. Root bounds what may be removed: paths
// outside it are refused.
type Janitor struct {
	Root  string
	Delay time.Duration

	wg sync.WaitGroup
}

func New(root string, delay time.Duration) *Janitor {
	return &Janitor{Root: root, Delay: delay}
}

// Schedule queues path for removal after the grace period. A path inside a
// per-request work directory under Root takes the whole directory with it,
// so sibling files from multi-file downloads do not accumulate.
func (j *Janitor) Schedule(path string) {
	j.wg.Add(1)
	time.AfterFunc(j.Delay, func() {
		defer j.wg.Done()
		j.remove(path)
	})
}

// RemoveNow deletes path immediately, for aborted transfers.
func (j *Janitor) RemoveNow(path string) {
	j.remove(path)
}

// Wait blocks until all scheduled deletions have run. Used on shutdown.
func (j *Janitor) Wait() {
	j.wg.Wait()
}

func (j *Janitor) remove(path string) {
	if !j.inRoot(path) {
		logrus.WithField("path", path).Warn("Refusing to delete path outside download root")
		return
	}
	if samePath(path, j.Root) {
		logrus.Warn("Refusing to delete the download root itself")
		return
	}

	target := path
	if dir := j.workDir(path); dir != "" {
		target = dir
	}

	if err := os.RemoveAll(target); err != nil {
		logrus.WithError(err).WithField("path", target).Warn("Cleanup failed")
	} else {
		logrus.WithField("path", target).Debug("Removed downloaded payload")
	}
}

// workDir returns the top-level directory under Root that contains path,
// or "" when path sits directly in Root. The directory is removed as a
// whole: a multi-file download delivers one payload but leaves siblings
// (and nested layouts) that would otherwise outlive it.
func (j *Janitor) workDir(path string) string {
	rel, err := filepath.Rel(j.Root, path)
	if err != nil {
		return ""
	}
	first, rest, found := strings.Cut(rel, string(filepath.Separator))
	if !found || rest == "" {
		return ""
	}
	return filepath.Join(j.Root, first)
}

func (j *Janitor) inRoot(path string) bool {
	if j.Root == "" {
		return false
	}
	rel, err := filepath.Rel(j.Root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
