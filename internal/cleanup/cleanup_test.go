package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScheduleRemovesAfterDelay(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "clip.mp4")
	writeFile(t, file)

	j := New(root, 10*time.Millisecond)
	j.Schedule(file)

	if _, err := os.Stat(file); err != nil {
		t.Fatal("file must survive until the grace period elapses")
	}

	j.Wait()
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatal("file must be gone after the grace period")
	}
}

func TestScheduleRemovesEmptyWorkDir(t *testing.T) {
	root := t.TempDir()
	workDir := filepath.Join(root, "req-1234")
	file := filepath.Join(workDir, "video.mp4")
	writeFile(t, file)

	j := New(root, time.Millisecond)
	j.Schedule(file)
	j.Wait()

	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Fatal("empty work dir must be removed with its file")
	}
}

func TestScheduleRemovesWorkDirWithSiblings(t *testing.T) {
	root := t.TempDir()
	workDir := filepath.Join(root, "req-5678")
	file := filepath.Join(workDir, "video.mp4")
	sibling := filepath.Join(workDir, "subtitles.srt")
	writeFile(t, file)
	writeFile(t, sibling)

	j := New(root, time.Millisecond)
	j.Schedule(file)
	j.Wait()

	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Fatal("work dir and its siblings must be removed with the payload")
	}
}

func TestScheduleRemovesWorkDirForNestedPayload(t *testing.T) {
	root := t.TempDir()
	workDir := filepath.Join(root, "req-9abc")
	file := filepath.Join(workDir, "Season 1", "episode.mkv")
	writeFile(t, file)

	j := New(root, time.Millisecond)
	j.Schedule(file)
	j.Wait()

	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Fatal("work dir must be removed even when the payload is nested")
	}
}

func TestScheduleIdempotent(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "twice.bin")
	writeFile(t, file)

	j := New(root, time.Millisecond)
	j.Schedule(file)
	j.Schedule(file)
	j.Wait()

	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatal("file must be gone")
	}
}

func TestRemoveNowMissingFile(t *testing.T) {
	j := New(t.TempDir(), time.Millisecond)
	// Must not panic or log an error path for an already-absent file.
	j.RemoveNow(filepath.Join(j.Root, "never-existed.mp4"))
}

func TestRefusesPathsOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "precious.txt")
	writeFile(t, outside)

	j := New(root, time.Millisecond)
	j.RemoveNow(outside)

	if _, err := os.Stat(outside); err != nil {
		t.Fatal("files outside the download root must never be deleted")
	}
}

func TestRootItselfIsNeverRemoved(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "only.mp4")
	writeFile(t, file)

	j := New(root, time.Millisecond)
	j.Schedule(file)
	j.Wait()
	j.RemoveNow(root)

	if _, err := os.Stat(root); err != nil {
		t.Fatal("download root must survive cleanup")
	}
}
