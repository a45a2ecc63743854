package direct

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/progress"
)

func TestDownloadWritesFileAndReportsProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 3000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := New(dir, 1024)

	var samples []progress.Sample
	res, err := d.Download(context.Background(), srv.URL+"/media/clip.mp4", func(s progress.Sample) {
		samples = append(samples, s)
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.FileName != "clip.mp4" {
		t.Errorf("FileName = %q, want clip.mp4", res.FileName)
	}
	if res.ByteSize != int64(len(payload)) {
		t.Errorf("ByteSize = %d, want %d", res.ByteSize, len(payload))
	}
	data, err := os.ReadFile(res.LocalPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("written file differs from payload")
	}
	if len(samples) == 0 {
		t.Fatal("expected progress samples")
	}
	last := samples[len(samples)-1]
	if last.Done != int64(len(payload)) {
		t.Errorf("final sample Done = %d, want %d", last.Done, len(payload))
	}
	if last.Total != int64(len(payload)) {
		t.Errorf("final sample Total = %d, want %d", last.Total, len(payload))
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Done < samples[i-1].Done {
			t.Fatal("sample Done values must be non-decreasing")
		}
	}
}

func TestDownloadFileNameFromContentDisposition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		w.Write([]byte("pdf"))
	}))
	defer srv.Close()

	d := New(t.TempDir(), 1024)
	res, err := d.Download(context.Background(), srv.URL+"/dl?id=9", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.FileName != "report.pdf" {
		t.Errorf("FileName = %q, want report.pdf", res.FileName)
	}
}

func TestDownloadFileNameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	d := New(t.TempDir(), 1024)
	res, err := d.Download(context.Background(), srv.URL+"/", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.FileName != "downloaded_file" {
		t.Errorf("FileName = %q, want downloaded_file", res.FileName)
	}
}

func TestDownloadSanitizesHostileDispositionName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="../../etc/passwd"`)
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := New(dir, 1024)
	res, err := d.Download(context.Background(), srv.URL+"/x", nil)
	if err != nil {
		t.Fatal(err)
	}
	rel, err := filepath.Rel(dir, res.LocalPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		t.Errorf("file escaped download dir: %s", res.LocalPath)
	}
	if res.FileName != "passwd" {
		t.Errorf("FileName = %q, want passwd", res.FileName)
	}
}

func TestDownloadSameURLTwiceKeepsBothFiles(t *testing.T) {
	var serves int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serves++
		fmt.Fprintf(w, "payload-%d", serves)
	}))
	defer srv.Close()

	d := New(t.TempDir(), 1024)

	first, err := d.Download(context.Background(), srv.URL+"/clip.mp4", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Download(context.Background(), srv.URL+"/clip.mp4", nil)
	if err != nil {
		t.Fatal(err)
	}

	if first.LocalPath == second.LocalPath {
		t.Fatalf("both downloads landed on %s", first.LocalPath)
	}
	data, err := os.ReadFile(first.LocalPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload-1" {
		t.Errorf("first file = %q, want payload-1", data)
	}
	data, err = os.ReadFile(second.LocalPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload-2" {
		t.Errorf("second file = %q, want payload-2", data)
	}
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := New(t.TempDir(), 1024)
	_, err := d.Download(context.Background(), srv.URL+"/gone", nil)

	var httpErr *downloader.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", httpErr.Status)
	}
}

func TestDownloadUnknownLengthReportsZeroTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write(bytes.Repeat([]byte("y"), 2048))
		flusher.Flush()
	}))
	defer srv.Close()

	d := New(t.TempDir(), 1024)
	var sawSample bool
	_, err := d.Download(context.Background(), srv.URL+"/stream", func(s progress.Sample) {
		sawSample = true
		if s.Total != 0 {
			t.Errorf("Total = %d, want 0 for chunked response", s.Total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if !sawSample {
		t.Fatal("expected progress samples")
	}
}

func TestDownloadTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	d := New(t.TempDir(), 1024)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := d.Download(ctx, srv.URL+"/slow", nil)
	if !errors.Is(err, downloader.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
