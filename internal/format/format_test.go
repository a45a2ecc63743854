package format

import (
	"strings"
	"testing"
)

func TestSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{1, "1 B"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{10 * 1024 * 1024, "10 MB"},
		{int64(2.5 * 1024 * 1024 * 1024), "2.5 GB"},
	}
	for _, c := range cases {
		if got := Size(c.bytes); got != c.want {
			t.Errorf("Size(%d) = %q, want %q", c.bytes, got, c.want)
		}
	}
}

func TestSpeed(t *testing.T) {
	cases := []struct {
		rate float64
		want string
	}{
		{0, "0 B/s"},
		{512, "512 B/s"},
		{1536, "1.5 KB/s"},
		{2 * 1024 * 1024, "2 MB/s"},
	}
	for _, c := range cases {
		if got := Speed(c.rate); got != c.want {
			t.Errorf("Speed(%v) = %q, want %q", c.rate, got, c.want)
		}
	}
}

func TestSpeedFollowsSizeLadder(t *testing.T) {
	for _, n := range []int64{1, 1024, 1536, 1024 * 1024} {
		size := Size(n)
		speed := Speed(float64(n))
		if speed != size+"/s" {
			t.Errorf("Speed(%d) = %q, want %q", n, speed, size+"/s")
		}
	}
}

func TestBar(t *testing.T) {
	if got := Bar(0, 100, 20); got != strings.Repeat("░", 20) {
		t.Errorf("empty bar = %q", got)
	}
	if got := Bar(100, 100, 20); got != strings.Repeat("█", 20) {
		t.Errorf("full bar = %q", got)
	}
	got := Bar(50, 100, 20)
	if strings.Count(got, "█") != 10 || strings.Count(got, "░") != 10 {
		t.Errorf("half bar = %q", got)
	}
	// Overshoot clamps instead of growing the bar.
	if got := Bar(200, 100, 20); got != strings.Repeat("█", 20) {
		t.Errorf("overshoot bar = %q", got)
	}
	if got := Bar(10, 0, 20); got != strings.Repeat("░", 20) {
		t.Errorf("unknown-total bar = %q", got)
	}
}

func TestPercent(t *testing.T) {
	if p := Percent(50, 200); p != 25 {
		t.Errorf("Percent(50, 200) = %v", p)
	}
	if p := Percent(10, 0); p != 0 {
		t.Errorf("Percent with zero total = %v", p)
	}
	if p := Percent(300, 100); p != 100 {
		t.Errorf("Percent over 100 = %v", p)
	}
}
