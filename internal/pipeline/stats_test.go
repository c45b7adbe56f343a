package pipeline

import (
	"testing"
	"time"
)

func TestStageStats_SnapshotAggregates(t *testing.T) {
	s := NewStageStats(time.Hour)
	for _, ms := range []int64{10, 20, 30, 40} {
		s.Record("parse", time.Duration(ms)*time.Millisecond)
	}
	s.Record("build", 5*time.Millisecond)

	snap := s.Snapshot()
	parse := snap["parse"]
	if parse.Count != 4 {
		t.Fatalf("expected 4 samples, got %d", parse.Count)
	}
	if parse.MinMs != 10 || parse.MaxMs != 40 {
		t.Errorf("expected min 10 max 40, got %d/%d", parse.MinMs, parse.MaxMs)
	}
	if parse.AvgMs != 25 {
		t.Errorf("expected avg 25, got %v", parse.AvgMs)
	}
	if parse.P50Ms != 25 {
		t.Errorf("expected p50 25, got %v", parse.P50Ms)
	}
	if snap["build"].Count != 1 {
		t.Errorf("expected separate build series, got %v", snap["build"])
	}
}

func TestStageStats_WindowEviction(t *testing.T) {
	s := NewStageStats(10 * time.Millisecond)
	s.Record("parse", 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if snap := s.Snapshot(); snap["parse"].Count != 0 {
		t.Errorf("expected stale samples pruned, got %v", snap["parse"])
	}
}

func TestPercentile_Interpolation(t *testing.T) {
	values := []int64{10, 20, 30, 40}
	if got := percentile(values, 0); got != 10 {
		t.Errorf("p0: expected 10, got %v", got)
	}
	if got := percentile(values, 100); got != 40 {
		t.Errorf("p100: expected 40, got %v", got)
	}
	if got := percentile(values, 50); got != 25 {
		t.Errorf("p50: expected 25, got %v", got)
	}
}
