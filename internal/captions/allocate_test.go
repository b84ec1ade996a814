package captions

import (
	"math"
	"strings"
	"testing"
)

const sumTolerance = 1e-9

func assertSum(t *testing.T, durations []float64, total float64) {
	t.Helper()
	if got := sumOf(durations); math.Abs(got-total) > sumTolerance {
		t.Fatalf("durations %v sum to %v, want %v", durations, got, total)
	}
}

func TestAllocateProportionalToReadingTime(t *testing.T) {
	chunks := []string{strings.Repeat("a", 15), strings.Repeat("b", 45)}
	got := allocateDurations(chunks, 8, DefaultOptions())
	if math.Abs(got[0]-2) > sumTolerance || math.Abs(got[1]-6) > sumTolerance {
		t.Fatalf("durations = %v, want [2 6]", got)
	}
}

func TestAllocateSpreadsClampResidual(t *testing.T) {
	chunks := []string{strings.Repeat("a", 90), strings.Repeat("b", 15)}
	got := allocateDurations(chunks, 6, DefaultOptions())
	assertSum(t, got, 6)
	if math.Abs(got[1]-1) > sumTolerance {
		t.Fatalf("short chunk should stay at the minimum, got %v", got)
	}
}

func TestAllocateWidensBoundsWhenInfeasible(t *testing.T) {
	opts := DefaultOptions()

	long := allocateDurations([]string{"hello", "world"}, 30, opts)
	assertSum(t, long, 30)
	for _, d := range long {
		if math.Abs(d-15) > sumTolerance {
			t.Fatalf("expected even split of an overlong span, got %v", long)
		}
	}

	short := allocateDurations([]string{"a", "b", "c", "d"}, 1, opts)
	assertSum(t, short, 1)
	for _, d := range short {
		if d < 0 {
			t.Fatalf("negative duration in %v", short)
		}
	}
}

func TestAllocateRespectsClampWhenFeasible(t *testing.T) {
	opts := DefaultOptions()
	chunks := []string{
		strings.Repeat("a", 3),
		strings.Repeat("b", 84),
		strings.Repeat("c", 40),
		strings.Repeat("d", 12),
	}
	for _, total := range []float64{4, 7.3, 12.25, 19.9, 24} {
		got := allocateDurations(chunks, total, opts)
		assertSum(t, got, total)
		for _, d := range got {
			if d < opts.MinDuration-sumTolerance || d > opts.MaxDuration+sumTolerance {
				t.Fatalf("total %v: duration %v outside [%v, %v]: %v", total, d, opts.MinDuration, opts.MaxDuration, got)
			}
		}
	}
}

func TestAllocateDegenerateInputs(t *testing.T) {
	if got := allocateDurations(nil, 5, DefaultOptions()); got != nil {
		t.Fatalf("expected nil for no chunks, got %v", got)
	}
	got := allocateDurations([]string{"a", "b"}, 0, DefaultOptions())
	if len(got) != 2 || got[0] != 0 || got[1] != 0 {
		t.Fatalf("expected zero durations for empty span, got %v", got)
	}
}

func TestConserveTotalWaterFills(t *testing.T) {
	durations := []float64{1, 1, 1}
	conserveTotal(durations, 4.5, 1, 2)
	for _, d := range durations {
		if math.Abs(d-1.5) > sumTolerance {
			t.Fatalf("expected even spread, got %v", durations)
		}
	}

	saturated := []float64{2, 1, 1}
	conserveTotal(saturated, 5, 1, 2)
	assertSum(t, saturated, 5)
	if saturated[0] != 2 {
		t.Fatalf("saturated duration moved: %v", saturated)
	}
}

func TestTimeCaptionsCoversSpan(t *testing.T) {
	sp := span{start: 10, end: 14, text: "hello world this is a test"}
	chunks := []string{"hello world this", "is a test"}
	caps := timeCaptions(sp, chunks, SpaceDelimited(), narrowOptions())
	if len(caps) != 2 {
		t.Fatalf("expected 2 captions, got %+v", caps)
	}
	if caps[0].Start != 10 || caps[1].End != 14 {
		t.Fatalf("captions do not cover span: %+v", caps)
	}
	if caps[0].End != caps[1].Start {
		t.Fatalf("captions are not contiguous: %+v", caps)
	}
}
