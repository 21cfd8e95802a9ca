package feedback

import "testing"

func TestBandFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score  int
		expect string
	}{
		{score: 100, expect: "excellent"},
		{score: 80, expect: "excellent"},
		{score: 79, expect: "good"},
		{score: 60, expect: "good"},
		{score: 59, expect: "partial"},
		{score: 40, expect: "partial"},
		{score: 39, expect: "low"},
		{score: 0, expect: "low"},
		{score: -5, expect: "low"},
	}

	for _, tt := range tests {
		if got := BandFor(tt.score).Name; got != tt.expect {
			t.Fatalf("score %d: expected band %q, got %q", tt.score, tt.expect, got)
		}
	}
}

func TestDefaultNeverEmpty(t *testing.T) {
	t.Parallel()

	for score := 0; score <= 100; score++ {
		if Default(score) == "" {
			t.Fatalf("empty feedback for score %d", score)
		}
	}
}
