package syncing

import "testing"

func TestFeedLimit(t *testing.T) {
	tests := []struct {
		delta int
		want  int
	}{
		{1, 6},
		{3, 8},
		{15, 20},
		{16, 20},
		{500, 20},
	}
	for _, tt := range tests {
		if got := feedLimit(tt.delta); got != tt.want {
			t.Errorf("feedLimit(%d) = %d, want %d", tt.delta, got, tt.want)
		}
	}
}

func TestProblemNumber(t *testing.T) {
	tests := []struct {
		slug string
		want int
	}{
		{"two-sum", 0},
		{"3sum", 3},
		{"4sum-ii", 4},
		{"problem-1234-and-56", 1234},
		{"", 0},
		{"99999999999999999999999-overflow", 0},
	}
	for _, tt := range tests {
		if got := problemNumber(tt.slug); got != tt.want {
			t.Errorf("problemNumber(%q) = %d, want %d", tt.slug, got, tt.want)
		}
	}
}

func TestEnrich_CapsAtTwentyAndDelta(t *testing.T) {
	db := openTestDB(t)
	feed := recentFeed(40)
	s := newTestSyncer(t, db, &stubFetcher{}, feed, nil)

	n := s.enrich(t.Context(), s.log, "alice", 30, fixedNow)
	if n != 20 {
		t.Fatalf("expected 20 rows (feed cap), got %d", n)
	}
	if len(feed.limits) != 1 || feed.limits[0] != maxFeedLimit {
		t.Fatalf("expected one request with limit %d, got %v", maxFeedLimit, feed.limits)
	}
}

func TestEnrich_FewerSubmissionsThanDelta(t *testing.T) {
	db := openTestDB(t)
	s := newTestSyncer(t, db, &stubFetcher{}, recentFeed(2), nil)

	if n := s.enrich(t.Context(), s.log, "alice", 5, fixedNow); n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
}

func TestEnrich_NoFeed(t *testing.T) {
	s := newTestSyncer(t, openTestDB(t), &stubFetcher{}, nil, nil)
	if n := s.enrich(t.Context(), s.log, "alice", 5, fixedNow); n != 0 {
		t.Fatalf("expected 0 rows without a feed, got %d", n)
	}
}
