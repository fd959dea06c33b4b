package search

import (
	"reflect"
	"strings"
	"testing"
)

func sampleDocs() []Document {
	// Newest-first, the order the index builder receives.
	return []Document{
		{ID: "q3", Title: "Goroutine leaks in servers", Body: "finding goroutine leaks", Tags: []string{"go", "debugging"}, VoteScore: 5},
		{ID: "q2", Title: "Postgres index types", Body: "btree vs hash", Tags: []string{"postgres"}, VoteScore: 0},
		{ID: "q1", Title: "How do goroutines work", Body: "scheduler and goroutines", Tags: []string{"go"}, VoteScore: 2},
	}
}

// --- ParseQuery ---

func TestParseQuery(t *testing.T) {
	cases := []struct {
		raw       string
		wantTerms string
		wantTags  []string
		wantScore *int64
	}{
		{"plain words only", "plain words only", nil, nil},
		{"tag:go channels", "channels", []string{"go"}, nil},
		{"TAG:Go tag:postgres x", "x", []string{"go", "postgres"}, nil},
		{"score:5 leaks", "leaks", nil, ptr(int64(5))},
		{"score:-1 bad answers", "bad answers", nil, ptr(int64(-1))},
		// Malformed score values vanish instead of becoming terms.
		{"score:high leaks", "leaks", nil, nil},
		{"   ", "", nil, nil},
	}
	for _, tc := range cases {
		q := ParseQuery(tc.raw)
		if q.Terms != tc.wantTerms {
			t.Fatalf("ParseQuery(%q).Terms = %q; want %q", tc.raw, q.Terms, tc.wantTerms)
		}
		if !reflect.DeepEqual(q.Tags, tc.wantTags) {
			t.Fatalf("ParseQuery(%q).Tags = %#v; want %#v", tc.raw, q.Tags, tc.wantTags)
		}
		switch {
		case tc.wantScore == nil && q.Score != nil:
			t.Fatalf("ParseQuery(%q).Score = %d; want nil", tc.raw, *q.Score)
		case tc.wantScore != nil && (q.Score == nil || *q.Score != *tc.wantScore):
			t.Fatalf("ParseQuery(%q).Score = %v; want %d", tc.raw, q.Score, *tc.wantScore)
		}
	}
}

func ptr(n int64) *int64 { return &n }

// --- NewIndex / Len ---

func TestNewIndex_SkipsEmptyDocuments(t *testing.T) {
	idx := NewIndex([]Document{
		{ID: "empty", Title: "   ", Body: ""},
		{ID: "q1", Title: "real content", Body: "words"},
	})
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", idx.Len())
	}
}

func TestNewIndex_MaxDocsCap(t *testing.T) {
	idx := NewIndex(sampleDocs(), WithMaxDocs(2))
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", idx.Len())
	}
}

// --- TopK ranking ---

func TestTopK_RanksByJaccard(t *testing.T) {
	idx := NewIndex(sampleDocs())

	res := idx.TopK("goroutine leaks", 10)
	if len(res) == 0 {
		t.Fatalf("expected matches")
	}
	// q3 carries both query tokens. q1 holds "goroutines", which is a
	// different token than "goroutine", so q3 is the only hit.
	if res[0].ID != "q3" {
		t.Fatalf("top result = %s; want q3 (%+v)", res[0].ID, res)
	}
	for i := 1; i < len(res); i++ {
		if res[i].Score > res[i-1].Score {
			t.Fatalf("results not sorted by score: %+v", res)
		}
	}
}

func TestTopK_TieBreaksByInsertionOrder(t *testing.T) {
	idx := NewIndex([]Document{
		{ID: "new", Title: "channel basics", Body: ""},
		{ID: "old", Title: "channel basics", Body: ""},
	})
	res := idx.TopK("channel", 10)
	if len(res) != 2 || res[0].ID != "new" || res[1].ID != "old" {
		t.Fatalf("tie-break order unexpected: %+v", res)
	}
}

func TestTopK_EmptyAndNoMatch(t *testing.T) {
	idx := NewIndex(sampleDocs())

	if res := idx.TopK("", 10); res != nil {
		t.Fatalf("empty query: got %+v, want nil", res)
	}
	if res := idx.TopK("   ", 10); res != nil {
		t.Fatalf("blank query: got %+v, want nil", res)
	}
	if res := idx.TopK("zzzz qqqq", 10); res != nil {
		t.Fatalf("no-match query: got %+v, want nil", res)
	}

	empty := NewIndex(nil)
	if res := empty.TopK("anything", 10); res != nil {
		t.Fatalf("empty index: got %+v, want nil", res)
	}
}

func TestTopK_LimitAndDefaultK(t *testing.T) {
	idx := NewIndex(sampleDocs())

	res := idx.TopK("tag:go", 1)
	if len(res) != 1 {
		t.Fatalf("k=1: got %d results", len(res))
	}
	// Non-positive k falls back to the default of 10.
	res = idx.TopK("tag:go", 0)
	if len(res) != 2 {
		t.Fatalf("k=0: got %d results, want 2", len(res))
	}
}

// --- Filters ---

func TestTopK_TagFilter(t *testing.T) {
	idx := NewIndex(sampleDocs())

	// Filter-only query keeps insertion (newest-first) order.
	res := idx.TopK("tag:go", 10)
	if len(res) != 2 || res[0].ID != "q3" || res[1].ID != "q1" {
		t.Fatalf("tag filter unexpected: %+v", res)
	}

	// Multiple tags must all match.
	res = idx.TopK("tag:go tag:debugging", 10)
	if len(res) != 1 || res[0].ID != "q3" {
		t.Fatalf("multi-tag filter unexpected: %+v", res)
	}

	// Terms rank within the filtered set.
	res = idx.TopK("tag:go scheduler", 10)
	if len(res) != 1 || res[0].ID != "q1" {
		t.Fatalf("filter+terms unexpected: %+v", res)
	}
}

func TestTopK_ScoreFilter(t *testing.T) {
	idx := NewIndex(sampleDocs())

	// score:N is a minimum: q3 (5) and q1 (2) pass, q2 (0) does not.
	res := idx.TopK("score:2", 10)
	if len(res) != 2 || res[0].ID != "q3" || res[1].ID != "q1" {
		t.Fatalf("score filter unexpected: %+v", res)
	}

	res = idx.TopK("score:5", 10)
	if len(res) != 1 || res[0].ID != "q3" || res[0].VoteScore != 5 {
		t.Fatalf("exact threshold unexpected: %+v", res)
	}

	if res := idx.TopK("score:99", 10); res != nil {
		t.Fatalf("unmatched score filter: got %+v, want nil", res)
	}
}

// --- Options / helpers ---

func TestWithStopwords(t *testing.T) {
	docs := []Document{{ID: "q1", Title: "the scheduler", Body: ""}}
	idx := NewIndex(docs, WithStopwords([]string{"THE", " ", ""}))

	// "the" contributes nothing; the doc is found by its remaining token.
	if res := idx.TopK("scheduler", 10); len(res) != 1 || res[0].Score != 1.0 {
		t.Fatalf("stopword not removed from doc tokens: %+v", res)
	}
}

func TestSnippetTruncation(t *testing.T) {
	long := strings.Repeat("word ", 40)
	idx := NewIndex([]Document{{ID: "q1", Title: "t", Body: long}}, WithSnippetRunes(10))
	res := idx.TopK("word", 10)
	if len(res) != 1 {
		t.Fatalf("expected one result")
	}
	if !strings.HasSuffix(res[0].Snippet, "…") {
		t.Fatalf("snippet not truncated: %q", res[0].Snippet)
	}
	if got := len([]rune(res[0].Snippet)); got > 11 {
		t.Fatalf("snippet too long: %d runes (%q)", got, res[0].Snippet)
	}
}

func Test_truncateRunes(t *testing.T) {
	if got := truncateRunes("short", 10); got != "short" {
		t.Fatalf("truncateRunes(short) = %q", got)
	}
	if got := truncateRunes("  padded  ", 10); got != "padded" {
		t.Fatalf("truncateRunes should trim: %q", got)
	}
	if got := truncateRunes("αβγδε", 3); got != "αβγ…" {
		t.Fatalf("rune-aware truncation failed: %q", got)
	}
}

func Test_tokenize(t *testing.T) {
	toks := tokenize("Go 1.22 generics, generics!", nil)
	for _, want := range []string{"go", "generics"} {
		if _, ok := toks[want]; !ok {
			t.Fatalf("token %q missing from %v", want, toks)
		}
	}
	if toks := tokenize("!!! ...", nil); toks != nil {
		t.Fatalf("punctuation-only input should yield nil, got %v", toks)
	}
}
