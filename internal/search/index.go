// Package search provides a simple, deterministic, concurrency-safe in-memory
// index over question documents. It is intentionally small and
// dependency-free, but engineered with production-grade ergonomics:
//
//   - No logging in the library (callers decide how/what to log)
//   - Clear, documented types and functional options (Option pattern)
//   - Unicode-aware tokenization with optional stop-word removal
//   - Immutable, read-only index after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//   - Structured filters (score:N, tag:name) applied before ranking
//
// Ranking uses Jaccard similarity between the query token set and each
// document's token set: score = |Q ∩ D| / |Q ∪ D|. A query consisting only
// of filters matches every document that passes the filters, ranked by
// recency of insertion order.
package search

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Document is one indexable question. VoteScore is the ledger-derived score
// at index-build time and is what score:N filters compare against.
type Document struct {
	ID        string
	Title     string
	Body      string
	Tags      []string
	VoteScore int64
}

// Result is a ranked document with its similarity score.
type Result struct {
	ID        string
	Title     string
	Snippet   string
	VoteScore int64
	Score     float64
}

// Index is the minimal interface implemented by all search indices.
type Index interface {
	TopK(query string, k int) []Result
	Len() int
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	stopwords    map[string]struct{}
	maxDocs      int
	snippetRunes int
}

func defaultConfig() config {
	return config{
		stopwords:    nil,
		maxDocs:      0,
		snippetRunes: 200,
	}
}

func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

func WithMaxDocs(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDocs = n
		}
	}
}

// WithSnippetRunes caps the length of result snippets.
func WithSnippetRunes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.snippetRunes = n
		}
	}
}

// ----------------------------------------------------------------------------
// Query parsing

// Query is a parsed search expression: free-text terms plus structured
// filters. Score is a minimum vote score; nil when no score:N filter was
// given.
type Query struct {
	Terms string
	Tags  []string
	Score *int64
}

var filterRE = regexp.MustCompile(`(?i)\b(score|tag):(\S+)`)

// ParseQuery splits a raw query into free-text terms and filters. Malformed
// filter values (e.g. score:high) are dropped silently rather than treated
// as text, so a typo never pollutes the term set.
func ParseQuery(raw string) Query {
	var q Query
	rest := filterRE.ReplaceAllStringFunc(raw, func(m string) string {
		parts := strings.SplitN(m, ":", 2)
		key := strings.ToLower(parts[0])
		val := parts[1]
		switch key {
		case "score":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				q.Score = &n
			}
		case "tag":
			if t := strings.ToLower(strings.TrimSpace(val)); t != "" {
				q.Tags = append(q.Tags, t)
			}
		}
		return " "
	})
	q.Terms = strings.Join(strings.Fields(rest), " ")
	return q
}

// ----------------------------------------------------------------------------
// Implementation

type doc struct {
	id        string
	title     string
	snippet   string
	tags      map[string]struct{}
	voteScore int64
	tokens    map[string]struct{}
	tLen      int
	ord       int
}

type index struct {
	cfg  config
	docs []doc
}

// NewIndex builds an immutable Index from documents. Insertion order is used
// as the recency tie-breaker, so callers should pass newest-first slices.
func NewIndex(documents []Document, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	docs := make([]doc, 0, len(documents))
	for i, d := range documents {
		text := strings.TrimSpace(d.Title + " " + d.Body + " " + strings.Join(d.Tags, " "))
		toks := tokenize(text, cfg.stopwords)
		if len(toks) == 0 {
			continue
		}
		tags := make(map[string]struct{}, len(d.Tags))
		for _, t := range d.Tags {
			tags[strings.ToLower(t)] = struct{}{}
		}
		docs = append(docs, doc{
			id:        d.ID,
			title:     d.Title,
			snippet:   truncateRunes(d.Body, cfg.snippetRunes),
			tags:      tags,
			voteScore: d.VoteScore,
			tokens:    toks,
			tLen:      len(toks),
			ord:       i,
		})
		if cfg.maxDocs > 0 && len(docs) >= cfg.maxDocs {
			break
		}
	}
	return &index{cfg: cfg, docs: docs}
}

// Len reports how many documents the index holds.
func (i *index) Len() int { return len(i.docs) }

// TopK returns up to k best matches for query. Filters narrow the candidate
// set first; free-text terms then rank by Jaccard similarity. With no terms,
// candidates keep insertion order.
func (i *index) TopK(query string, k int) []Result {
	if len(i.docs) == 0 {
		return nil
	}
	q := ParseQuery(query)
	if q.Terms == "" && q.Score == nil && len(q.Tags) == 0 {
		return nil
	}
	if k <= 0 {
		k = 10
	}

	qTokens := tokenize(q.Terms, i.cfg.stopwords)
	qLen := len(qTokens)

	type scored struct {
		d     *doc
		score float64
	}
	buf := make([]scored, 0, min(k*4, len(i.docs)))

	for idx := range i.docs {
		d := &i.docs[idx]
		if !d.matches(q) {
			continue
		}
		if qLen == 0 {
			buf = append(buf, scored{d: d})
			continue
		}
		over := overlap(qTokens, d.tokens)
		if over == 0 {
			continue
		}
		union := float64(qLen + d.tLen - over)
		if union <= 0 {
			continue
		}
		buf = append(buf, scored{d: d, score: float64(over) / union})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].score != buf[b].score {
			return buf[a].score > buf[b].score
		}
		return buf[a].d.ord < buf[b].d.ord
	})

	if k > len(buf) {
		k = len(buf)
	}
	out := make([]Result, k)
	for j := 0; j < k; j++ {
		out[j] = Result{
			ID:        buf[j].d.id,
			Title:     buf[j].d.title,
			Snippet:   buf[j].d.snippet,
			VoteScore: buf[j].d.voteScore,
			Score:     buf[j].score,
		}
	}
	return out
}

func (d *doc) matches(q Query) bool {
	if q.Score != nil && d.voteScore < *q.Score {
		return false
	}
	for _, t := range q.Tags {
		if _, ok := d.tags[t]; !ok {
			return false
		}
	}
	return true
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	s = strings.ToLower(s)
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
