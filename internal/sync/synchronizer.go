// Package sync keeps a listing view consistent with its backing query.
// Fetches run asynchronously and may complete out of order; the
// synchronizer hands out a sequence number per fetch and applies only the
// result belonging to the newest issued request. Ordering is by request
// identity, never by arrival order.
//
// All methods are meant to be called from the UI event loop; fetch results
// re-enter through Apply on that same loop.
package sync

import (
	"github.com/pasteor/pasteor-cli/internal/model"
	"github.com/pasteor/pasteor-cli/internal/query"
)

// Outcome reports what Apply did with a fetch result.
type Outcome int

const (
	// Applied: the result replaced the current list.
	Applied Outcome = iota
	// Stale: a newer fetch was issued after this one; the result was dropped.
	Stale
	// Discarded: the synchronizer was closed; nothing was touched.
	Discarded
	// Failed: the fetch errored; the previous list is left in place.
	Failed
	// PageOverflow: the result was applied but the requested page is past
	// the recomputed last page; the caller must re-page to LastPage().
	PageOverflow
)

// Synchronizer owns the transient ListResult for one listing view.
type Synchronizer struct {
	nextSeq   uint64
	newestSeq uint64

	loading bool
	closed  bool

	result    model.ListResult
	hasResult bool
	lastErr   error

	// Page of each in-flight request, for overflow detection on arrival.
	inflightPage map[uint64]int

	// Tentative optimistic removals, reconciled away by the next
	// authoritative result.
	removed map[string]bool
}

// New creates an empty synchronizer.
func New() *Synchronizer {
	return &Synchronizer{
		inflightPage: make(map[uint64]int),
		removed:      make(map[string]bool),
	}
}

// Begin registers a fetch for q and returns its sequence number. The caller
// issues the request and later passes the result to Apply with the same
// sequence number.
func (s *Synchronizer) Begin(q query.Query) uint64 {
	s.nextSeq++
	s.newestSeq = s.nextSeq
	s.inflightPage[s.nextSeq] = q.Page
	s.loading = true
	return s.nextSeq
}

// Apply delivers a fetch result. Only the newest issued request may change
// state; superseded responses are dropped no matter when they arrive.
func (s *Synchronizer) Apply(seq uint64, res model.ListResult, err error) Outcome {
	if s.closed {
		return Discarded
	}

	page, known := s.inflightPage[seq]
	delete(s.inflightPage, seq)

	if !known || seq != s.newestSeq {
		// A newer request owns the view now. Loading stays set until that
		// request completes.
		return Stale
	}

	s.loading = false

	if err != nil {
		// Transient failure: keep the last-known-good list on screen.
		s.lastErr = err
		return Failed
	}

	s.lastErr = nil
	s.result = res
	s.hasResult = true
	// Authoritative data supersedes any tentative removals.
	clear(s.removed)

	if page > res.TotalPages {
		return PageOverflow
	}
	return Applied
}

// MarkDeleted applies a tentative local removal for immediate feedback.
// The caller still triggers a full refetch; its result discards the
// tentative edit whether or not the server agreed.
func (s *Synchronizer) MarkDeleted(id string) {
	if s.closed || !s.hasResult {
		return
	}
	s.removed[id] = true
}

// Result returns the current list with tentative removals filtered out.
func (s *Synchronizer) Result() model.ListResult {
	if len(s.removed) == 0 {
		return s.result
	}
	filtered := s.result
	filtered.Items = make([]model.PasteSummary, 0, len(s.result.Items))
	for _, item := range s.result.Items {
		if !s.removed[item.ID] {
			filtered.Items = append(filtered.Items, item)
		}
	}
	filtered.TotalCount = s.result.TotalCount - len(s.removed)
	if filtered.TotalCount < 0 {
		filtered.TotalCount = 0
	}
	return filtered
}

// HasResult reports whether any fetch has ever succeeded.
func (s *Synchronizer) HasResult() bool { return s.hasResult }

// Loading reports whether the newest issued fetch is still in flight.
func (s *Synchronizer) Loading() bool { return s.loading }

// Err returns the error of the most recent completed fetch, or nil.
func (s *Synchronizer) Err() error { return s.lastErr }

// LastPage returns the last valid page per the current result, at least 1.
func (s *Synchronizer) LastPage() int {
	if !s.hasResult || s.result.TotalPages < 1 {
		return 1
	}
	return s.result.TotalPages
}

// Close makes every later Apply a no-op. Called on page teardown so a
// pending fetch cannot mutate state afterwards.
func (s *Synchronizer) Close() {
	s.closed = true
	s.loading = false
}
