// Package query owns the canonical filter/sort/pagination state for paste
// listings. The controller performs pure state transitions and notifies
// subscribers exactly once per canonical-query change; it never does I/O.
package query

import (
	"strings"

	"github.com/pasteor/pasteor-cli/internal/model"
)

// SortKey orders a paste listing.
type SortKey string

const (
	SortDate  SortKey = "date"
	SortViews SortKey = "views"
	SortTitle SortKey = "title"
)

// sortCycle is the order the UI cycles through sort keys.
var sortCycle = []SortKey{SortDate, SortViews, SortTitle}

// Next returns the sort key following k in the cycle.
func (k SortKey) Next() SortKey {
	for i, s := range sortCycle {
		if s == k {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return SortDate
}

// Query is the canonical listing state. Transient input-field values live in
// the view; only applied values appear here.
type Query struct {
	Search   string
	Language string
	Sort     SortKey
	Page     int
	PageSize int
}

// Default returns the initial query.
func Default() Query {
	return Query{
		Search:   "",
		Language: model.AllLanguages,
		Sort:     SortDate,
		Page:     1,
		PageSize: model.DefaultPageSize,
	}
}

// Controller reconciles user edits into the canonical query.
type Controller struct {
	q    Query
	subs []func(Query)
}

// NewController creates a controller holding the default query.
func NewController() *Controller {
	return &Controller{q: Default()}
}

// Query returns the current canonical query.
func (c *Controller) Query() Query {
	return c.q
}

// Subscribe registers fn to be called after every canonical-query change.
// Subscribers run synchronously in registration order.
func (c *Controller) Subscribe(fn func(Query)) {
	c.subs = append(c.subs, fn)
}

func (c *Controller) publish() {
	for _, fn := range c.subs {
		fn(c.q)
	}
}

// SetSearch applies a trimmed search term. Changing any filter invalidates
// the meaning of the current page, so the page resets to 1.
func (c *Controller) SetSearch(text string) {
	text = strings.TrimSpace(text)
	if c.q.Search == text {
		return
	}
	c.q.Search = text
	c.q.Page = 1
	c.publish()
}

// SetLanguage applies a language filter tag; model.AllLanguages clears it.
func (c *Controller) SetLanguage(tag string) {
	if tag == "" {
		tag = model.AllLanguages
	}
	if c.q.Language == tag {
		return
	}
	c.q.Language = tag
	c.q.Page = 1
	c.publish()
}

// SetSort applies a sort key.
func (c *Controller) SetSort(key SortKey) {
	if c.q.Sort == key {
		return
	}
	c.q.Sort = key
	c.q.Page = 1
	c.publish()
}

// SetPage moves to page n. Callers clamp n to [1, totalPages] before
// calling; the controller only rejects values below 1.
func (c *Controller) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	if c.q.Page == n {
		return
	}
	c.q.Page = n
	c.publish()
}

// ResetFilters restores all fields to their defaults in a single transition.
// Subscribers observe exactly one change, never intermediate states.
func (c *Controller) ResetFilters() {
	def := Default()
	if c.q == def {
		return
	}
	c.q = def
	c.publish()
}
