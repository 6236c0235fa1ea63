package filter

import (
	"slices"

	"github.com/maxvaer/rake/internal/config"
	"github.com/maxvaer/rake/internal/scanner"
)

// Kind identifies the response dimension a Rule inspects. Rules are always
// evaluated in Kind order.
type Kind int

const (
	KindStatus Kind = iota
	KindSize
	KindBody
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindSize:
		return "size"
	case KindBody:
		return "body"
	default:
		return "unknown"
	}
}

// Rule is one match/exclude predicate over a single dimension. If the
// match list is non-empty it alone decides; otherwise the exclude list does.
type Rule struct {
	kind Kind

	matchStatus, excludeStatus valueSet[uint16]
	matchSize, excludeSize     valueSet[uint64]
	matchBody, excludeBody     []string
}

// Name returns the rule's dimension name.
func (r Rule) Name() string { return r.kind.String() }

// Empty reports whether the rule has neither a match nor an exclude list.
func (r Rule) Empty() bool {
	switch r.kind {
	case KindStatus:
		return len(r.matchStatus) == 0 && len(r.excludeStatus) == 0
	case KindSize:
		return len(r.matchSize) == 0 && len(r.excludeSize) == 0
	case KindBody:
		return len(r.matchBody) == 0 && len(r.excludeBody) == 0
	}
	return true
}

// ShouldSuppress reports whether resp should be hidden by this rule.
func (r Rule) ShouldSuppress(resp *scanner.Response) bool {
	switch r.kind {
	case KindStatus:
		return decide(resp.StatusCode, r.matchStatus, r.excludeStatus)
	case KindSize:
		return decide(resp.ContentLength, r.matchSize, r.excludeSize)
	case KindBody:
		return decideBody(string(resp.Body), r.matchBody, r.excludeBody)
	}
	return false
}

type valueSet[T comparable] map[T]struct{}

func newValueSet[T comparable](vals []T) valueSet[T] {
	s := make(valueSet[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func decide[T comparable](v T, match, exclude valueSet[T]) bool {
	if len(match) > 0 {
		_, ok := match[v]
		return !ok
	}
	_, ok := exclude[v]
	return ok
}

// Chain ORs its rules, short-circuiting on the first one that suppresses.
type Chain struct {
	rules []Rule
}

// NewChain returns a chain holding the non-empty rules in Kind order.
func NewChain(rules ...Rule) *Chain {
	c := &Chain{}
	for _, r := range rules {
		c.Add(r)
	}
	return c
}

// FromOptions builds the status, size, and body rules from opts.
func FromOptions(opts *config.Options) *Chain {
	return NewChain(
		StatusRule(opts.MatchStatus, opts.FilterStatus),
		SizeRule(opts.MatchSize, opts.FilterSize),
		BodyRule(opts.MatchWords, opts.FilterWords),
	)
}

// Add inserts a rule, keeping Kind order. Empty rules are ignored.
func (c *Chain) Add(r Rule) {
	if r.Empty() {
		return
	}
	c.rules = append(c.rules, r)
	slices.SortStableFunc(c.rules, func(a, b Rule) int { return int(a.kind) - int(b.kind) })
}

// Rules returns the rules in evaluation order.
func (c *Chain) Rules() []Rule { return slices.Clone(c.rules) }

// apply runs every rule against resp. Returns true and the rule name if the
// response should be suppressed.
func (c *Chain) apply(resp *scanner.Response) (bool, string) {
	for _, r := range c.rules {
		if r.ShouldSuppress(resp) {
			return true, r.Name()
		}
	}
	return false, ""
}

// ShouldSuppress reports whether any rule suppresses resp.
func (c *Chain) ShouldSuppress(resp *scanner.Response) bool {
	suppressed, _ := c.apply(resp)
	return suppressed
}

// NeedsBody reports whether a body rule is present, in which case the
// dispatcher has to keep response bodies.
func (c *Chain) NeedsBody() bool {
	return slices.ContainsFunc(c.rules, func(r Rule) bool { return r.kind == KindBody })
}
