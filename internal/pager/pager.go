// Package pager holds page arithmetic for paged lists.
package pager

import "fmt"

// DefaultPageSize is used when a pager is created with a non-positive size.
const DefaultPageSize = 20

// Button is an entry of the jump popover.
type Button string

const (
	FirstPage Button = "first-page"
	LastPage  Button = "last-page"
)

// Messages are the pager labels. Of is the word between the range and the
// total in Label.
type Messages struct {
	NextPage     string `yaml:"next_page" toml:"next_page"`
	PreviousPage string `yaml:"previous_page" toml:"previous_page"`
	FirstPage    string `yaml:"first_page" toml:"first_page"`
	LastPage     string `yaml:"last_page" toml:"last_page"`
	Of           string `yaml:"of" toml:"of"`
}

// DefaultMessages returns the English labels.
func DefaultMessages() Messages {
	return Messages{
		NextPage:     "Next",
		PreviousPage: "Previous",
		FirstPage:    "First Page",
		LastPage:     "Last Page",
		Of:           "of",
	}
}

// Merge returns m with the non-empty fields of o applied over it.
func (m Messages) Merge(o Messages) Messages {
	for _, p := range []struct {
		dst *string
		src string
	}{
		{&m.NextPage, o.NextPage},
		{&m.PreviousPage, o.PreviousPage},
		{&m.FirstPage, o.FirstPage},
		{&m.LastPage, o.LastPage},
		{&m.Of, o.Of},
	} {
		if p.src != "" {
			*p.dst = p.src
		}
	}
	return m
}

// PageChanged is emitted whenever the page moves.
type PageChanged struct {
	Start           int
	End             int
	Page            int
	PageSize        int
	TotalItems      int
	HasNextPage     bool
	HasPreviousPage bool
}

// Pager is a 1-based page cursor over TotalItems.
type Pager struct {
	Page       int
	PageSize   int
	TotalItems int
	Disabled   bool
	Messages   Messages

	// OnChange receives every page move.
	OnChange func(PageChanged)
}

// New returns a pager on page 1.
func New(pageSize, total int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{Page: 1, PageSize: pageSize, TotalItems: total, Messages: DefaultMessages()}
}

// Start is the 1-based index of the first item on page.
func Start(page, pageSize int) int {
	return pageSize*(page-1) + 1
}

// End is the index of the last item on page, capped at total.
func End(page, pageSize, total int) int {
	return min(pageSize*page, total)
}

func (p *Pager) Start() int { return Start(p.Page, p.PageSize) }
func (p *Pager) End() int   { return End(p.Page, p.PageSize, p.TotalItems) }

// inactive reports whether every button is disabled.
func (p *Pager) inactive() bool {
	return p.Disabled || p.TotalItems <= 0 || p.TotalItems <= p.PageSize
}

func (p *Pager) HasPrevious() bool {
	return !p.inactive() && p.Page >= 2
}

func (p *Pager) HasNext() bool {
	return !p.inactive() && p.Page*p.PageSize < p.TotalItems
}

// CenterEnabled reports whether the range label opens the jump popover.
func (p *Pager) CenterEnabled() bool {
	return !p.inactive()
}

// LastPage is the number of the final page.
func (p *Pager) LastPage() int {
	if p.PageSize <= 0 || p.TotalItems <= 0 {
		return 1
	}
	return (p.TotalItems + p.PageSize - 1) / p.PageSize
}

// Label renders "start - end of total".
func (p *Pager) Label() string {
	of := p.Messages.Of
	if of == "" {
		of = DefaultMessages().Of
	}
	return fmt.Sprintf("%d - %d %s %d", p.Start(), p.End(), of, p.TotalItems)
}

// Next moves one page forward. It is a no-op when HasNext is false.
func (p *Pager) Next() (PageChanged, bool) {
	if !p.HasNext() {
		return PageChanged{}, false
	}
	return p.goTo(p.Page + 1), true
}

// Previous moves one page back. It is a no-op when HasPrevious is false.
func (p *Pager) Previous() (PageChanged, bool) {
	if !p.HasPrevious() {
		return PageChanged{}, false
	}
	return p.goTo(p.Page - 1), true
}

func (p *Pager) First() (PageChanged, bool) {
	if !p.CenterEnabled() {
		return PageChanged{}, false
	}
	return p.goTo(1), true
}

func (p *Pager) Last() (PageChanged, bool) {
	if !p.CenterEnabled() {
		return PageChanged{}, false
	}
	return p.goTo(p.LastPage()), true
}

// Jump applies a popover choice.
func (p *Pager) Jump(b Button) (PageChanged, bool) {
	switch b {
	case FirstPage:
		return p.First()
	case LastPage:
		return p.Last()
	}
	return PageChanged{}, false
}

func (p *Pager) goTo(page int) PageChanged {
	p.Page = page
	ev := PageChanged{
		Start:           p.Start(),
		End:             p.End(),
		Page:            page,
		PageSize:        p.PageSize,
		TotalItems:      p.TotalItems,
		HasNextPage:     p.HasNext(),
		HasPreviousPage: p.HasPrevious(),
	}
	if p.OnChange != nil {
		p.OnChange(ev)
	}
	return ev
}
