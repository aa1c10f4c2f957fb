package combobox

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/coalesce"
	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/option"
	"github.com/muurk/fieldkit/internal/search"
)

// DefaultDebounce is the search coalescing window.
const DefaultDebounce = 250 * time.Millisecond

// Config configures an Engine. The zero value is a usable single-select
// engine with local filtering.
type Config struct {
	Multiple bool
	// AllowAdd turns unmatched typed text into a new option on Enter or blur.
	AllowAdd bool
	// Debounce is the search window. Zero means DefaultDebounce, a
	// negative value disables the delay.
	Debounce time.Duration
	// Keys re-keys raw records given to SetRecords or returned by Provider.
	Keys     option.Keys
	Messages Messages
	Match    search.Mode

	Presentation PresentationMode
	// Compact reports whether the device is small enough to prefer a modal.
	Compact func() bool

	Provider   SearchProvider
	Surface    Surface
	ListHeight int

	// OnChange is called once per committed value change, outside the lock.
	OnChange func(option.Value)
	// OnSearchError receives provider errors from searches run by Typeahead.
	OnSearchError func(error)

	Logger *zap.Logger
}

// Engine is the combobox state machine. It owns the value, the option
// index and the visible subset, and decides when a list is shown.
// All methods are safe for concurrent use.
type Engine struct {
	mu    sync.Mutex
	cfg   Config
	msgs  Messages
	log   *zap.Logger
	sched *coalesce.Scheduler

	value   option.Value
	options []option.NormalizedOption
	// remote holds the last provider results; nil until one arrives.
	remote []option.NormalizedOption
	// picked remembers selected provider options missing from options.
	picked  []option.NormalizedOption
	visible []option.NormalizedOption

	state      State
	searching  bool
	custom     bool
	searchText string
	applied    string

	opening      bool
	list         *List
	presentation Presentation

	disabled bool
	readonly bool
	focused  bool
}

// New returns a closed engine.
func New(cfg Config) *Engine {
	wait := cfg.Debounce
	switch {
	case wait == 0:
		wait = DefaultDebounce
	case wait < 0:
		wait = 0
	}
	if cfg.Match == "" {
		cfg.Match = search.ModeContains
	}
	if cfg.Presentation == "" {
		cfg.Presentation = PresentAuto
	}
	return &Engine{
		cfg:   cfg,
		msgs:  DefaultMessages().Merge(cfg.Messages),
		log:   logging.OrDefault(cfg.Logger, "combobox"),
		sched: coalesce.New(wait),
		value: option.Empty(cfg.Multiple),
	}
}

// effects collects work that runs after the lock is released.
type effects struct {
	before  option.Value
	mount   *List
	pres    Presentation
	unmount []*List
}

func (e *Engine) begin() *effects {
	e.mu.Lock()
	return &effects{before: e.value}
}

func (e *Engine) end(fx *effects) {
	after := e.value
	onChange := e.cfg.OnChange
	surface := e.cfg.Surface
	e.mu.Unlock()

	if surface != nil {
		for _, l := range fx.unmount {
			surface.Unmount(l)
		}
	}
	if fx.mount != nil {
		if surface != nil {
			surface.Mount(fx.mount, fx.pres)
		}
		e.mu.Lock()
		e.opening = false
		stale := e.list != fx.mount
		e.mu.Unlock()
		// Closed while the surface was still presenting.
		if stale && surface != nil {
			surface.Unmount(fx.mount)
		}
	}
	if onChange != nil && !fx.before.Equal(after) {
		onChange(after)
	}
}

// Attach seeds the options from the provider with an empty query when no
// options have been set yet.
func (e *Engine) Attach(ctx context.Context) error {
	e.mu.Lock()
	provider := e.cfg.Provider
	seeded := e.options != nil
	e.mu.Unlock()
	if provider == nil || seeded {
		return nil
	}
	records, err := provider.Search(ctx, "")
	if err != nil {
		return fmt.Errorf("combobox: initial load: %w", err)
	}
	e.SetRecords(records)
	return nil
}

// Detach closes the list and drops any pending search.
func (e *Engine) Detach() {
	fx := e.begin()
	defer e.end(fx)
	e.resetSearchLocked()
	e.closeLocked(fx)
	e.sched.Stop()
}

// Open shows the list. It does nothing when the list is already open or
// opening, when the engine is disabled or readonly, and when there is
// nothing to list and no search term.
func (e *Engine) Open() bool {
	fx := e.begin()
	defer e.end(fx)
	return e.openLocked(fx)
}

func (e *Engine) openLocked(fx *effects) bool {
	if e.disabled || e.readonly || e.opening || e.state != Closed {
		return false
	}
	if len(e.options) == 0 && e.searchText == "" {
		return false
	}
	e.opening = true
	e.presentation = ChoosePresentation(e.cfg.Presentation, e.compact())
	e.list = newList(e.cfg.ListHeight, e.msgs.NoResults)
	e.state = e.openState()
	e.recomputeLocked()
	e.list.focusValue(e.value)
	fx.mount = e.list
	fx.pres = e.presentation
	e.log.Debug("List opened", zap.String("presentation", string(e.presentation)))
	return true
}

// Close tears the list down. Closing a closed engine does nothing.
func (e *Engine) Close() bool {
	fx := e.begin()
	defer e.end(fx)
	e.resetSearchLocked()
	return e.closeLocked(fx)
}

func (e *Engine) closeLocked(fx *effects) bool {
	if e.list == nil {
		e.state = Closed
		return false
	}
	fx.unmount = append(fx.unmount, e.list)
	e.list = nil
	e.state = Closed
	e.log.Debug("List closed")
	return true
}

// Focus marks the input focused and opens the list.
func (e *Engine) Focus() bool {
	fx := e.begin()
	defer e.end(fx)
	e.focused = true
	return e.openLocked(fx)
}

// Blur resolves typed text and closes the list.
//
// Single mode: the text selects the option whose display text equals it,
// falling back to one whose search token equals the text's token. With no
// match the value is cleared, or the text is added when AllowAdd is set.
//
// Multiple mode: a match is added to the selection, unmatched text is
// added as a new option with AllowAdd and otherwise ignored.
func (e *Engine) Blur() {
	fx := e.begin()
	defer e.end(fx)
	e.focused = false
	if e.searching && !e.disabled && !e.readonly {
		e.resolveTypedLocked(fx)
	}
	e.resetSearchLocked()
	e.closeLocked(fx)
}

func (e *Engine) resolveTypedLocked(fx *effects) {
	text := e.searchText
	o, found := e.matchTextLocked(text)
	switch {
	case found:
		_ = e.selectLocked(fx, o.Value)
	case e.cfg.AllowAdd && strings.TrimSpace(text) != "":
		_ = e.addAndSelectLocked(fx, text)
	case !e.cfg.Multiple:
		e.value = option.Empty(false)
	}
}

func (e *Engine) matchTextLocked(text string) (option.NormalizedOption, bool) {
	if strings.TrimSpace(text) == "" {
		return option.NormalizedOption{}, false
	}
	pools := [][]option.NormalizedOption{e.options, e.remote, e.picked}
	for _, pool := range pools {
		if o, ok := option.FindByText(pool, text); ok {
			return o, true
		}
	}
	for _, pool := range pools {
		if o, ok := option.FindByToken(pool, text); ok {
			return o, true
		}
	}
	return option.NormalizedOption{}, false
}

// Escape closes the list and discards typed text. The value is kept.
func (e *Engine) Escape() bool {
	fx := e.begin()
	defer e.end(fx)
	e.resetSearchLocked()
	return e.closeLocked(fx)
}

// Search records typed text and opens the list. The filter pass does not
// run yet: the caller runs RunSearch with the returned sequence number
// once the debounce window has passed, and a newer Search makes the
// number stale.
func (e *Engine) Search(text string) uint64 {
	fx := e.begin()
	defer e.end(fx)
	if e.disabled || e.readonly {
		return 0
	}
	e.startSearchLocked(fx, text)
	return e.sched.Issue()
}

// Typeahead is Search with the debounce handled by the engine. The filter
// pass runs on a timer goroutine; provider errors go to OnSearchError.
func (e *Engine) Typeahead(ctx context.Context, text string) uint64 {
	fx := e.begin()
	defer e.end(fx)
	if e.disabled || e.readonly {
		return 0
	}
	e.startSearchLocked(fx, text)
	return e.sched.Schedule(func(seq uint64) {
		if err := e.RunSearch(ctx, seq); err != nil {
			e.reportSearchError(err)
		}
	})
}

func (e *Engine) startSearchLocked(fx *effects, text string) {
	e.searchText = text
	e.searching = true
	e.custom = e.acceptsLocked(text)
	if e.state == Closed {
		e.openLocked(fx)
		return
	}
	e.state = e.openState()
}

func (e *Engine) acceptsLocked(query string) bool {
	if e.cfg.Provider == nil {
		return false
	}
	if a, ok := e.cfg.Provider.(QueryAccepter); ok {
		return a.Accept(query)
	}
	return true
}

func (e *Engine) reportSearchError(err error) {
	e.mu.Lock()
	cb := e.cfg.OnSearchError
	e.mu.Unlock()
	if cb != nil {
		cb(err)
		return
	}
	e.log.Warn("Search failed", zap.Error(err))
}

// Debounce returns the search coalescing window.
func (e *Engine) Debounce() time.Duration {
	return e.sched.Wait()
}

// IsCurrent reports whether seq belongs to the most recent search.
func (e *Engine) IsCurrent(seq uint64) bool {
	return e.sched.IsCurrent(seq)
}

// RunSearch performs the filter pass for seq. Stale sequence numbers, and
// searches overtaken by blur, escape or selection, are dropped. With a
// provider the call blocks on it and provider errors are returned; the
// visible options then keep their last good value.
func (e *Engine) RunSearch(ctx context.Context, seq uint64) error {
	query, custom, ok := e.BeginSearch(seq)
	if !ok || !custom {
		return nil
	}
	e.mu.Lock()
	provider := e.cfg.Provider
	e.mu.Unlock()
	records, err := provider.Search(ctx, query)
	return e.ApplySearch(seq, records, err)
}

// BeginSearch starts the pass for seq. Local searches are applied at once;
// for provider searches the caller fetches results for query and hands
// them to ApplySearch. ok is false when seq is stale.
func (e *Engine) BeginSearch(seq uint64) (query string, custom bool, ok bool) {
	fx := e.begin()
	defer e.end(fx)
	if !e.liveLocked(seq) {
		logging.LogSearch(e.log, e.searchText, seq, 0, false)
		return "", false, false
	}
	if e.custom {
		return e.searchText, true, true
	}
	e.applied = search.GenerateSearchToken(e.searchText)
	e.state = OpenSearching
	e.recomputeLocked()
	logging.LogSearch(e.log, e.searchText, seq, len(e.visible), true)
	return e.searchText, false, true
}

// ApplySearch applies provider results for seq. An error is returned
// unchanged in meaning and leaves the visible options alone; results for a
// stale seq are dropped.
func (e *Engine) ApplySearch(seq uint64, records []option.Record, err error) error {
	fx := e.begin()
	defer e.end(fx)
	if err != nil {
		return fmt.Errorf("combobox: search %q: %w", e.searchText, err)
	}
	if !e.liveLocked(seq) || !e.custom {
		logging.LogSearch(e.log, e.searchText, seq, len(records), false)
		return nil
	}
	e.remote = option.NormalizeRecords(records, e.cfg.Keys)
	if e.remote == nil {
		e.remote = []option.NormalizedOption{}
	}
	e.state = OpenCustomSearch
	e.recomputeLocked()
	logging.LogSearch(e.log, e.searchText, seq, len(e.remote), true)
	return nil
}

func (e *Engine) liveLocked(seq uint64) bool {
	return e.sched.IsCurrent(seq) && e.searching && e.state != Closed
}

// ClearSearch drops the search term and lists every option again.
func (e *Engine) ClearSearch() {
	fx := e.begin()
	defer e.end(fx)
	e.resetSearchLocked()
	if e.state != Closed {
		e.state = OpenIdle
	}
	e.recomputeLocked()
}

func (e *Engine) resetSearchLocked() {
	if e.searching || e.searchText != "" {
		e.sched.Issue()
	}
	e.searching = false
	e.custom = false
	e.searchText = ""
	e.applied = ""
	e.remote = nil
	if e.state != Closed {
		e.state = OpenIdle
	}
}

// Select commits v. Single mode replaces the value and closes the list.
// Multiple mode adds items not yet selected and keeps the list open.
func (e *Engine) Select(v any) error {
	fx := e.begin()
	defer e.end(fx)
	return e.selectLocked(fx, v)
}

func (e *Engine) selectLocked(fx *effects, v any) error {
	if e.disabled || e.readonly {
		return ErrDisabled
	}
	if e.cfg.Multiple {
		var items []string
		for _, it := range option.Normalize(v, true).Strings() {
			if it != "" {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			return ErrEmptySelection
		}
		e.rememberLocked(items)
		e.value = e.value.With(items...)
		e.resetSearchLocked()
		e.recomputeLocked()
		return nil
	}
	next := option.Normalize(v, false)
	e.rememberLocked(next.Strings())
	e.value = next
	e.resetSearchLocked()
	e.closeLocked(fx)
	return nil
}

func (e *Engine) rememberLocked(values []string) {
	for _, v := range values {
		if _, ok := option.Find(e.options, v); ok {
			continue
		}
		if _, ok := option.Find(e.picked, v); ok {
			continue
		}
		if o, ok := option.Find(e.remote, v); ok {
			e.picked = append(e.picked, o)
		}
	}
}

// Deselect removes items from a multiple selection. In single mode the
// value is cleared. The list is not reopened.
func (e *Engine) Deselect(v any) error {
	fx := e.begin()
	defer e.end(fx)
	if e.disabled || e.readonly {
		return ErrDisabled
	}
	if !e.cfg.Multiple {
		e.value = option.Empty(false)
		return nil
	}
	e.value = e.value.Without(option.Normalize(v, true).Strings()...)
	e.recomputeLocked()
	return nil
}

// Clear empties the value.
func (e *Engine) Clear() error {
	fx := e.begin()
	defer e.end(fx)
	if e.disabled || e.readonly {
		return ErrDisabled
	}
	e.value = option.Empty(e.cfg.Multiple)
	e.recomputeLocked()
	return nil
}

// AddAndSelect selects the option whose text matches text, ignoring case,
// accents and plural endings, or appends a new option {text, text} and
// selects that.
func (e *Engine) AddAndSelect(text string) error {
	fx := e.begin()
	defer e.end(fx)
	return e.addAndSelectLocked(fx, text)
}

func (e *Engine) addAndSelectLocked(fx *effects, text string) error {
	if !e.cfg.AllowAdd {
		return ErrFreeTextDisabled
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptySelection
	}
	if o, ok := e.matchTextLocked(text); ok {
		return e.selectLocked(fx, o.Value)
	}
	added := option.Option{Value: text, Text: text}.Normalized()
	opts := make([]option.NormalizedOption, len(e.options), len(e.options)+1)
	copy(opts, e.options)
	e.options = append(opts, added)
	e.log.Debug("Free text added", zap.String("text", text))
	return e.selectLocked(fx, added.Value)
}

// Enter commits the focused row, or adds the typed text when nothing is
// focused and AllowAdd is set.
func (e *Engine) Enter() error {
	fx := e.begin()
	defer e.end(fx)
	if e.list != nil {
		if o, ok := e.list.Focused(); ok {
			return e.selectLocked(fx, o.Value)
		}
	}
	if e.cfg.AllowAdd && strings.TrimSpace(e.searchText) != "" {
		return e.addAndSelectLocked(fx, e.searchText)
	}
	return ErrNoFocusedOption
}

// FocusNext moves list focus down, opening the list first when closed.
func (e *Engine) FocusNext() {
	fx := e.begin()
	defer e.end(fx)
	if e.list == nil {
		e.openLocked(fx)
	}
	if e.list != nil {
		e.list.FocusNext()
	}
}

// FocusPrevious moves list focus up.
func (e *Engine) FocusPrevious() {
	fx := e.begin()
	defer e.end(fx)
	if e.list == nil {
		e.openLocked(fx)
	}
	if e.list != nil {
		e.list.FocusPrevious()
	}
}

// HasFocusedOption reports whether the open list has a focused row.
func (e *Engine) HasFocusedOption() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list != nil && e.list.HasFocused()
}

// SelectFocused selects the focused row.
func (e *Engine) SelectFocused() error {
	fx := e.begin()
	defer e.end(fx)
	if e.list == nil {
		return ErrNoFocusedOption
	}
	o, ok := e.list.Focused()
	if !ok {
		return ErrNoFocusedOption
	}
	return e.selectLocked(fx, o.Value)
}

// Hover focuses visible row i.
func (e *Engine) Hover(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.list != nil {
		e.list.Hover(i)
	}
}

// MouseDown selects visible row i.
func (e *Engine) MouseDown(i int) error {
	fx := e.begin()
	defer e.end(fx)
	if e.list == nil {
		return ErrNoFocusedOption
	}
	o, ok := e.list.Row(i)
	if !ok {
		return ErrNoFocusedOption
	}
	return e.selectLocked(fx, o.Value)
}

// SetOptions replaces the option list and rebuilds the index.
func (e *Engine) SetOptions(opts []option.Option) {
	fx := e.begin()
	defer e.end(fx)
	e.options = option.NormalizeOptions(opts)
	e.recomputeLocked()
}

// SetRecords replaces the option list from raw records using Config.Keys.
func (e *Engine) SetRecords(records []option.Record) {
	fx := e.begin()
	defer e.end(fx)
	e.options = option.NormalizeRecords(records, e.cfg.Keys)
	e.recomputeLocked()
}

// SetValue replaces the value from a host write. OnChange fires when the
// normalized value differs.
func (e *Engine) SetValue(v any) {
	fx := e.begin()
	defer e.end(fx)
	e.value = option.Normalize(v, e.cfg.Multiple)
	e.recomputeLocked()
}

// SetMultiple switches multiplicity, converting the current value.
func (e *Engine) SetMultiple(multiple bool) {
	fx := e.begin()
	defer e.end(fx)
	e.cfg.Multiple = multiple
	e.value = e.value.As(multiple)
	e.recomputeLocked()
}

// SetMessages merges m over the defaults.
func (e *Engine) SetMessages(m Messages) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = DefaultMessages().Merge(m)
	if e.list != nil {
		e.list.setPlaceholder(e.msgs.NoResults)
	}
}

// SetDisabled blocks or unblocks user mutations. Disabling closes the list.
func (e *Engine) SetDisabled(disabled bool) {
	fx := e.begin()
	defer e.end(fx)
	e.disabled = disabled
	if disabled {
		e.resetSearchLocked()
		e.closeLocked(fx)
	}
}

// SetReadonly is SetDisabled for readonly fields.
func (e *Engine) SetReadonly(readonly bool) {
	fx := e.begin()
	defer e.end(fx)
	e.readonly = readonly
	if readonly {
		e.resetSearchLocked()
		e.closeLocked(fx)
	}
}

// SetSearchText applies a host-written search term without debouncing.
// An empty term ends the search. A provider-backed search still needs
// RunSearch with the returned sequence number.
func (e *Engine) SetSearchText(text string) uint64 {
	fx := e.begin()
	defer e.end(fx)
	if text == "" {
		e.resetSearchLocked()
		e.recomputeLocked()
		return 0
	}
	e.searchText = text
	e.searching = true
	e.custom = e.acceptsLocked(text)
	seq := e.sched.Issue()
	if e.state != Closed {
		e.state = e.openState()
	}
	if !e.custom {
		e.applied = search.GenerateSearchToken(text)
		if e.state != Closed {
			e.state = OpenSearching
		}
		e.recomputeLocked()
	}
	return seq
}

func (e *Engine) openState() State {
	switch {
	case !e.searching:
		return OpenIdle
	case e.custom:
		return OpenCustomSearch
	default:
		return OpenSearching
	}
}

func (e *Engine) compact() bool {
	if e.cfg.Compact == nil {
		return false
	}
	return e.cfg.Compact()
}

// recomputeLocked rebuilds the visible subset and pushes a snapshot to
// the list.
func (e *Engine) recomputeLocked() {
	var base []option.NormalizedOption
	switch {
	case e.searching && e.custom && e.remote == nil:
		base = e.visible
	case e.searching && e.custom:
		base = e.remote
	case e.searching && e.applied != "":
		base = e.filterLocked(e.applied)
	default:
		base = e.options
	}

	visible := make([]option.NormalizedOption, 0, len(base))
	for _, o := range base {
		if e.cfg.Multiple && e.value.Contains(o.Value) {
			continue
		}
		visible = append(visible, o)
	}
	e.visible = visible
	if e.list != nil {
		snapshot := make([]option.NormalizedOption, len(visible))
		copy(snapshot, visible)
		e.list.setRows(snapshot)
	}
}

func (e *Engine) filterLocked(token string) []option.NormalizedOption {
	candidates := make([]search.Candidate, len(e.options))
	for i, o := range e.options {
		candidates[i] = search.Candidate{TextToken: o.TextSearchToken, DetailToken: o.DetailTextSearchToken}
	}
	idx := search.Filter(e.cfg.Match, token, candidates)
	out := make([]option.NormalizedOption, len(idx))
	for i, j := range idx {
		out[i] = e.options[j]
	}
	return out
}
