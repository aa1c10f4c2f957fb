package combobox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/fieldkit/internal/option"
)

type recordingSurface struct {
	mu       sync.Mutex
	mounted  map[*List]bool
	mounts   int
	unmounts int
	last     Presentation
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{mounted: map[*List]bool{}}
}

func (s *recordingSurface) Mount(l *List, p Presentation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted[l] = true
	s.mounts++
	s.last = p
}

func (s *recordingSurface) Unmount(l *List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted[l] {
		return
	}
	delete(s.mounted, l)
	s.unmounts++
}

func (s *recordingSurface) attached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mounted)
}

func fruitOptions() []option.Option {
	return []option.Option{
		{Value: "apple", Text: "Apple"},
		{Value: "banana", Text: "Banana"},
		{Value: "grape", Text: "Grape", DetailText: "Purple"},
	}
}

func texts(opts []option.NormalizedOption) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Text
	}
	return out
}

type changeLog struct {
	mu     sync.Mutex
	values []option.Value
}

func (c *changeLog) record(v option.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
}

func (c *changeLog) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

func newEngine(t *testing.T, cfg Config) (*Engine, *recordingSurface, *changeLog) {
	t.Helper()
	surface := newRecordingSurface()
	changes := &changeLog{}
	cfg.Surface = surface
	cfg.OnChange = changes.record
	e := New(cfg)
	e.SetOptions(fruitOptions())
	return e, surface, changes
}

func TestOpenIsIdempotent(t *testing.T) {
	e, surface, _ := newEngine(t, Config{})

	assert.True(t, e.Open())
	assert.False(t, e.Open())

	assert.Equal(t, 1, surface.mounts)
	assert.Equal(t, 1, surface.attached())
	assert.Equal(t, OpenIdle, e.State())
}

func TestCloseIsIdempotent(t *testing.T) {
	e, surface, _ := newEngine(t, Config{})
	e.Open()

	assert.True(t, e.Close())
	assert.False(t, e.Close())
	assert.Equal(t, 1, surface.unmounts)
	assert.Equal(t, 0, surface.attached())
	assert.Nil(t, e.List())
}

func TestOpenWithNothingToShow(t *testing.T) {
	e := New(Config{})
	assert.False(t, e.Focus())
	assert.Equal(t, Closed, e.State())

	e.Search("x")
	assert.True(t, e.InterfaceOpen(), "a search term is enough to open")
}

func TestOpenBlockedWhenDisabledOrReadonly(t *testing.T) {
	e, _, _ := newEngine(t, Config{})
	e.SetReadonly(true)
	assert.False(t, e.Open())
	e.SetReadonly(false)
	e.SetDisabled(true)
	assert.False(t, e.Open())
	assert.ErrorIs(t, e.Select("apple"), ErrDisabled)
	assert.Equal(t, uint64(0), e.Search("a"))
}

func TestDisableClosesOpenList(t *testing.T) {
	e, surface, _ := newEngine(t, Config{})
	e.Open()
	e.SetDisabled(true)
	assert.False(t, e.InterfaceOpen())
	assert.Equal(t, 0, surface.attached())
}

func TestSearchFilter(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{query: "app", want: []string{"Apple"}},
		{query: "ap", want: []string{"Apple", "Grape"}},
		{query: "purple", want: []string{"Grape"}},
		{query: "BANANAS", want: []string{"Banana"}},
		{query: "kiwi", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e, _, _ := newEngine(t, Config{})
			seq := e.Search(tt.query)
			assert.Len(t, e.VisibleOptions(), 3, "filter waits for RunSearch")

			require.NoError(t, e.RunSearch(context.Background(), seq))
			assert.Equal(t, OpenSearching, e.State())
			assert.Equal(t, tt.want, texts(e.VisibleOptions()))
			assert.Equal(t, tt.want, texts(e.List().View().Rows))
		})
	}
}

func TestStaleLocalSearchIgnored(t *testing.T) {
	e, _, _ := newEngine(t, Config{})
	first := e.Search("ban")
	second := e.Search("gra")

	require.NoError(t, e.RunSearch(context.Background(), first))
	assert.Len(t, e.VisibleOptions(), 3)

	require.NoError(t, e.RunSearch(context.Background(), second))
	assert.Equal(t, []string{"Grape"}, texts(e.VisibleOptions()))
}

func TestSingleSelectCloses(t *testing.T) {
	e, surface, changes := newEngine(t, Config{})
	seq := e.Search("ban")
	require.NoError(t, e.RunSearch(context.Background(), seq))

	require.NoError(t, e.Select("banana"))
	assert.Equal(t, "banana", e.Value().String())
	assert.Equal(t, "Banana", e.Text())
	assert.Equal(t, Closed, e.State())
	assert.False(t, e.Searching())
	assert.Equal(t, "", e.SearchText())
	assert.Equal(t, 0, surface.attached())
	assert.Equal(t, 1, changes.count())

	require.NoError(t, e.Select("banana"))
	assert.Equal(t, 1, changes.count(), "same value does not notify")
}

func TestMultipleSelectKeepsListOpen(t *testing.T) {
	e, _, changes := newEngine(t, Config{Multiple: true})
	e.Open()

	require.NoError(t, e.Select("apple"))
	assert.True(t, e.InterfaceOpen())
	assert.Equal(t, []string{"apple"}, e.Value().Strings())
	assert.Equal(t, []string{"Banana", "Grape"}, texts(e.VisibleOptions()))

	require.NoError(t, e.Select([]string{"grape", "apple"}))
	assert.Equal(t, []string{"apple", "grape"}, e.Value().Strings())
	assert.Equal(t, []string{"Banana"}, texts(e.VisibleOptions()))
	assert.Equal(t, "Apple, Grape", e.Text())
	assert.Equal(t, 2, changes.count())
}

func TestMultipleSelectDuplicateIsSilent(t *testing.T) {
	e, _, changes := newEngine(t, Config{Multiple: true})
	require.NoError(t, e.Select("apple"))
	require.NoError(t, e.Select("apple"))

	assert.Equal(t, []string{"apple"}, e.Value().Strings())
	assert.Equal(t, 1, changes.count())
}

func TestMultipleSelectEmptyRejected(t *testing.T) {
	e, _, changes := newEngine(t, Config{Multiple: true})
	require.NoError(t, e.Select("apple"))

	assert.ErrorIs(t, e.Select(nil), ErrEmptySelection)
	assert.ErrorIs(t, e.Select(""), ErrEmptySelection)
	assert.ErrorIs(t, e.Select([]string{}), ErrEmptySelection)
	assert.Equal(t, []string{"apple"}, e.Value().Strings())
	assert.Equal(t, 1, changes.count())
}

func TestSingleSelectNilClears(t *testing.T) {
	e, _, _ := newEngine(t, Config{})
	require.NoError(t, e.Select("apple"))
	require.NoError(t, e.Select(nil))
	assert.True(t, e.Value().IsEmpty())
}

func TestDeselect(t *testing.T) {
	t.Run("multiple", func(t *testing.T) {
		e, _, changes := newEngine(t, Config{Multiple: true})
		e.SetValue([]string{"apple", "banana"})
		require.NoError(t, e.Deselect("apple"))
		assert.Equal(t, []string{"banana"}, e.Value().Strings())
		assert.False(t, e.InterfaceOpen(), "deselect does not reopen")
		assert.Equal(t, 2, changes.count())
	})

	t.Run("single", func(t *testing.T) {
		e, _, _ := newEngine(t, Config{})
		e.SetValue("apple")
		require.NoError(t, e.Deselect("apple"))
		assert.Equal(t, "", e.Value().String())
	})
}

func TestAddAndSelect(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		e, _, _ := newEngine(t, Config{})
		assert.ErrorIs(t, e.AddAndSelect("Kiwi"), ErrFreeTextDisabled)
	})

	t.Run("adds new option", func(t *testing.T) {
		e, _, changes := newEngine(t, Config{AllowAdd: true})
		require.NoError(t, e.AddAndSelect("  Kiwi "))
		assert.Equal(t, "Kiwi", e.Value().String())
		assert.Len(t, e.Options(), 4)
		assert.Equal(t, 1, changes.count())
	})

	t.Run("reuses existing option ignoring case and accents", func(t *testing.T) {
		e, _, _ := newEngine(t, Config{AllowAdd: true})
		require.NoError(t, e.AddAndSelect("bânanas"))
		assert.Equal(t, "banana", e.Value().String())
		assert.Len(t, e.Options(), 3)
	})

	t.Run("blank text", func(t *testing.T) {
		e, _, _ := newEngine(t, Config{AllowAdd: true})
		assert.ErrorIs(t, e.AddAndSelect("  "), ErrEmptySelection)
	})
}

func TestBlurResolution(t *testing.T) {
	one := []option.Option{{Value: "1", Text: "One"}}

	t.Run("exact text selects", func(t *testing.T) {
		e := New(Config{})
		e.SetOptions(one)
		e.Search("One")
		e.Blur()
		assert.Equal(t, "1", e.Value().String())
		assert.Equal(t, Closed, e.State())
	})

	t.Run("token fallback selects", func(t *testing.T) {
		e := New(Config{})
		e.SetOptions(one)
		e.Search("one")
		e.Blur()
		assert.Equal(t, "1", e.Value().String())
	})

	t.Run("no match clears", func(t *testing.T) {
		e := New(Config{})
		e.SetOptions(one)
		e.SetValue("1")
		e.Search("Two")
		e.Blur()
		assert.Equal(t, "", e.Value().String())
	})

	t.Run("no match adds with free text", func(t *testing.T) {
		e := New(Config{AllowAdd: true})
		e.SetOptions(one)
		e.Search("Two")
		e.Blur()
		assert.Equal(t, "Two", e.Value().String())
	})

	t.Run("without typing keeps value", func(t *testing.T) {
		e := New(Config{})
		e.SetOptions(one)
		e.SetValue("1")
		e.Focus()
		e.Blur()
		assert.Equal(t, "1", e.Value().String())
	})

	t.Run("multiple ignores unmatched", func(t *testing.T) {
		e := New(Config{Multiple: true})
		e.SetOptions(one)
		e.SetValue([]string{"1"})
		e.Search("Two")
		e.Blur()
		assert.Equal(t, []string{"1"}, e.Value().Strings())
	})

	t.Run("multiple adds match", func(t *testing.T) {
		e := New(Config{Multiple: true})
		e.SetOptions(append(one, option.Option{Value: "2", Text: "Two"}))
		e.SetValue([]string{"1"})
		e.Search("Two")
		e.Blur()
		assert.Equal(t, []string{"1", "2"}, e.Value().Strings())
	})
}

func TestEscapeKeepsValue(t *testing.T) {
	e, _, changes := newEngine(t, Config{})
	e.SetValue("apple")
	e.Search("gra")
	assert.True(t, e.Escape())
	assert.Equal(t, "apple", e.Value().String())
	assert.Equal(t, "", e.SearchText())
	assert.Equal(t, "Apple", e.DisplayText())
	assert.Equal(t, 1, changes.count())
}

func TestKeyboardNavigation(t *testing.T) {
	e, _, _ := newEngine(t, Config{})
	e.FocusNext()
	require.True(t, e.InterfaceOpen(), "arrow down opens")
	assert.True(t, e.HasFocusedOption())
	assert.Equal(t, 0, e.List().FocusIndex())

	e.FocusNext()
	e.FocusNext()
	e.FocusNext()
	assert.Equal(t, 2, e.List().FocusIndex(), "clamped at the last row")

	e.FocusPrevious()
	require.NoError(t, e.Enter())
	assert.Equal(t, "banana", e.Value().String())

	assert.ErrorIs(t, e.SelectFocused(), ErrNoFocusedOption)
}

func TestOpenFocusesCurrentValue(t *testing.T) {
	e, _, _ := newEngine(t, Config{})
	e.SetValue("grape")
	e.Open()
	assert.Equal(t, 2, e.List().FocusIndex())
}

func TestEnterAddsWithoutFocus(t *testing.T) {
	e, _, _ := newEngine(t, Config{AllowAdd: true})
	seq := e.Search("Kiwi")
	require.NoError(t, e.RunSearch(context.Background(), seq))
	require.False(t, e.HasFocusedOption())

	require.NoError(t, e.Enter())
	assert.Equal(t, "Kiwi", e.Value().String())
}

func TestMouse(t *testing.T) {
	e, _, _ := newEngine(t, Config{})
	e.Open()
	e.Hover(1)
	assert.Equal(t, 1, e.List().FocusIndex())
	require.NoError(t, e.MouseDown(2))
	assert.Equal(t, "grape", e.Value().String())
	assert.ErrorIs(t, e.MouseDown(0), ErrNoFocusedOption, "list is closed")
}

func TestSetMultipleConvertsValue(t *testing.T) {
	e, _, _ := newEngine(t, Config{})
	e.SetValue("apple")
	e.SetMultiple(true)
	assert.Equal(t, []string{"apple"}, e.Value().Strings())
	e.SetMultiple(false)
	assert.Equal(t, "apple", e.Value().String())
}

func TestSetSearchText(t *testing.T) {
	e, _, _ := newEngine(t, Config{})
	e.Open()
	e.SetSearchText("ban")
	assert.Equal(t, []string{"Banana"}, texts(e.VisibleOptions()))
	e.SetSearchText("")
	assert.Len(t, e.VisibleOptions(), 3)
	assert.Equal(t, OpenIdle, e.State())
}

func TestSetOptionsRebuildsIndex(t *testing.T) {
	e, _, _ := newEngine(t, Config{})
	e.Open()
	e.SetOptions([]option.Option{{Value: "k", Text: "Kiwi"}})
	assert.Equal(t, []string{"Kiwi"}, texts(e.List().View().Rows))
}

func TestUnknownValueText(t *testing.T) {
	e := New(Config{})
	e.SetValue("5")
	assert.Equal(t, "5", e.Text())
	e.SetOptions([]option.Option{{Value: "5", Text: "Five"}})
	assert.Equal(t, "Five", e.Text())
}

func TestChoosePresentation(t *testing.T) {
	tests := []struct {
		mode    PresentationMode
		compact bool
		want    Presentation
	}{
		{PresentAuto, false, PresentPopover},
		{PresentAuto, true, PresentModal},
		{"", true, PresentModal},
		{PresentationMode(PresentModal), false, PresentModal},
		{PresentationMode(PresentInline), true, PresentInline},
		{PresentationMode(PresentPopover), true, PresentPopover},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChoosePresentation(tt.mode, tt.compact), "mode=%q compact=%v", tt.mode, tt.compact)
	}
}

func TestEnginePresentationFromCompactSignal(t *testing.T) {
	compact := true
	e, surface, _ := newEngine(t, Config{Compact: func() bool { return compact }})
	e.Open()
	assert.Equal(t, PresentModal, surface.last)
	assert.Equal(t, PresentModal, e.Presentation())
}

func TestProviderErrorKeepsVisible(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	e, _, _ := newEngine(t, Config{Provider: SearchFunc(func(ctx context.Context, q string) ([]option.Record, error) {
		calls++
		if calls == 1 {
			return []option.Record{{"value": "x", "text": "Xigua"}}, nil
		}
		return nil, boom
	})})

	seq := e.Search("x")
	require.NoError(t, e.RunSearch(context.Background(), seq))
	assert.Equal(t, OpenCustomSearch, e.State())
	assert.Equal(t, []string{"Xigua"}, texts(e.VisibleOptions()))

	seq = e.Search("xi")
	err := e.RunSearch(context.Background(), seq)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"Xigua"}, texts(e.VisibleOptions()))
}

func TestProviderSelectionKeepsText(t *testing.T) {
	e := New(Config{Provider: SearchFunc(func(ctx context.Context, q string) ([]option.Record, error) {
		return []option.Record{{"value": "x", "text": "Xigua"}}, nil
	})})
	seq := e.Search("xi")
	require.NoError(t, e.RunSearch(context.Background(), seq))
	require.NoError(t, e.Select("x"))
	assert.Equal(t, "Xigua", e.Text())
}

type minLength int

func (m minLength) Search(ctx context.Context, q string) ([]option.Record, error) {
	return []option.Record{{"value": "remote", "text": "Remote " + q}}, nil
}

func (m minLength) Accept(q string) bool { return len(q) >= int(m) }

func TestProviderMayRefuseQuery(t *testing.T) {
	e, _, _ := newEngine(t, Config{Provider: minLength(3)})

	seq := e.Search("ap")
	require.NoError(t, e.RunSearch(context.Background(), seq))
	assert.Equal(t, OpenSearching, e.State())
	assert.Equal(t, []string{"Apple", "Grape"}, texts(e.VisibleOptions()))

	seq = e.Search("app")
	require.NoError(t, e.RunSearch(context.Background(), seq))
	assert.Equal(t, OpenCustomSearch, e.State())
	assert.Equal(t, []string{"Remote app"}, texts(e.VisibleOptions()))
}

func TestStaleProviderResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	e := New(Config{Provider: SearchFunc(func(ctx context.Context, q string) ([]option.Record, error) {
		if q == "a" {
			close(started)
			<-release
		}
		return []option.Record{{"value": q, "text": "result " + q}}, nil
	})})

	first := e.Search("a")
	done := make(chan error, 1)
	go func() { done <- e.RunSearch(context.Background(), first) }()
	<-started

	second := e.Search("ab")
	require.NoError(t, e.RunSearch(context.Background(), second))
	assert.Equal(t, []string{"result ab"}, texts(e.VisibleOptions()))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"result ab"}, texts(e.VisibleOptions()))
}

func TestLateResultAfterCloseDoesNotReopen(t *testing.T) {
	e := New(Config{Provider: SearchFunc(func(ctx context.Context, q string) ([]option.Record, error) {
		return []option.Record{{"value": "1", "text": "One"}}, nil
	})})
	seq := e.Search("o")
	query, custom, ok := e.BeginSearch(seq)
	require.True(t, ok)
	require.True(t, custom)
	assert.Equal(t, "o", query)

	e.Close()
	require.NoError(t, e.ApplySearch(seq, []option.Record{{"value": "1", "text": "One"}}, nil))
	assert.False(t, e.InterfaceOpen())
	assert.Empty(t, e.VisibleOptions())
}

func TestAttachSeedsFromProvider(t *testing.T) {
	var queries []string
	e := New(Config{Provider: SearchFunc(func(ctx context.Context, q string) ([]option.Record, error) {
		queries = append(queries, q)
		return []option.Record{{"value": "1", "text": "One"}}, nil
	})})
	require.NoError(t, e.Attach(context.Background()))
	require.NoError(t, e.Attach(context.Background()))
	assert.Equal(t, []string{""}, queries)
	assert.Len(t, e.Options(), 1)
}

func TestTypeaheadRunsAfterDebounce(t *testing.T) {
	var mu sync.Mutex
	var errs []error
	e, _, _ := newEngine(t, Config{
		Debounce: time.Millisecond,
		OnSearchError: func(err error) {
			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, err)
		},
	})

	e.Typeahead(context.Background(), "ba")
	seq := e.Typeahead(context.Background(), "gra")

	require.Eventually(t, func() bool {
		return len(e.VisibleOptions()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.True(t, e.IsCurrent(seq))
	assert.Equal(t, []string{"Grape"}, texts(e.VisibleOptions()))

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, errs)
}

func TestDetachStopsPendingSearch(t *testing.T) {
	e, surface, _ := newEngine(t, Config{})
	seq := e.Search("gra")
	e.Detach()
	assert.False(t, e.IsCurrent(seq))
	assert.Equal(t, 0, surface.attached())
	require.NoError(t, e.RunSearch(context.Background(), seq))
	assert.False(t, e.InterfaceOpen())
}
