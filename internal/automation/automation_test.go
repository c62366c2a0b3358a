package automation

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/IshaanNene/ReviewMiner/internal/config"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeElement struct {
	text      string
	textErr   error
	scriptErr error
	nativeErr error

	scrolled bool
	scripted int
	native   int
}

func (e *fakeElement) Text() (string, error) { return e.text, e.textErr }
func (e *fakeElement) ScrollIntoView() error { e.scrolled = true; return nil }
func (e *fakeElement) ScriptClick() error    { e.scripted++; return e.scriptErr }
func (e *fakeElement) NativeClick() error    { e.native++; return e.nativeErr }

type fakeFinder struct {
	elements map[string][]Element
	errs     map[string]error
	queried  []string
}

func (f *fakeFinder) Find(ctx context.Context, selector string) ([]Element, error) {
	f.queried = append(f.queried, selector)
	if err := f.errs[selector]; err != nil {
		return nil, err
	}
	return f.elements[selector], nil
}

func noPause() *Pacer { return NewPacer(0, 0) }

func TestResolverClicksFirstMatchingText(t *testing.T) {
	detail := &fakeElement{text: "宝贝详情"}
	reviews := &fakeElement{text: "用户评价 2000+"}
	later := &fakeElement{text: "全部评价"}

	finder := &fakeFinder{elements: map[string][]Element{
		"div.tab":  {detail, reviews},
		"a.review": {later},
	}}
	r := NewResolver(finder, noPause(), testLogger)

	ok := r.Click(context.Background(), "show_all", config.Target{
		Selectors: []string{"div.missing", "div.tab", "a.review"},
		Text:      []string{"全部评价", "评价"},
	})
	if !ok {
		t.Fatal("expected click to succeed")
	}
	if detail.scripted != 0 {
		t.Error("element without matching text was clicked")
	}
	if !reviews.scrolled || reviews.scripted != 1 {
		t.Errorf("matching element not scrolled/clicked: %+v", reviews)
	}
	if later.scripted != 0 {
		t.Error("resolution did not short-circuit")
	}
	if len(finder.queried) != 2 {
		t.Errorf("queried %v, expected to stop after second selector", finder.queried)
	}
}

func TestResolverFallsBackToNativeClick(t *testing.T) {
	el := &fakeElement{text: "下一页", scriptErr: errors.New("detached")}
	finder := &fakeFinder{elements: map[string][]Element{"button": {el}}}
	r := NewResolver(finder, noPause(), testLogger)

	if !r.Click(context.Background(), "next_page", config.Target{Selectors: []string{"button"}, Text: []string{"下一页"}}) {
		t.Fatal("expected native fallback to succeed")
	}
	if el.scripted != 1 || el.native != 1 {
		t.Errorf("script=%d native=%d", el.scripted, el.native)
	}
}

func TestResolverContinuesPastUnclickable(t *testing.T) {
	broken := &fakeElement{text: "下一页", scriptErr: errors.New("x"), nativeErr: errors.New("y")}
	good := &fakeElement{text: "显示更多"}
	finder := &fakeFinder{elements: map[string][]Element{"button": {broken, good}}}
	r := NewResolver(finder, noPause(), testLogger)

	if !r.Click(context.Background(), "next_page", config.Target{Selectors: []string{"button"}, Text: []string{"下一页", "显示更多"}}) {
		t.Fatal("expected the second candidate to be clicked")
	}
	if good.scripted != 1 {
		t.Error("second candidate not clicked")
	}
}

func TestResolverNoTextConditionAcceptsAny(t *testing.T) {
	el := &fakeElement{textErr: errors.New("text never read")}
	finder := &fakeFinder{elements: map[string][]Element{"div.rate": {el}}}
	r := NewResolver(finder, noPause(), testLogger)

	if !r.Click(context.Background(), "any", config.Target{Selectors: []string{"div.rate"}}) {
		t.Fatal("expected click without text condition")
	}
}

func TestResolverNothingFoundReturnsFalse(t *testing.T) {
	finder := &fakeFinder{
		elements: map[string][]Element{"button": {&fakeElement{text: "上一页"}}},
		errs:     map[string]error{"div[": errors.New("invalid selector")},
	}
	r := NewResolver(finder, noPause(), testLogger)

	if r.Click(context.Background(), "next_page", config.Target{Selectors: []string{"div[", "button"}, Text: []string{"下一页"}}) {
		t.Fatal("expected false when no element qualifies")
	}
	if len(finder.queried) != 2 {
		t.Errorf("selector error should not abort the scan, queried %v", finder.queried)
	}
}

func TestResolverCancelled(t *testing.T) {
	el := &fakeElement{text: "下一页"}
	finder := &fakeFinder{elements: map[string][]Element{"button": {el}}}
	r := NewResolver(finder, NewPacer(time.Hour, time.Hour), testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if r.Click(ctx, "next_page", config.Target{Selectors: []string{"button"}}) {
		t.Fatal("cancelled context must not click")
	}
	if el.scripted != 0 {
		t.Error("element clicked after cancellation")
	}
}

type fakeDocument struct {
	matches map[string]bool
	html    string
	htmlErr error
	waited  []string
}

func (d *fakeDocument) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	d.waited = append(d.waited, selector)
	if d.matches[selector] {
		return nil
	}
	return errors.New("timeout")
}

func (d *fakeDocument) HTML() (string, error) { return d.html, d.htmlErr }

const pageHTML = `<html><body>
<div class="rate-content">好用</div>
<div class="rate-content">  </div>
<div class="rate-content">物流很快</div>
<div class="review-details">不会被读到</div>
<div class="blank"> </div>
</body></html>`

func TestExtractFirstMatchingSelectorWins(t *testing.T) {
	doc := &fakeDocument{
		matches: map[string]bool{"div.rate-content": true, "div.review-details": true},
		html:    pageHTML,
	}
	x := NewExtractor(0, time.Millisecond, testLogger)

	texts, err := x.Extract(context.Background(), doc, config.Target{
		Selectors: []string{"div.missing", "div.rate-content", "div.review-details"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 2 || texts[0] != "好用" || texts[1] != "物流很快" {
		t.Errorf("texts = %q", texts)
	}
	if len(doc.waited) != 2 {
		t.Errorf("later selectors consulted: %v", doc.waited)
	}
}

func TestExtractBlankMatchStillWins(t *testing.T) {
	doc := &fakeDocument{
		matches: map[string]bool{"div.blank": true, "div.rate-content": true},
		html:    pageHTML,
	}
	x := NewExtractor(0, time.Millisecond, testLogger)

	texts, err := x.Extract(context.Background(), doc, config.Target{Selectors: []string{"div.blank", "div.rate-content"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 0 {
		t.Errorf("expected empty result from blank winner, got %q", texts)
	}
}

func TestExtractMatchedSelectorOwnsSnapshotFailure(t *testing.T) {
	doc := &fakeDocument{
		matches: map[string]bool{"div.rate-content": true, "div.review-details": true},
		html:    pageHTML,
		htmlErr: errors.New("target closed"),
	}
	x := NewExtractor(0, time.Millisecond, testLogger)

	texts, err := x.Extract(context.Background(), doc, config.Target{
		Selectors: []string{"div.rate-content", "div.review-details"},
	})
	if err != nil {
		t.Fatalf("snapshot failure must not look like cancellation: %v", err)
	}
	if len(texts) != 0 {
		t.Errorf("expected empty result, got %q", texts)
	}
	if len(doc.waited) != 1 {
		t.Errorf("later selectors consulted after a match: %v", doc.waited)
	}
}

func TestExtractMatchedSelectorOwnsParseFailure(t *testing.T) {
	doc := &fakeDocument{
		matches: map[string]bool{"div[": true, "div.rate-content": true},
		html:    pageHTML,
	}
	x := NewExtractor(0, time.Millisecond, testLogger)

	texts, err := x.Extract(context.Background(), doc, config.Target{Selectors: []string{"div[", "div.rate-content"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 0 {
		t.Errorf("fell through to a later selector: %q", texts)
	}
	if len(doc.waited) != 1 {
		t.Errorf("later selectors consulted after a match: %v", doc.waited)
	}
}

func TestExtractNoMatch(t *testing.T) {
	doc := &fakeDocument{html: pageHTML}
	x := NewExtractor(0, time.Millisecond, testLogger)
	texts, err := x.Extract(context.Background(), doc, config.Target{Selectors: []string{"a", "b"}})
	if err != nil || len(texts) != 0 {
		t.Errorf("Extract = %q, %v", texts, err)
	}
}

func TestExtractCancelledDuringSettle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	x := NewExtractor(time.Hour, time.Millisecond, testLogger)
	if _, err := x.Extract(ctx, &fakeDocument{}, config.Target{Selectors: []string{"a"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPacerRange(t *testing.T) {
	p := NewPacer(10*time.Millisecond, 20*time.Millisecond)
	for i := 0; i < 100; i++ {
		d := p.Delay()
		if d < 10*time.Millisecond || d > 20*time.Millisecond {
			t.Fatalf("delay %s out of range", d)
		}
	}
	if d := NewPacer(0, 0).Delay(); d != 0 {
		t.Errorf("zero pacer delay = %s", d)
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := Sleep(ctx, time.Minute); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("sleep ignored cancellation")
	}
}
