package website

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"website-cli/internal/events"
	"website-cli/internal/fetch"
	"website-cli/internal/logger"

	"github.com/sirupsen/logrus"
)

const testDelay = 5 * time.Millisecond

// signal 是容量为 1 的合并信号，模拟 UI 框架的 request update。
type signal chan struct{}

func newSignal() signal { return make(signal, 1) }

func (s signal) RequestUpdate() {
	select {
	case s <- struct{}{}:
	default:
	}
}

func (s signal) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s:
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for update request")
	}
}

type recorded struct {
	prop  Property
	state State
}

func newController(t *testing.T, sig signal, delay time.Duration) (*Controller, *[]recorded) {
	t.Helper()
	var seen []recorded
	c := New(Options{
		Requester: sig,
		Delay:     delay,
		Observer: func(p Property, s State) {
			seen = append(seen, recorded{prop: p, state: s})
		},
		Log: logger.Discard(),
	})
	t.Cleanup(c.Close)
	return c, &seen
}

func TestDefaults(t *testing.T) {
	c, _ := newController(t, newSignal(), testDelay)
	if got := c.State(); got != (State{URL: "known", Title: "Press refresh to get a title..."}) {
		t.Fatalf("unexpected default state %+v", got)
	}
	if c.Loading() {
		t.Fatalf("new controller should be idle")
	}
}

func TestToggleFetchesUnknownTitle(t *testing.T) {
	sig := newSignal()
	c, _ := newController(t, sig, testDelay)

	c.ToggleURL()

	if got := c.State(); got.URL != UnknownURL || got.Title != LoadingTitle {
		t.Fatalf("after toggle: %+v", got)
	}
	if !c.Loading() {
		t.Fatalf("fetch should be in flight")
	}

	sig.wait(t)
	if n := c.OnUpdateRequested(); n != 1 {
		t.Fatalf("expected 1 applied event, got %d", n)
	}
	if got := c.State().Title; got != fetch.TitleUnknown {
		t.Fatalf("title = %q, want %q", got, fetch.TitleUnknown)
	}
	if c.Loading() {
		t.Fatalf("guard should be released after terminal event")
	}
}

func TestRapidTogglesAdmitOnlyFirst(t *testing.T) {
	sig := newSignal()
	c, _ := newController(t, sig, 20*time.Millisecond)

	c.ToggleURL()
	c.ToggleURL()

	if got := c.State(); got.URL != KnownURL || got.Title != LoadingTitle {
		t.Fatalf("after two toggles: %+v", got)
	}

	sig.wait(t)
	c.OnUpdateRequested()
	if got := c.State().Title; got != fetch.TitleUnknown {
		t.Fatalf("title = %q, want snapshot of first toggle (%q)", got, fetch.TitleUnknown)
	}

	c.spawner.Wait()
	if extra := c.receiver.TryReceiveAll(); len(extra) != 0 {
		t.Fatalf("denied toggle must not spawn a fetch, got %+v", extra)
	}
}

func TestLateMutationDoesNotChangeResult(t *testing.T) {
	sig := newSignal()
	c, _ := newController(t, sig, 20*time.Millisecond)

	c.SetURL("example.org")
	c.SetURL(KnownURL)

	sig.wait(t)
	c.OnUpdateRequested()
	if got := c.State(); got.Title != fetch.TitleUnknown || got.URL != KnownURL {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestNoToggleNoFetch(t *testing.T) {
	sig := newSignal()
	c, seen := newController(t, sig, testDelay)

	if n := c.OnUpdateRequested(); n != 0 {
		t.Fatalf("expected empty drain, got %d", n)
	}
	if got := c.State().Title; got != DefaultTitle {
		t.Fatalf("title = %q", got)
	}
	if len(*seen) != 0 {
		t.Fatalf("expected no notifications, got %+v", *seen)
	}
	select {
	case <-sig:
		t.Fatalf("no fetch should signal")
	default:
	}
}

func TestEmptyDrainKeepsGuard(t *testing.T) {
	c, _ := newController(t, newSignal(), testDelay)
	if !c.guard.TryAdmit() {
		t.Fatalf("admit")
	}
	if n := c.OnUpdateRequested(); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
	if !c.Loading() {
		t.Fatalf("empty drain must not release the guard")
	}
	_ = c.guard.Release()
}

func TestDrainAppliesAllBufferedInOrder(t *testing.T) {
	c, seen := newController(t, newSignal(), testDelay)
	c.guard.TryAdmit()
	_ = c.sender.Send(events.TitleArrived("a", "first"))
	_ = c.sender.Send(events.TitleArrived("b", "second"))

	if n := c.OnUpdateRequested(); n != 2 {
		t.Fatalf("expected 2 applied events, got %d", n)
	}
	var titles []string
	for _, r := range *seen {
		if r.prop == PropertyTitle {
			titles = append(titles, r.state.Title)
		}
	}
	if strings.Join(titles, ",") != "first,second" {
		t.Fatalf("titles applied out of order: %v", titles)
	}
	if c.Loading() {
		t.Fatalf("guard should be released")
	}
}

func TestObserverSeesLoadingBeforeResult(t *testing.T) {
	sig := newSignal()
	c, seen := newController(t, sig, testDelay)

	c.ToggleURL()
	sig.wait(t)
	c.OnUpdateRequested()

	want := []recorded{
		{prop: PropertyURL, state: State{URL: UnknownURL, Title: DefaultTitle}},
		{prop: PropertyTitle, state: State{URL: UnknownURL, Title: LoadingTitle}},
		{prop: PropertyTitle, state: State{URL: UnknownURL, Title: fetch.TitleUnknown}},
	}
	if len(*seen) != len(want) {
		t.Fatalf("notifications = %+v, want %+v", *seen, want)
	}
	for i := range want {
		if (*seen)[i] != want[i] {
			t.Fatalf("notification %d = %+v, want %+v", i, (*seen)[i], want[i])
		}
	}
}

func TestSetURLSameValueIsSilent(t *testing.T) {
	c, seen := newController(t, newSignal(), testDelay)
	c.SetURL(KnownURL)
	if len(*seen) != 0 || c.Loading() {
		t.Fatalf("writing the same url must not trigger a fetch")
	}
}

func TestTitleChangeDoesNotFetch(t *testing.T) {
	c, _ := newController(t, newSignal(), testDelay)
	c.OnPropertyChanged(PropertyTitle)
	if c.Loading() {
		t.Fatalf("title change must not trigger a fetch")
	}
}

func TestUnknownPropertyPanics(t *testing.T) {
	c, _ := newController(t, newSignal(), testDelay)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown property")
		}
	}()
	c.OnPropertyChanged(Property(42))
}

func TestCloseBeforeFetchCompletes(t *testing.T) {
	sig := newSignal()
	c := New(Options{Requester: sig, Delay: 30 * time.Millisecond, Log: logger.Discard()})

	c.ToggleURL()
	c.Close()

	select {
	case <-sig:
		t.Fatalf("closed controller must not be signalled")
	default:
	}
	if c.RefreshTitle() {
		t.Fatalf("refresh after close should be skipped")
	}
}

func TestManyTogglesNeverOverlap(t *testing.T) {
	sig := newSignal()
	c, _ := newController(t, sig, time.Millisecond)

	admitted := 0
	applied := 0
	for i := 0; i < 200; i++ {
		wasLoading := c.Loading()
		c.ToggleURL()
		if !wasLoading && c.Loading() {
			admitted++
		}
		select {
		case <-sig:
			applied += c.OnUpdateRequested()
		default:
		}
	}
	for c.Loading() {
		sig.wait(t)
		applied += c.OnUpdateRequested()
	}
	if admitted == 0 || admitted != applied {
		t.Fatalf("admitted %d fetches but applied %d events", admitted, applied)
	}
}

func TestEventLogReceivesQueueLogs(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetFormatter(logger.PlainFormatter{})
	l.SetLevel(logrus.DebugLevel)
	l.SetOutput(buf)

	sig := newSignal()
	c := New(Options{
		Requester: sig,
		Delay:     testDelay,
		Log:       logger.Discard(),
		EventLog:  logrus.NewEntry(l).WithField("component", "eq"),
	})
	t.Cleanup(c.Close)

	c.ToggleURL()
	sig.wait(t)
	c.OnUpdateRequested()

	out := buf.String()
	for _, want := range []string{"[eq] enqueued event", "[eq] drained events", "kind=title_arrived"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in eq log, got %q", want, out)
		}
	}
}

func TestZeroDelayFetchesImmediately(t *testing.T) {
	cases := []struct {
		name  string
		delay time.Duration
	}{
		{name: "zero", delay: 0},
		{name: "negative clamps to zero", delay: -time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := newSignal()
			c, _ := newController(t, sig, tc.delay)

			start := time.Now()
			c.ToggleURL()
			select {
			case <-sig:
			case <-time.After(500 * time.Millisecond):
				t.Fatalf("zero delay fetch did not signal within 500ms")
			}
			if elapsed := time.Since(start); elapsed >= 500*time.Millisecond {
				t.Fatalf("fetch took %v", elapsed)
			}
			c.OnUpdateRequested()
			if got := c.State().Title; got != fetch.TitleUnknown {
				t.Fatalf("title = %q", got)
			}
		})
	}
}

func TestTaskWarningUsesControllerLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetFormatter(logger.PlainFormatter{})
	l.SetOutput(buf)

	c := New(Options{
		Requester: newSignal(),
		Delay:     20 * time.Millisecond,
		Log:       logrus.NewEntry(l).WithField("component", "website"),
	})
	c.ToggleURL()
	c.Close()

	if !strings.Contains(buf.String(), "receiver gone") {
		t.Fatalf("expected task warning in controller log, got %q", buf.String())
	}
}
