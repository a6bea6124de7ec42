package events

import (
	"bytes"
	"strings"
	"testing"

	"website-cli/internal/logger"

	"github.com/sirupsen/logrus"
)

func TestSendLogsEventFields(t *testing.T) {
	buf := &bytes.Buffer{}
	tx, rx := NewChannel()
	rx.SetLogger(newBufferLogger(buf))

	if err := tx.Send(TitleArrived("f-1", "Known website")); err != nil {
		t.Fatalf("send: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"enqueued event", "kind=title_arrived", "fetch_id=f-1", "depth=1", "sent_at="} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log, got %q", want, out)
		}
	}
}

func TestCloseLogsDroppedEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	tx, rx := NewChannel()
	rx.SetLogger(newBufferLogger(buf))
	_ = tx.Send(TitleArrived("f-1", "Known website"))

	rx.Close()

	if !strings.Contains(buf.String(), "dropped=1") {
		t.Fatalf("expected dropped count in log, got %q", buf.String())
	}
}

func newBufferLogger(buf *bytes.Buffer) *logger.LogEntry {
	l := logrus.New()
	l.SetFormatter(logger.PlainFormatter{})
	l.SetLevel(logrus.DebugLevel)
	l.SetOutput(buf)
	return logrus.NewEntry(l)
}
