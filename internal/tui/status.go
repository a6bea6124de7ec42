package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// fetchStatus 是状态行：抓取在途时显示 spinner、url 与耗时，空闲时不显示。
type fetchStatus struct {
	url     string
	started time.Time
	active  bool
	clock   func() time.Time
}

func newFetchStatus(clock func() time.Time) *fetchStatus {
	if clock == nil {
		clock = time.Now
	}
	return &fetchStatus{clock: clock}
}

// Start 开始计时一次抓取。
func (s *fetchStatus) Start(url string) {
	s.url = url
	s.started = s.clock()
	s.active = true
}

// Stop 结束计时，状态行随之隐藏。
func (s *fetchStatus) Stop() {
	s.active = false
}

func (s *fetchStatus) Active() bool {
	return s.active
}

// Render 输出一行状态，宽度不超过 width。
func (s *fetchStatus) Render(frame string, width int) string {
	if !s.active || width <= 0 {
		return ""
	}
	elapsed := s.clock().Sub(s.started)
	line := fmt.Sprintf("%s Fetching %s %s", frame, s.url,
		lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("(%s)", fmtElapsed(elapsed))))
	if lipgloss.Width(line) <= width {
		return line
	}
	return runewidth.Truncate(fmt.Sprintf("%s Fetching %s (%s)", frame, s.url, fmtElapsed(elapsed)), width, "…")
}

// fmtElapsed 把耗时格式化为紧凑形式，秒以下保留一位小数。
func fmtElapsed(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		secs := int(d.Seconds())
		return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
	default:
		secs := int(d.Seconds())
		return fmt.Sprintf("%dh %02dm %02ds", secs/3600, (secs%3600)/60, secs%60)
	}
}
