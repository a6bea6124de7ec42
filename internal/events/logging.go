package events

import (
	"time"

	"website-cli/internal/logger"
)

// log 复用全局 logger，标记事件队列组件；未配置独立文件时使用。
var log = logger.Named("eq")

func logEvent(entry *logger.LogEntry, event Event) *logger.LogEntry {
	fields := logger.Fields{
		"kind": event.Kind,
	}
	if event.FetchID != "" {
		fields["fetch_id"] = event.FetchID
	}
	if !event.Timestamp.IsZero() {
		fields["sent_at"] = event.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	if event.Title != "" {
		fields["title"] = event.Title
	}
	return entry.WithFields(fields)
}
