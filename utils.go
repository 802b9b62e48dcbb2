package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateConnectionID returns a unique identifier for one server
// session, carried into every log event that session emits.
func GenerateConnectionID() string {
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("conn_%x_%s", time.Now().UnixMilli(), short)
}

// FormatDuration renders a duration for humans: 12ms, 3.041s, 2m 5s,
// 1h 2m 3s.
func FormatDuration(d time.Duration) string {
	totalSecs := int64(d / time.Second)
	millis := int64(d/time.Millisecond) % 1000

	switch {
	case totalSecs == 0:
		return fmt.Sprintf("%dms", millis)
	case totalSecs < 60:
		return fmt.Sprintf("%d.%03ds", totalSecs, millis)
	case totalSecs < 3600:
		return fmt.Sprintf("%dm %ds", totalSecs/60, totalSecs%60)
	default:
		return fmt.Sprintf("%dh %dm %ds", totalSecs/3600, (totalSecs%3600)/60, totalSecs%60)
	}
}
