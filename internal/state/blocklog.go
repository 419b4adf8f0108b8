package state

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// AppendBlockLog appends one line to the append-only blocklist log:
// timestamp, offending text and failure reason, tab-separated. The log is
// diagnostic only and is never read back, so callers swallow any error.
func AppendBlockLog(path, item, reason string, now time.Time) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open blocklist log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\n",
		now.UTC().Format(time.RFC3339),
		sanitizeLogField(item),
		sanitizeLogField(reason))
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to blocklist log: %w", err)
	}

	return nil
}

// sanitizeLogField keeps the log line-oriented.
func sanitizeLogField(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}
