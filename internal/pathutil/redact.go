// Package pathutil provides path helpers for safe error reporting.
package pathutil

import (
	"path/filepath"
)

// RedactPath reduces a full path to .../<parent>/<basename> for safe error
// messages. For example, "/home/user/.nudge/analytics.db" becomes
// ".../.nudge/analytics.db".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	parent := filepath.Base(dir)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}
