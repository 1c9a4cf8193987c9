package pathutil

import "testing"

func TestRedactPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"bare filename", "config.yaml", "config.yaml"},
		{"deep path keeps parent and base", "/home/user/.nudge/analytics.db", ".../.nudge/analytics.db"},
		{"relative path", ".nudge/decisions.jsonl", ".../.nudge/decisions.jsonl"},
		{"root level file", "/config.yaml", "config.yaml"},
		{"trailing slash cleaned", "/home/user/.nudge/", ".../user/.nudge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedactPath(tt.input)
			if got != tt.want {
				t.Errorf("RedactPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
