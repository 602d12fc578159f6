package util_test

import (
	"testing"

	"github.com/mirukan/novelkeep/internal/util"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`a/b\c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j"},
		{"  trimmed . ", "trimmed"},
		{"", "untitled"},
		{"...", "untitled"},
		{"日本語タイトル", "日本語タイトル"},
		{"with\x00control\x1fchars", "withcontrolchars"},
	}
	for _, c := range cases {
		if got := util.SanitizeName(c.in); got != c.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeNameIsDeterministic(t *testing.T) {
	in := `some:odd*name?`
	if util.SanitizeName(in) != util.SanitizeName(in) {
		t.Error("SanitizeName is not deterministic")
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := util.TruncateLabel("short", 20); got != "short" {
		t.Errorf("TruncateLabel(short) = %q", got)
	}
	got := util.TruncateLabel("a very long novel title indeed", 20)
	if len([]rune(got)) != 20 {
		t.Errorf("Truncated label has length %d: %q", len([]rune(got)), got)
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("Truncated label missing ellipsis: %q", got)
	}
}
