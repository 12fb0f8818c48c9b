package markdown

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"hello world", "hello world"},
		{"a.b_c", `a\.b\_c`},
		{"1+1=2", `1\+1\=2`},
		{"*_[]()~`>#+-=|{}.!", "\\*\\_\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
		{"no change: a\\b", "no change: a\\b"},
		{"(parens) and [brackets]", `\(parens\) and \[brackets\]`},
	}

	for _, tc := range tests {
		if got := Escape(tc.in); got != tc.want {
			t.Fatalf("Escape(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}
