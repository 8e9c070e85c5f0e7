package common

import "testing"

func TestFormatSigned(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{5, "+5"},
		{1, "+1"},
		{0, "+0"},
		{-3, "-3"},
	}
	for _, c := range cases {
		if got := FormatSigned(c.n); got != c.want {
			t.Errorf("FormatSigned(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestJoinList(t *testing.T) {
	cases := []struct {
		items []string
		want  string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b, and c"},
		{[]string{"a", "b", "c", "d"}, "a, b, c, and d"},
	}
	for _, c := range cases {
		if got := JoinList(c.items); got != c.want {
			t.Errorf("JoinList(%v) = %q, want %q", c.items, got, c.want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	cases := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 50, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer message here", 10, "a longe..."},
		{"abc", 0, "abc"},
		{"abcdef", 2, "ab"},
	}
	for _, c := range cases {
		if got := TruncateText(c.s, c.max); got != c.want {
			t.Errorf("TruncateText(%q, %d) = %q, want %q", c.s, c.max, got, c.want)
		}
	}
}
