package textutil

import "testing"

func TestPrefixRunes(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"値段が安い", 2, "値段"},
		{"短い", 10, "短い"},
		{"abc", 0, ""},
	}
	for _, tc := range cases {
		if got := PrefixRunes(tc.in, tc.n); got != tc.want {
			t.Fatalf("PrefixRunes(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("  a\n\tb   c ", 0); got != "a b c" {
		t.Fatalf("unexpected snippet %q", got)
	}
	if got := Snippet("", 10); got != "<empty>" {
		t.Fatalf("unexpected empty snippet %q", got)
	}
	if got := Snippet("あいうえお", 3); got != "あいう..." {
		t.Fatalf("unexpected truncated snippet %q", got)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \n\t　") {
		t.Fatal("expected ideographic space to count as blank")
	}
	if IsBlank("x") {
		t.Fatal("expected non-blank")
	}
}
