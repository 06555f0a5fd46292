package templ_test

import (
	"testing"

	"github.com/goliatone/go-webtempl/pkg/templ"
)

func TestTrimRightEol(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"\r foo \n", "\r foo "},
		{"\r foo \r", "\r foo "},
		{"\r foo \r\n", "\r foo "},
		{"\r foo \n\r", "\r foo "},
		{"\r foo \r\r\n", "\r foo \r"},
		{"\r foo \n\n", "\r foo \n"},
		{"no terminator", "no terminator"},
		{"", ""},
		{"\n", ""},
		{"\r\n", ""},
	}

	for _, tc := range cases {
		if got := templ.TrimRightEol(tc.in); got != tc.want {
			t.Errorf("TrimRightEol(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTrimRightEol_IdempotentWithoutTerminator(t *testing.T) {
	for _, in := range []string{"before", "\r mid\n dle ", "x\ry"} {
		once := templ.TrimRightEol(in)
		if once != in {
			t.Fatalf("expected %q unchanged, got %q", in, once)
		}
		if twice := templ.TrimRightEol(once); twice != once {
			t.Fatalf("expected idempotence for %q, got %q", in, twice)
		}
	}
}
