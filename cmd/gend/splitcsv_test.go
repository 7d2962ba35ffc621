package main

import (
	"reflect"
	"testing"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{" a , b ,", []string{"a", "b"}},
		{",,", nil},
	}
	for _, tc := range cases {
		if got := splitCSV(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitCSV(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("GEND_TEST_KEY", "set")
	if got := envOr("GEND_TEST_KEY", "def"); got != "set" {
		t.Fatalf("got %q", got)
	}
	if got := envOr("GEND_TEST_MISSING", "def"); got != "def" {
		t.Fatalf("got %q", got)
	}
}

func TestEnvIntOr(t *testing.T) {
	t.Setenv("GEND_TEST_INT", "12")
	if got := envIntOr("GEND_TEST_INT", 3); got != 12 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("GEND_TEST_INT", "nope")
	if got := envIntOr("GEND_TEST_INT", 3); got != 3 {
		t.Fatalf("got %d", got)
	}
}
