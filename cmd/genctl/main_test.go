package main

import (
	"testing"
)

func TestRootCommandTree(t *testing.T) {
	root := buildRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "tokenize"} {
		if !names[want] {
			t.Fatalf("missing %q subcommand", want)
		}
	}
}

func TestRunRequiresPrompt(t *testing.T) {
	root := buildRootCmd()
	root.SetArgs([]string{"run"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected arg error")
	}
}

func TestRunRequiresModel(t *testing.T) {
	root := buildRootCmd()
	root.SetArgs([]string{"run", "hello"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error without --model")
	}
}
