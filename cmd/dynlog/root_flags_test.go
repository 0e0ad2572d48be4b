package main

import (
	"reflect"
	"testing"
)

func TestParseRootArgsStopsAtSubcommand(t *testing.T) {
	orig := []string{"run", "-tail", "3", "--", "make"}
	root, rest, err := parseRootArgs(orig)
	if err != nil {
		t.Fatalf("parseRootArgs returned error: %v", err)
	}
	if len(root.overrides) != 0 || root.cfgPath != "" {
		t.Fatalf("expected no root flags, got %+v", root)
	}
	if !reflect.DeepEqual(rest, orig) {
		t.Fatalf("expected rest to preserve args %v, got %v", orig, rest)
	}
}

func TestParseRootArgsExtractsOverrides(t *testing.T) {
	args := []string{
		"-c", "tail_lines=2",
		"--c=animations=false",
		"-config", "/tmp/dynlog.toml",
		"demo", "-steps", "2",
	}
	root, rest, err := parseRootArgs(args)
	if err != nil {
		t.Fatalf("parseRootArgs returned error: %v", err)
	}
	expectedOverrides := []string{"tail_lines=2", "animations=false"}
	if !reflect.DeepEqual(root.overrides, expectedOverrides) {
		t.Fatalf("unexpected overrides: got %v, want %v", root.overrides, expectedOverrides)
	}
	if root.cfgPath != "/tmp/dynlog.toml" {
		t.Fatalf("cfgPath = %q", root.cfgPath)
	}
	expectedRest := []string{"demo", "-steps", "2"}
	if !reflect.DeepEqual(rest, expectedRest) {
		t.Fatalf("unexpected rest args: got %v, want %v", rest, expectedRest)
	}
}

func TestParseRootArgsRejectsUnknownFlag(t *testing.T) {
	if _, _, err := parseRootArgs([]string{"-bogus"}); err == nil {
		t.Fatalf("expected error for unknown root flag")
	}
}

func TestPrependOverrides(t *testing.T) {
	root := []string{"a=1"}
	got := prependOverrides(root, []string{"b=2"})
	if !reflect.DeepEqual(got, []string{"a=1", "b=2"}) {
		t.Fatalf("prependOverrides = %v", got)
	}
	got[0] = "changed"
	if root[0] != "a=1" {
		t.Fatalf("prependOverrides aliased the root slice")
	}
}
