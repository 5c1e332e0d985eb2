package rewrite

import (
	"strings"
	"testing"
)

func TestApplySplicesInOrder(t *testing.T) {
	src := []byte("func f(a int, b int) {\n}\n")

	var log Log
	log.Replace(7, 12, "a uint64")
	log.Insert(0, "//export f\n")
	log.Replace(14, 19, "b uint64")

	out, err := log.Apply(src)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := "//export f\nfunc f(a uint64, b uint64) {\n}\n"
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestApplyEmptyLogIsIdentity(t *testing.T) {
	src := []byte("package main\n")
	var log Log
	if !log.Empty() {
		t.Fatalf("fresh log should be empty")
	}
	out, err := log.Apply(src)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if string(out) != string(src) {
		t.Errorf("identity apply changed the source: %q", out)
	}
}

func TestApplyKeepsInsertionOrderAtSameOffset(t *testing.T) {
	var log Log
	log.Insert(0, "first\n")
	log.Insert(0, "second\n")
	out, err := log.Apply([]byte("rest\n"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if string(out) != "first\nsecond\nrest\n" {
		t.Errorf("got %q", out)
	}
}

func TestApplyRejectsOverlap(t *testing.T) {
	var log Log
	log.Replace(0, 10, "x")
	log.Replace(5, 15, "y")
	_, err := log.Apply(make([]byte, 20))
	if err == nil {
		t.Fatalf("expected overlap error")
	}
	if !strings.Contains(err.Error(), "overlaps") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	var log Log
	log.Replace(0, 100, "x")
	if _, err := log.Apply([]byte("short")); err == nil {
		t.Fatalf("expected range error")
	}
}
