package main

import (
	"strings"
	"testing"
)

func TestAllocateCode(t *testing.T) {
	a := NewCodeAllocator(defaultCodeLength)
	code, err := a.Allocate(func(string) bool { return false })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != defaultCodeLength {
		t.Errorf("wrong length expected: %d got: %d", defaultCodeLength, len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ", c) {
			t.Errorf("code %q contains %q outside the uppercase alphabet", code, c)
		}
	}
}

func TestAllocateSkipsTakenCodes(t *testing.T) {
	a := NewCodeAllocator(defaultCodeLength)
	taken := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := a.Allocate(func(c string) bool { return taken[c] })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if taken[code] {
			t.Fatalf("allocator returned already-taken code %q", code)
		}
		taken[code] = true
	}
}

func TestAllocateWidensLengthUnderPressure(t *testing.T) {
	a := NewCodeAllocator(2)
	code, err := a.Allocate(func(c string) bool { return len(c) == 2 })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 3 {
		t.Errorf("expected widened length 3 got: %d", len(code))
	}
}

func TestAllocateExhaustion(t *testing.T) {
	a := NewCodeAllocator(defaultCodeLength)
	_, err := a.Allocate(func(string) bool { return true })
	if err != ErrAllocationExhausted {
		t.Errorf("expected ErrAllocationExhausted got: %v", err)
	}
}
