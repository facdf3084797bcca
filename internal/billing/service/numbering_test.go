package service

import (
	"context"
	"sort"
	"testing"
	"time"
)

// fakeNumberSource serves numbers from an in-memory set.
type fakeNumberSource struct {
	numbers map[string]bool
}

func newFakeNumberSource(existing ...string) *fakeNumberSource {
	src := &fakeNumberSource{numbers: make(map[string]bool)}
	for _, n := range existing {
		src.numbers[n] = true
	}
	return src
}

func (s *fakeNumberSource) LastNumber(_ context.Context, _ string, prefix string) (string, error) {
	var matching []string
	for n := range s.numbers {
		if len(n) >= len(prefix) && n[:len(prefix)] == prefix {
			matching = append(matching, n)
		}
	}
	if len(matching) == 0 {
		return "", nil
	}
	sort.Slice(matching, func(i, j int) bool {
		if len(matching[i]) != len(matching[j]) {
			return len(matching[i]) > len(matching[j])
		}
		return matching[i] > matching[j]
	})
	return matching[0], nil
}

func (s *fakeNumberSource) NumberExists(_ context.Context, _ string, number string) (bool, error) {
	return s.numbers[number], nil
}

func TestNextNumberStartsAtOne(t *testing.T) {
	src := newFakeNumberSource()
	got, err := NextNumber(context.Background(), src, "u1", "INV", InvoiceNumberPad)
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if got != "INV-0001" {
		t.Errorf("got %s, want INV-0001", got)
	}
}

func TestNextNumberIncrementsHighest(t *testing.T) {
	src := newFakeNumberSource("INV-0001", "INV-0050")
	got, err := NextNumber(context.Background(), src, "u1", "INV", InvoiceNumberPad)
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if got != "INV-0051" {
		t.Errorf("got %s, want INV-0051", got)
	}
}

func TestNextNumberSkipsTakenCandidates(t *testing.T) {
	// A non-numeric suffix wins the "last" lookup, so the sequence restarts
	// at 1 and must walk past the taken candidates.
	src := newFakeNumberSource("INV-0001", "INV-0002", "INV-DRAFT")

	got, err := NextNumber(context.Background(), src, "u1", "INV", InvoiceNumberPad)
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if got != "INV-0003" {
		t.Errorf("got %s, want INV-0003", got)
	}
}

func TestNextNumberSequentialNeverRepeats(t *testing.T) {
	src := newFakeNumberSource("INV-0050")
	ctx := context.Background()

	seen := map[string]bool{"INV-0050": true}
	for i := 0; i < 20; i++ {
		n, err := NextNumber(ctx, src, "u1", "INV", InvoiceNumberPad)
		if err != nil {
			t.Fatalf("NextNumber: %v", err)
		}
		if seen[n] {
			t.Fatalf("number %s repeated", n)
		}
		seen[n] = true
		src.numbers[n] = true
	}
}

func TestNextNumberOrderPrefix(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	prefix := OrderNumberPrefix(now)
	if prefix != "ORD-2026-" {
		t.Fatalf("prefix = %s, want ORD-2026-", prefix)
	}

	src := newFakeNumberSource("ORD-2026-007", "ORD-2025-120")
	got, err := NextNumber(context.Background(), src, "u1", prefix, OrderNumberPad)
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if got != "ORD-2026-008" {
		t.Errorf("got %s, want ORD-2026-008", got)
	}
}

func TestNextNumberPerOwnerIsolation(t *testing.T) {
	// The source scopes by owner; an empty owner view starts at 1.
	src := newFakeNumberSource()
	got, err := NextNumber(context.Background(), src, "u2", "INV", InvoiceNumberPad)
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if got != "INV-0001" {
		t.Errorf("got %s, want INV-0001", got)
	}
}
