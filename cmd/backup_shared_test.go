package cmd

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNormalizeTables(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{" ", ""}, nil},
		{[]string{" Profiles ", "vocabulary"}, []string{"profiles", "vocabulary"}},
	}
	for _, tc := range cases {
		if got := normalizeTables(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("normalizeTables(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProgressStep(t *testing.T) {
	cases := map[int]int{0: 1000, 10: 1, 400: 20, 1_000_000: 1000}
	for total, want := range cases {
		if got := progressStep(total); got != want {
			t.Errorf("progressStep(%d) = %d, want %d", total, got, want)
		}
	}
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)
	p.StartTable("vocabulary", 3)
	p.Increment("vocabulary", 1)
	p.Increment("vocabulary", 2)
	p.FinishTable("vocabulary")
	p.Increment("vocabulary", 1)

	want := "exporting vocabulary (3 rows)\n" +
		"progress vocabulary: 1/3\n" +
		"progress vocabulary: 3/3\n" +
		"exported vocabulary: 3/3 rows\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestBackupFilename(t *testing.T) {
	now := time.Date(2025, 4, 2, 13, 4, 5, 0, time.FixedZone("x", 3600))
	if got := backupFilename(now, true); got != "lingolive-backup-20250402-120405.jsonl.gz" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestStackClosesInReverse(t *testing.T) {
	var order []int
	var s stack
	s.push(func() error { order = append(order, 1); return nil })
	s.push(func() error { order = append(order, 2); return errors.New("boom") })
	if err := s.close(); err == nil {
		t.Fatal("expected joined error")
	}
	if !reflect.DeepEqual(order, []int{2, 1}) {
		t.Fatalf("unexpected close order %v", order)
	}
}
