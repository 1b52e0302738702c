//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package timing

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/markkurossi/okvs/p2p"
)

func TestTiming(t *testing.T) {
	tm := New()
	s := tm.Sample("Positions", "n=4")
	s.SubSample("digest", s.End)
	tm.Sample("Peel")

	if len(tm.Samples) != 2 {
		t.Fatalf("got %d samples, expected 2", len(tm.Samples))
	}
	if tm.Samples[1].Start != tm.Samples[0].End {
		t.Errorf("second sample does not start where first ended")
	}
	if tm.Total() < 0 {
		t.Errorf("negative total")
	}

	stats := p2p.NewIOStats()
	stats.Sent.Add(2000)

	var buf bytes.Buffer
	tm.Print(&buf, &stats)
	out := buf.String()
	for _, want := range []string{"Positions", "Peel", "Total", "Sent"} {
		if !strings.Contains(out, want) {
			t.Errorf("report does not contain %q:\n%s", want, out)
		}
	}
}

func TestEmpty(t *testing.T) {
	var buf bytes.Buffer
	New().Print(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("empty timing printed output")
	}
	if percent(time.Second, 0) != "-" {
		t.Errorf("percent of zero total")
	}
}

func TestFileSize(t *testing.T) {
	tests := []struct {
		v FileSize
		s string
	}{
		{12, "12B"},
		{1500, "1kB"},
		{2500000, "2MB"},
		{3000000001, "3GB"},
	}
	for _, test := range tests {
		if test.v.String() != test.s {
			t.Errorf("FileSize(%d): got %v, expected %v",
				uint64(test.v), test.v.String(), test.s)
		}
	}
}
