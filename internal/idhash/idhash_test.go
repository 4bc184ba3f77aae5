package idhash

import (
	"strings"
	"testing"
)

func TestComputeSourceID(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		parts []string
	}{
		{name: "csv file", kind: "csv", parts: []string{"/data/trades.csv", "1024", "1704067234"}},
		{name: "postgres query", kind: "postgres", parts: []string{"postgres://localhost/db", "SELECT * FROM trade_transactions"}},
		{name: "no parts", kind: "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSourceID(tt.kind, tt.parts...)

			if !strings.HasPrefix(got, tt.kind+":") {
				t.Errorf("ComputeSourceID() = %s, want prefix %s:", got, tt.kind)
			}
			if len(got) != len(tt.kind)+1+16 {
				t.Errorf("ComputeSourceID() length = %d, want %d", len(got), len(tt.kind)+17)
			}

			// Verify determinism: same inputs should produce same output
			if got2 := ComputeSourceID(tt.kind, tt.parts...); got != got2 {
				t.Errorf("ComputeSourceID() not deterministic: %s != %s", got, got2)
			}
		})
	}
}

func TestComputeSourceID_DifferentInputs(t *testing.T) {
	base := ComputeSourceID("csv", "/a.csv", "10")

	if base == ComputeSourceID("csv", "/b.csv", "10") {
		t.Error("Different path should produce different id")
	}
	if base == ComputeSourceID("csv", "/a.csv", "11") {
		t.Error("Different size should produce different id")
	}
	if base == ComputeSourceID("excel", "/a.csv", "10") {
		t.Error("Different kind should produce different id")
	}
}

type request struct {
	Bucket string            `json:"bucket"`
	TopN   int               `json:"top_n"`
	Extra  map[string]string `json:"extra"`
}

func TestComputeFingerprint_Determinism(t *testing.T) {
	req := request{Bucket: "year_month", TopN: 20, Extra: map[string]string{"b": "2", "a": "1"}}

	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		fp, err := ComputeFingerprint("csv:abc", req)
		if err != nil {
			t.Fatalf("ComputeFingerprint failed: %v", err)
		}
		results[i] = fp
	}

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("Determinism failed: results[%d]=%s != results[0]=%s", i, results[i], results[0])
		}
	}
	if len(results[0]) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(results[0]))
	}
}

func TestComputeFingerprint_DifferentInputs(t *testing.T) {
	base, _ := ComputeFingerprint("src", request{Bucket: "year", TopN: 5})

	other, _ := ComputeFingerprint("src", request{Bucket: "year", TopN: 6})
	if base == other {
		t.Error("Different request should produce different fingerprint")
	}

	otherSrc, _ := ComputeFingerprint("src2", request{Bucket: "year", TopN: 5})
	if base == otherSrc {
		t.Error("Different source should produce different fingerprint")
	}
}

func TestComputeFingerprint_Unencodable(t *testing.T) {
	if _, err := ComputeFingerprint("src", make(chan int)); err == nil {
		t.Error("expected error for unencodable request")
	}
}
