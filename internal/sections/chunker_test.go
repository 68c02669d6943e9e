package sections

import (
	"strings"
	"testing"

	"github.com/hyperjump/tradeprep/internal/models"
)

const document = `WORLD JAGUAR LOGISTICS
Shipper
YANTAI RIMA MACHINERY
Consignee
BRADLEYTHOMAS
25 MOLLER ST
Port of Loading: QINGDAO
Vessel: SITC MAKASSAR
Description of goods
1PKGS 237KGS`

func TestClassify_sticky(t *testing.T) {
	got := Classify(document)
	cases := map[models.DocumentSection][]string{
		models.SectionUnknown:       {"WORLD JAGUAR LOGISTICS"},
		models.SectionShipperInfo:   {"Shipper", "YANTAI RIMA MACHINERY"},
		models.SectionConsigneeInfo: {"Consignee", "BRADLEYTHOMAS", "25 MOLLER ST"},
		models.SectionTransportInfo: {"Port of Loading: QINGDAO", "Vessel: SITC MAKASSAR"},
		models.SectionCargoInfo:     {"Description of goods", "1PKGS 237KGS"},
	}
	for s, want := range cases {
		if strings.Join(got[s], "|") != strings.Join(want, "|") {
			t.Errorf("section %s = %q, want %q", s, got[s], want)
		}
	}
	for _, s := range models.AllSections() {
		if _, ok := got[s]; !ok {
			t.Errorf("section %s missing from result", s)
		}
	}
}

func TestClassify_keywordOrder(t *testing.T) {
	// Shipper keywords are checked before consignee keywords.
	got := Classify("shipper and consignee on one line")
	if len(got[models.SectionShipperInfo]) != 1 || len(got[models.SectionConsigneeInfo]) != 0 {
		t.Errorf("Classify() = %v", got)
	}
}

func TestClassify_everyLineOnce(t *testing.T) {
	got := Classify(document)
	n := 0
	for _, lines := range got {
		n += len(lines)
	}
	if want := len(strings.Split(document, "\n")); n != want {
		t.Errorf("classified %d lines, want %d", n, want)
	}
}

func TestChunk_priorityOrder(t *testing.T) {
	got := NewChunker(1500).Chunk(document)
	want := strings.Join([]string{
		"=== CONSIGNEE_INFO ===",
		"Consignee\nBRADLEYTHOMAS\n25 MOLLER ST",
		"=== TRANSPORT_INFO ===",
		"Port of Loading: QINGDAO\nVessel: SITC MAKASSAR",
		"=== CARGO_INFO ===",
		"Description of goods\n1PKGS 237KGS",
		"=== SHIPPER_INFO ===",
		"Shipper\nYANTAI RIMA MACHINERY",
	}, "\n")
	if got != want {
		t.Errorf("Chunk() =\n%s\nwant\n%s", got, want)
	}
	if strings.Contains(got, "WORLD JAGUAR") {
		t.Error("Chunk() forwarded unknown section")
	}
}

func TestChunk_emptyBudget(t *testing.T) {
	// The consignee section costs 5 words * 1.3 = 6.5 tokens.
	for _, budget := range []int{0, 1, 6} {
		if got := NewChunker(budget).Chunk(document); got != "" {
			t.Errorf("Chunk() with budget %d = %q, want empty", budget, got)
		}
	}
}

func TestChunk_stopsAtFirstOverrun(t *testing.T) {
	// consignee 6.5 + transport 9.1 = 15.6; cargo (6.5) would overrun 20,
	// shipper (5.2) would fit but is not considered.
	got := NewChunker(20).Chunk(document)
	if !strings.Contains(got, "=== TRANSPORT_INFO ===") {
		t.Errorf("Chunk() missing transport section: %q", got)
	}
	if strings.Contains(got, "CARGO_INFO") || strings.Contains(got, "SHIPPER_INFO") {
		t.Errorf("Chunk() included sections past the overrun: %q", got)
	}
}

func TestChunk_skipsEmptySections(t *testing.T) {
	got := NewChunker(100).Chunk("Shipper ACME")
	if got != "=== SHIPPER_INFO ===\nShipper ACME" {
		t.Errorf("Chunk() = %q", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"one", 1.3},
		{"  two\twords\n", 2.6},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
