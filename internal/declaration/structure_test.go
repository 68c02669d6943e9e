package declaration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrune(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{
			name: "nested empties",
			in:   map[string]any{"a": map[string]any{"b": nil, "c": []any{}}, "d": "x"},
			want: map[string]any{"d": "x"},
		},
		{
			name: "list elements",
			in:   []any{nil, map[string]any{}, []any{nil}, "y", map[string]any{"k": "v", "e": ""}},
			want: []any{"y", map[string]any{"k": "v"}},
		},
		{
			name: "typed empties",
			in:   map[string]any{"s": []string{}, "m": map[string]string{}, "n": []string(nil), "ok": []string{"z"}, "zero": 0},
			want: map[string]any{"ok": []string{"z"}, "zero": 0},
		},
		{
			name: "scalar",
			in:   "plain",
			want: "plain",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prune(tt.in))
		})
	}
}

func TestToStructure_modeBlocks(t *testing.T) {
	air := ToStructure(&Extracted{ModeOfTransport: ModeAir, MasterAirWaybill: "160-1"})
	b := air["section_b_transport_details"].(map[string]any)
	assert.NotNil(t, b["air_transport"])
	assert.Nil(t, b["sea_transport"])

	sea := ToStructure(&Extracted{ModeOfTransport: ModeSea})
	b = sea["section_b_transport_details"].(map[string]any)
	assert.Nil(t, b["air_transport"])
	assert.NotNil(t, b["sea_transport"])

	none := ToStructure(&Extracted{DeliveryCountry: "NEW ZEALAND"})
	b = none["section_b_transport_details"].(map[string]any)
	assert.Nil(t, b["air_transport"])
	assert.Nil(t, b["sea_transport"])
	assert.Equal(t, "NEW ZEALAND", b["delivery_address"].(map[string]any)["country"])
}
