package elf

import (
	"math"
	"testing"
)

func TestCalculateEntropy(t *testing.T) {
	uniform := make([]byte, 256)
	for i := range uniform {
		uniform[i] = byte(i)
	}

	tests := []struct {
		name     string
		data     []byte
		wantMin  float64
		wantMax  float64
		checkVal bool
		want     float64
	}{
		{
			name:     "empty data",
			data:     []byte{},
			want:     0.0,
			checkVal: true,
		},
		{
			name:     "all same bytes (minimum entropy)",
			data:     []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			want:     0.0,
			checkVal: true,
		},
		{
			name:     "all different bytes",
			data:     []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
			want:     3.0,
			checkVal: true,
		},
		{
			name:    "every byte value once (maximum entropy)",
			data:    uniform,
			wantMin: 7.5,
			wantMax: 8.0,
		},
		{
			name:    "compiler id text (low entropy)",
			data:    []byte("GCC: (GNU) 13.2.0 20230801"),
			wantMin: 3.0,
			wantMax: 5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateEntropy(tt.data)

			if tt.checkVal {
				if math.Abs(got-tt.want) > 0.01 {
					t.Errorf("CalculateEntropy() = %v, want %v", got, tt.want)
				}
			} else {
				if got < tt.wantMin || got > tt.wantMax {
					t.Errorf("CalculateEntropy() = %v, want between %v and %v", got, tt.wantMin, tt.wantMax)
				}
			}
		})
	}
}
