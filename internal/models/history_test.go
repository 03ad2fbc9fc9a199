package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryEntry_TableName(t *testing.T) {
	assert.Equal(t, "history", HistoryEntry{}.TableName())
}

func TestHistoryEntry_String(t *testing.T) {
	tests := []struct {
		name  string
		entry HistoryEntry
		want  string
	}{
		{
			name:  "price sorted",
			entry: HistoryEntry{Command: "lowprice", City: "Moscow", ResultsCount: 5},
			want:  "/lowprice: Moscow; results: 5; photos: 0",
		},
		{
			name: "best deal",
			entry: HistoryEntry{
				Command:       "bestdeal",
				City:          "Paris",
				ResultsCount:  2,
				PhotosCount:   3,
				PriceRange:    "100-200",
				DistanceRange: "0.5-3",
			},
			want: "/bestdeal: Paris; results: 2; photos: 3; price: 100-200; distance: 0.5-3 km",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.String())
		})
	}
}
