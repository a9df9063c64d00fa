package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationSetEqual(t *testing.T) {
	base := LocationSet{
		1: {Latitude: 38.5815719, Longitude: -121.4943996},
		2: {Latitude: 38.5820000, Longitude: -121.4950000},
	}

	tests := []struct {
		name     string
		other    LocationSet
		expected bool
	}{
		{
			name: "identical mapping",
			other: LocationSet{
				2: {Latitude: 38.5820000, Longitude: -121.4950000},
				1: {Latitude: 38.5815719, Longitude: -121.4943996},
			},
			expected: true,
		},
		{
			name: "tiny coordinate drift is a difference",
			other: LocationSet{
				1: {Latitude: 38.5815719, Longitude: -121.4943996},
				2: {Latitude: 38.5820000, Longitude: -121.4950000001},
			},
			expected: false,
		},
		{
			name: "same size, different keys",
			other: LocationSet{
				1: {Latitude: 38.5815719, Longitude: -121.4943996},
				3: {Latitude: 38.5820000, Longitude: -121.4950000},
			},
			expected: false,
		},
		{
			name: "count mismatch",
			other: LocationSet{
				1: {Latitude: 38.5815719, Longitude: -121.4943996},
			},
			expected: false,
		},
		{
			name:     "both empty",
			other:    LocationSet{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.Equal(tt.other))
		})
	}

	assert.True(t, LocationSet{}.Equal(LocationSet{}))
	assert.True(t, base.Equal(base))
}

func TestLocationSetPathSortsKeysNumerically(t *testing.T) {
	a := Coordinate{Latitude: 1, Longitude: 1}
	b := Coordinate{Latitude: 2, Longitude: 2}
	c := Coordinate{Latitude: 3, Longitude: 3}

	ls := LocationSet{3: a, 1: b, 2: c}
	assert.Equal(t, []Coordinate{b, c, a}, ls.Path())

	// Key 10 would sort before 9 lexically; it must not here.
	ls = LocationSet{10: a, 9: b}
	assert.Equal(t, []int{9, 10}, ls.Keys())
	assert.Equal(t, []Coordinate{b, a}, ls.Path())
}

func TestLocationsFromPathRenumbers(t *testing.T) {
	path := []Coordinate{
		{Latitude: 5, Longitude: 5},
		{Latitude: 6, Longitude: 6},
		{Latitude: 7, Longitude: 7},
	}

	ls := LocationsFromPath(path)
	assert.Equal(t, []int{1, 2, 3}, ls.Keys())
	assert.Equal(t, path, ls.Path())

	assert.Empty(t, LocationsFromPath(nil))
}
