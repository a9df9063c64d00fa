package models

import "sort"

// Coordinate is a single latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationSet maps a positive integer order key to a coordinate. Keys define
// the traversal sequence for path/polygon rendering; they need not be
// contiguous. Zero locations is a valid (point-less) asset, one renders a
// single pin, two or more close into a polygon.
type LocationSet map[int]Coordinate

// Equal reports whether both sets have the same keys and, for every key,
// exactly equal coordinates. Comparison is strict float equality: the result
// only gates re-rendering, where a false "differs" is harmless but an epsilon
// match could leave a stale render on screen.
func (ls LocationSet) Equal(other LocationSet) bool {
	if len(ls) != len(other) {
		return false
	}
	for key, coord := range ls {
		match, ok := other[key]
		if !ok {
			return false
		}
		if match.Latitude != coord.Latitude || match.Longitude != coord.Longitude {
			return false
		}
	}
	return true
}

// Keys returns the order keys sorted by numeric value. Sorting must be
// numeric, not lexical: key "10" follows "9".
func (ls LocationSet) Keys() []int {
	keys := make([]int, 0, len(ls))
	for key := range ls {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

// Path returns the coordinates in traversal order.
func (ls LocationSet) Path() []Coordinate {
	path := make([]Coordinate, 0, len(ls))
	for _, key := range ls.Keys() {
		path = append(path, ls[key])
	}
	return path
}

// LocationsFromPath numbers the given coordinates 1..N in order. Used when an
// edit session commits: prior keys are discarded and the user's selection
// order becomes the traversal order.
func LocationsFromPath(path []Coordinate) LocationSet {
	ls := make(LocationSet, len(path))
	for i, coord := range path {
		ls[i+1] = coord
	}
	return ls
}
