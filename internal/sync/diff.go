package sync

import "github.com/ScribblesProject/tams/pkg/models"

// Differs reports whether a freshly fetched asset collection is meaningfully
// different from the one currently displayed. It only gates re-rendering: on
// any difference the caller replaces the whole snapshot, there is no merging.
//
// Assets are matched by name, not id, so a locally created asset can be
// matched against its server echo before the id round-trip completes. Two
// assets sharing a name are therefore treated as the same entity; callers
// should assume duplicate-named collections may under-report changes.
func Differs(displayed, fetched []models.Asset) bool {
	if len(displayed) != len(fetched) {
		return true
	}

	current := make(map[string]models.LocationSet, len(displayed))
	for _, asset := range displayed {
		current[asset.Name] = asset.Locations
	}

	for _, asset := range fetched {
		match, ok := current[asset.Name]
		if !ok {
			return true
		}
		if !match.Equal(asset.Locations) {
			return true
		}
	}
	return false
}
