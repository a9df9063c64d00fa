package assets

import (
	"strings"

	tamserrors "github.com/ScribblesProject/tams/pkg/errors"
	"github.com/ScribblesProject/tams/pkg/models"
)

// EditSession is the transient working copy of an asset under creation or
// modification. Mutations are plain assignments; nothing is validated until
// save time. A session is consumed exactly once by SaveService.Save.
type EditSession struct {
	original *models.Asset

	name               string
	description        string
	category           models.Category
	typeName           string
	pendingLocations   []models.Coordinate
	pendingImage       []byte
	pendingMemoFileRef string
}

// NewCreateSession opens a session for a brand-new asset.
func NewCreateSession() *EditSession {
	return &EditSession{}
}

// NewUpdateSession opens a session prefilled from an existing asset. The
// location path is seeded in traversal order so an untouched save renumbers
// to an equal set.
func NewUpdateSession(original models.Asset) *EditSession {
	return &EditSession{
		original:         &original,
		name:             original.Name,
		description:      original.Description,
		category:         original.Category,
		typeName:         original.TypeName,
		pendingLocations: original.Locations.Path(),
	}
}

func (s *EditSession) IsUpdate() bool { return s.original != nil }

// Original returns the asset being updated, nil for a create session.
func (s *EditSession) Original() *models.Asset { return s.original }

func (s *EditSession) SetName(name string)               { s.name = name }
func (s *EditSession) SetDescription(description string) { s.description = description }

// SelectCategory replaces category and resets the selected type, since types
// are scoped to exactly one category.
func (s *EditSession) SelectCategory(category models.Category) {
	if category.Name != s.category.Name {
		s.typeName = ""
	}
	s.category = category
}

func (s *EditSession) SelectType(typeName string) { s.typeName = typeName }

// SetLocations replaces the pending path with coordinates in user-selection
// order. Keys are reassigned 1..N when the session composes its asset.
func (s *EditSession) SetLocations(path []models.Coordinate) {
	s.pendingLocations = append([]models.Coordinate(nil), path...)
}

// AttachImage records a captured photo; nil means unchanged.
func (s *EditSession) AttachImage(image []byte) { s.pendingImage = image }

// AttachMemo records a voice memo file reference; empty means unchanged.
func (s *EditSession) AttachMemo(fileRef string) { s.pendingMemoFileRef = fileRef }

func (s *EditSession) ClearMemo() { s.pendingMemoFileRef = "" }

func (s *EditSession) HasPendingImage() bool { return s.pendingImage != nil }
func (s *EditSession) HasPendingMemo() bool  { return s.pendingMemoFileRef != "" }

// Validate checks the four required fields, trimmed. Invoked only at save
// time; a failure aborts the save before anything touches the network.
func (s *EditSession) Validate() error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", s.name},
		{"description", s.description},
		{"category", s.category.Name},
		{"type", s.typeName},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return tamserrors.NewValidationError(missing...)
	}
	return nil
}

// Compose builds the asset payload for submission. Location keys are
// renumbered 1..N in selection order, discarding whatever keys the server
// sent. Media URLs are carried over on update so an unchanged save composes
// an asset equal to the original.
func (s *EditSession) Compose() models.Asset {
	asset := models.Asset{
		Name:        s.name,
		Description: s.description,
		Category:    s.category,
		TypeName:    s.typeName,
		Locations:   models.LocationsFromPath(s.pendingLocations),
	}
	if s.original != nil {
		asset.ID = s.original.ID
		asset.ImageURL = s.original.ImageURL
		asset.VoiceURL = s.original.VoiceURL
	}
	return asset
}

// NeedsUpdate reports whether the composed asset differs from the original
// at field level. When nothing differs the metadata round-trip is skipped
// and the existing id reused. Always true for create sessions.
func (s *EditSession) NeedsUpdate(composed models.Asset) bool {
	if s.original == nil {
		return true
	}
	original := *s.original
	if composed.Name != original.Name ||
		composed.Description != original.Description ||
		composed.Category.ID != original.Category.ID ||
		composed.Category.Name != original.Category.Name ||
		composed.TypeName != original.TypeName {
		return true
	}
	return !composed.Locations.Equal(original.Locations)
}
