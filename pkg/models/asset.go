package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Asset is the domain entity being cataloged. ID 0 means the asset has not
// been created server-side yet.
type Asset struct {
	ID          int
	Name        string
	Description string
	Category    Category
	TypeName    string
	ImageURL    string
	VoiceURL    string
	Locations   LocationSet
}

// wireAsset is the kebab-case JSON shape the backend speaks. Required fields
// are pointers so absence can be told apart from the zero value.
type wireAsset struct {
	ID                  *int                  `json:"id"`
	Name                *string               `json:"name"`
	Description         *string               `json:"description"`
	Category            *string               `json:"category"`
	CategoryID          int                   `json:"category-id"`
	CategoryDescription string                `json:"category-description"`
	TypeName            *string               `json:"type-name"`
	ImageURL            *string               `json:"media-image-url"`
	VoiceURL            *string               `json:"media-voice-url"`
	Locations           map[string]Coordinate `json:"locations"`
}

// MarshalJSON serializes the asset in the backend's wire shape. Location keys
// are written as decimal strings exactly as held; renumbering is the edit
// session's job, not the codec's.
func (a Asset) MarshalJSON() ([]byte, error) {
	locations := make(map[string]Coordinate, len(a.Locations))
	for key, coord := range a.Locations {
		locations[strconv.Itoa(key)] = coord
	}
	return json.Marshal(wireAsset{
		ID:                  &a.ID,
		Name:                &a.Name,
		Description:         &a.Description,
		Category:            &a.Category.Name,
		CategoryID:          a.Category.ID,
		CategoryDescription: a.Category.Description,
		TypeName:            &a.TypeName,
		ImageURL:            &a.ImageURL,
		VoiceURL:            &a.VoiceURL,
		Locations:           locations,
	})
}

// UnmarshalJSON parses the wire shape. A missing required field or a
// malformed location key is a parse failure for the whole record.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var wire wireAsset
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	for field, present := range map[string]bool{
		"id":              wire.ID != nil,
		"name":            wire.Name != nil,
		"description":     wire.Description != nil,
		"category":        wire.Category != nil,
		"type-name":       wire.TypeName != nil,
		"media-image-url": wire.ImageURL != nil,
		"media-voice-url": wire.VoiceURL != nil,
	} {
		if !present {
			return fmt.Errorf("asset record missing required field %q", field)
		}
	}

	locations := make(LocationSet, len(wire.Locations))
	for raw, coord := range wire.Locations {
		key, err := strconv.Atoi(raw)
		if err != nil || key <= 0 {
			return fmt.Errorf("asset record has invalid location key %q", raw)
		}
		locations[key] = coord
	}

	*a = Asset{
		ID:          *wire.ID,
		Name:        *wire.Name,
		Description: *wire.Description,
		Category: Category{
			ID:          wire.CategoryID,
			Name:        *wire.Category,
			Description: wire.CategoryDescription,
		},
		TypeName:  *wire.TypeName,
		ImageURL:  *wire.ImageURL,
		VoiceURL:  *wire.VoiceURL,
		Locations: locations,
	}
	return nil
}
