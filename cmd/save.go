package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ScribblesProject/tams/internal/assets"
	"github.com/ScribblesProject/tams/internal/media"
	"github.com/ScribblesProject/tams/pkg/models"
	"github.com/spf13/cobra"
)

var saveFlags struct {
	assetID      int
	name         string
	description  string
	category     string
	categoryDesc string
	typeName     string
	imagePath    string
	memoPath     string
	locations    []string
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create an asset, or update one with --id",
	Long: `Create or update an asset. With --id the asset is fetched and used as the
session's original; only the flags you pass change it, and an unchanged asset
skips the metadata round-trip. Image and memo files upload after the metadata
step; a failed upload does not fail the save.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := newLogger()
		defer log.Sync()
		client := newClient(log)
		ctx := cmd.Context()

		var session *assets.EditSession
		if saveFlags.assetID > 0 {
			original, found := findAsset(client.List(ctx), saveFlags.assetID)
			if !found {
				return fmt.Errorf("no asset with id %d", saveFlags.assetID)
			}
			session = assets.NewUpdateSession(original)
		} else {
			session = assets.NewCreateSession()
		}

		if err := applyFlags(cmd, session); err != nil {
			return err
		}

		service := assets.NewSaveService(client, log)
		service.OnProgress = func(medium string, fraction float64) {
			fmt.Printf("\ruploading %s: %3.0f%%", medium, fraction*100)
			if fraction >= 1 {
				fmt.Println()
			}
		}

		result, err := service.Save(ctx, session)
		if err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("failed to save asset")
		}

		fmt.Printf("Asset saved (id=%d).\n", result.AssetID)
		if session.HasPendingImage() && !result.ImageUploaded {
			fmt.Println("Warning: image upload failed; the asset was saved without it.")
		}
		if session.HasPendingMemo() && !result.MemoUploaded {
			fmt.Println("Warning: voice memo upload failed; the asset was saved without it.")
		}
		return nil
	},
}

func init() {
	saveCmd.Flags().IntVar(&saveFlags.assetID, "id", 0, "Asset id to update (omit to create)")
	saveCmd.Flags().StringVar(&saveFlags.name, "name", "", "Asset name")
	saveCmd.Flags().StringVar(&saveFlags.description, "description", "", "Asset description")
	saveCmd.Flags().StringVar(&saveFlags.category, "category", "", "Category name")
	saveCmd.Flags().StringVar(&saveFlags.categoryDesc, "category-description", "", "Category description")
	saveCmd.Flags().StringVar(&saveFlags.typeName, "type", "", "Type name within the category")
	saveCmd.Flags().StringVar(&saveFlags.imagePath, "image", "", "Path to a JPEG photo to upload")
	saveCmd.Flags().StringVar(&saveFlags.memoPath, "memo", "", "Path to an AAC voice memo to upload")
	saveCmd.Flags().StringArrayVar(&saveFlags.locations, "location", nil,
		"Geo location as lat,lon; repeat in traversal order")
}

func applyFlags(cmd *cobra.Command, session *assets.EditSession) error {
	if cmd.Flags().Changed("name") {
		session.SetName(saveFlags.name)
	}
	if cmd.Flags().Changed("description") {
		session.SetDescription(saveFlags.description)
	}
	if cmd.Flags().Changed("category") {
		session.SelectCategory(models.Category{
			ID:          models.SentinelID,
			Name:        saveFlags.category,
			Description: saveFlags.categoryDesc,
		})
	}
	if cmd.Flags().Changed("type") {
		session.SelectType(saveFlags.typeName)
	}

	if cmd.Flags().Changed("location") {
		path := make([]models.Coordinate, 0, len(saveFlags.locations))
		for _, raw := range saveFlags.locations {
			coord, err := parseCoordinate(raw)
			if err != nil {
				return err
			}
			path = append(path, coord)
		}
		session.SetLocations(path)
	}

	if saveFlags.imagePath != "" {
		image, err := os.ReadFile(saveFlags.imagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		library := media.NewPhotoLibrary()
		library.Capture(image)
		session.AttachImage(library.Current())
	}

	if saveFlags.memoPath != "" {
		recorder := media.NewVoiceRecorder()
		if err := recorder.Start(saveFlags.memoPath); err != nil {
			return err
		}
		fileRef, err := recorder.Stop()
		if err != nil {
			return err
		}
		session.AttachMemo(fileRef)
	}
	return nil
}

func findAsset(list []models.Asset, assetID int) (models.Asset, bool) {
	for _, asset := range list {
		if asset.ID == assetID {
			return asset, true
		}
	}
	return models.Asset{}, false
}

func parseCoordinate(raw string) (models.Coordinate, error) {
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return models.Coordinate{}, fmt.Errorf("invalid location %q, want lat,lon", raw)
	}
	latitude, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid latitude in %q", raw)
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid longitude in %q", raw)
	}
	return models.Coordinate{Latitude: latitude, Longitude: longitude}, nil
}
