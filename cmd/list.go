package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all assets",
	Run: func(cmd *cobra.Command, _ []string) {
		log := newLogger()
		defer log.Sync()
		client := newClient(log)

		assets := client.List(cmd.Context())
		if len(assets) == 0 {
			fmt.Println("No assets.")
			return
		}
		for _, asset := range assets {
			fmt.Printf("%5d  %-24s %-16s %-16s locations=%d\n",
				asset.ID, asset.Name, asset.Category.Name, asset.TypeName, len(asset.Locations))
		}
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List asset categories",
	Run: func(cmd *cobra.Command, _ []string) {
		log := newLogger()
		defer log.Sync()
		client := newClient(log)

		for _, category := range client.CategoryList(cmd.Context()) {
			fmt.Printf("%5d  %-24s %s\n", category.ID, category.Name, category.Description)
		}
	},
}

var typesCmd = &cobra.Command{
	Use:   "types <category-id>",
	Short: "List asset types for a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid category id %q", args[0])
		}

		log := newLogger()
		defer log.Sync()
		client := newClient(log)

		for _, assetType := range client.TypeList(cmd.Context(), categoryID) {
			fmt.Printf("%5d  %s\n", assetType.ID, assetType.Name)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <asset-id>",
	Short: "Delete an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assetID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid asset id %q", args[0])
		}

		log := newLogger()
		defer log.Sync()
		client := newClient(log)

		if client.Delete(cmd.Context(), assetID) {
			fmt.Println("Asset deleted.")
		} else {
			fmt.Println("Failed to delete asset.")
		}

		// Re-list after delete either way, mirroring the app's reload.
		for _, asset := range client.List(cmd.Context()) {
			fmt.Printf("%5d  %s\n", asset.ID, asset.Name)
		}
		return nil
	},
}
