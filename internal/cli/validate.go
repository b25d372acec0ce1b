package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/fma-project/fma-go/internal/config"
	"github.com/fma-project/fma-go/internal/model"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the action repository once and report invalid items",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// Validation wants to see every root a provider can produce, not just
	// the ones a live menu-request would load.
	cfg.LoadDisabled = true
	cfg.LoadInvalid = true

	logger := log.New(os.Stderr, "", log.LstdFlags)
	repo, _, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	snap := repo.Current()
	var invalid []string
	for _, root := range snap.Roots {
		walkValidity(root, &invalid)
	}

	if len(invalid) == 0 {
		fmt.Printf("%d root(s) loaded, no invalid items\n", len(snap.Roots))
		return nil
	}

	fmt.Printf("%d root(s) loaded, %d invalid item(s):\n", len(snap.Roots), len(invalid))
	for _, line := range invalid {
		fmt.Println("  " + line)
	}
	os.Exit(1)
	return nil
}

func walkValidity(item *model.Item, invalid *[]string) {
	if !model.IsValid(item) {
		*invalid = append(*invalid, fmt.Sprintf("%s %q (id=%s)", item.Kind, item.Label, item.ID))
	}
	switch item.Kind {
	case model.KindMenu:
		for _, child := range item.Menu.Children {
			walkValidity(child, invalid)
		}
	case model.KindAction:
		for _, prof := range item.Action.Profiles {
			walkValidity(prof, invalid)
		}
	}
}
