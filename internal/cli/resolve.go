package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/fma-project/fma-go/internal/config"
	"github.com/fma-project/fma-go/internal/pipeline"
	"github.com/fma-project/fma-go/internal/selection"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run one menu-request against a selection and print the result",
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("target", "selection", "menu-request target: selection, location or toolbar")
	resolveCmd.Flags().StringSlice("uri", nil, "selected entry URI (repeatable); file:// URIs resolved against the local filesystem")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	repo, pl, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	uris, _ := cmd.Flags().GetStringSlice("uri")
	raws := make([]selection.Raw, len(uris))
	for i, u := range uris {
		raws[i] = selection.Raw{URI: u}
	}

	target, _ := cmd.Flags().GetString("target")
	ctx := context.Background()

	var items []*pipeline.MenuItem
	var messages []string
	switch target {
	case "selection":
		items, messages, err = pl.GetFileItems(ctx, raws)
	case "location":
		items, messages, err = pl.GetBackgroundItems(ctx, raws)
	case "toolbar":
		items, messages, err = pl.GetToolbarItems(ctx, raws)
	default:
		return fmt.Errorf("unknown target %q (want selection, location or toolbar)", target)
	}
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	for _, m := range messages {
		fmt.Fprintln(os.Stderr, "message: "+m)
	}

	aligned := isatty.IsTerminal(os.Stdout.Fd())
	printMenu(items, 0, aligned)
	return nil
}

func printMenu(items []*pipeline.MenuItem, depth int, aligned bool) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		switch {
		case it.About:
			fmt.Printf("%s- %s (about)\n", indent, it.Label)
		case it.IsMenu:
			fmt.Printf("%s+ %s\n", indent, it.Label)
			printMenu(it.Children, depth+1, aligned)
		case aligned:
			fmt.Printf("%s- %-30s [%s]\n", indent, it.Label, it.Handle)
		default:
			fmt.Printf("%s- %s\t%s\n", indent, it.Label, it.Handle)
		}
	}
}
