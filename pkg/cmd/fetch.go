package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/clirack/clirack/pkg/loader"
	"github.com/clirack/clirack/pkg/stats"
	"github.com/clirack/clirack/pkg/table"
)

func newFetchCmd() *cobra.Command {
	var flagForce bool

	fetchCmd := &cobra.Command{
		Use:   "fetch [locator]",
		Short: "Fetch a resource into the cache",
		Long: `Fetches the resource identified by the locator into the local cache,
or reports the cached copy when it is still fresh.

Locator formats:
  local:<path>
  git:<url>[@<ref>]
  github:<owner>/<repo>[@<ref>]`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locator, err := resolveLocatorArg(args)
			if err != nil {
				return err
			}
			return runFetch(cmd, locator, flagForce)
		},
	}

	fetchCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "refetch even if a fresh cached copy exists")
	return fetchCmd
}

// resolveLocatorArg returns the locator from args, prompting interactively
// when none was supplied.
func resolveLocatorArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	var locator string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Locator to fetch").
				Placeholder("github:owner/repo@main").
				Validate(func(s string) error {
					if loader.Default().GetForLocator(s) == nil {
						return fmt.Errorf("no loader can handle %q", s)
					}
					return nil
				}).
				Value(&locator),
		),
	).Run()
	if err != nil {
		return "", fmt.Errorf("locator prompt failed: %w", err)
	}
	return locator, nil
}

func runFetch(cmd *cobra.Command, locator string, force bool) error {
	timer := stats.NewTimer(true)
	meta, err := loader.Load(locator, nil, force)
	if err != nil {
		return err
	}
	timer.Stop()

	t := table.New("Name", "Type", "Path", "Target path", "Is file", "Fetched at")
	t.Append(
		meta.Locator.Name(),
		meta.Locator.Type(),
		meta.Path,
		meta.TargetPath,
		strconv.FormatBool(meta.IsFile),
		meta.Timestamp.Format("2006-01-02 15:04:05"),
	)
	if err := t.Print(cmd.OutOrStdout()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Done in %s\n", timer.Format())
	return nil
}
