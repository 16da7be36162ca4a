package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sproutcore/sproutcore-sub001/internal/manifest"
)

// NewManifestCommand creates the manifest command.
func NewManifestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "manifest <root>",
		Short: "Write the import manifest of a project",
		Long: `Write the project's scripts, in load order, as import statements.

The manifest goes to <root>/sc_imports.js unless scload.yaml names another
file. Resources such as stylesheets follow the scripts. An existing
manifest is overwritten and never scanned itself.

Example:
  scload manifest --mode production ./apps/todos`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifest(opts, args[0], cmd)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runManifest(opts *BuildOptions, root string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	plan, err := manifest.Emit(manifest.Options{
		Root:   root,
		Mode:   manifest.Mode(opts.Mode),
		Locale: opts.Locale,
		Logger: newLogger(opts.RootOptions, cmd.ErrOrStderr()),
	})
	if err != nil {
		return failure(formatter, err)
	}

	result := newPlanResult(plan)
	result.Manifest = plan.Path
	return formatter.SuccessLines(result, []string{
		fmt.Sprintf("✓ Wrote %d import(s) to %s", len(result.Order)+len(result.Resources), plan.Path),
	})
}
