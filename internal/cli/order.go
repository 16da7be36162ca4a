package cli

import (
	"github.com/spf13/cobra"

	"github.com/sproutcore/sproutcore-sub001/internal/extract"
	"github.com/sproutcore/sproutcore-sub001/internal/manifest"
)

// BuildOptions holds flags shared by order and manifest.
type BuildOptions struct {
	*RootOptions
	Mode   string
	Locale string
}

func (o *BuildOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Mode, "mode", "development", "build mode (development|test|production)")
	cmd.Flags().StringVar(&o.Locale, "locale", "", "BCP-47 locale tag (default en)")
}

// PlanResult is the JSON payload of order and manifest.
type PlanResult struct {
	Root        string               `json:"root"`
	Mode        string               `json:"mode"`
	Locale      string               `json:"locale"`
	LocaleDir   string               `json:"locale_dir,omitempty"`
	Order       []string             `json:"order"`
	Resources   []string             `json:"resources"`
	Dropped     []string             `json:"dropped,omitempty"`
	Diagnostics []extract.Diagnostic `json:"diagnostics,omitempty"`
	Manifest    string               `json:"manifest,omitempty"`
}

func newPlanResult(p *manifest.Plan) *PlanResult {
	res := &PlanResult{
		Root:        p.Root,
		Mode:        string(p.Mode),
		Locale:      p.Locale.String(),
		LocaleDir:   p.LocaleDir,
		Order:       p.RelativePaths(),
		Resources:   []string{},
		Diagnostics: p.Diagnostics,
	}
	for _, r := range p.Resources {
		res.Resources = append(res.Resources, r.RelativePath)
	}
	for _, ref := range p.Dropped {
		res.Dropped = append(res.Dropped, ref.Raw)
	}
	return res
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "order <root>",
		Short: "Print the load order of a project",
		Long: `Print every script of a project in the order a manifest would import it.

Nothing is written. The mode selects which directories and files are left
out; the locale selects which <locale>.lproj directory is included.

Example:
  scload order ./apps/todos
  scload order --mode production --locale fr ./apps/todos`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(opts, args[0], cmd)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runOrder(opts *BuildOptions, root string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	plan, err := manifest.Build(manifest.Options{
		Root:   root,
		Mode:   manifest.Mode(opts.Mode),
		Locale: opts.Locale,
		Logger: newLogger(opts.RootOptions, cmd.ErrOrStderr()),
	})
	if err != nil {
		return failure(formatter, err)
	}

	result := newPlanResult(plan)
	formatter.VerboseLog("%d script(s), %d resource(s), mode %s, locale %s",
		len(result.Order), len(result.Resources), result.Mode, result.Locale)
	return formatter.SuccessLines(result, result.Order)
}
