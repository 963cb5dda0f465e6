package cmd

import (
	"fmt"

	"github.com/samsaffron/prqldoc/internal/config"
	"github.com/samsaffron/prqldoc/internal/signal"
	"github.com/samsaffron/prqldoc/internal/site"
	"github.com/samsaffron/prqldoc/internal/ui"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <src-dir> <out-dir>",
	Short: "Rewrite every page of a docs tree",
	Long: `Rewrite every Markdown page under src-dir into the same path under
out-dir. Pages are selected by build.include and build.exclude. No page is
written unless every page was rewritten.

Examples:
  prqldoc build docs build/docs
  prqldoc build docs out --include 'reference/**/*.md' --exclude 'drafts/**'`,
	Args: cobra.ExactArgs(2),
	RunE: runBuild,
}

var (
	buildInclude string
	buildExclude []string
	buildStrict  bool
)

func init() {
	buildCmd.Flags().StringVar(&buildInclude, "include", "", "Pages to rewrite (default from config, **/*.md)")
	buildCmd.Flags().StringSliceVar(&buildExclude, "exclude", nil, "Pages to skip (repeatable)")
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "Fail on unknown block modes instead of evaluating them")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()
	setupLogging(cmd.ErrOrStderr(), opts.debug)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyOverrides("", buildStrict)

	rw, closeResults, err := newRewriter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeResults()

	siteOpts := site.Options{
		SrcDir:  args[0],
		OutDir:  args[1],
		Include: cfg.Build.Include,
		Exclude: append(cfg.Build.Exclude, buildExclude...),
	}
	if buildInclude != "" {
		siteOpts.Include = buildInclude
	}

	pages, err := site.Build(ctx, rw, siteOpts)
	if err != nil {
		return err
	}

	styles := ui.NewStyles(cmd.ErrOrStderr())
	for _, page := range pages {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", styles.FormatStats(page.Stats), page.Path)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), styles.Muted.Render(fmt.Sprintf("%d pages written to %s", len(pages), args[1])))
	return nil
}
