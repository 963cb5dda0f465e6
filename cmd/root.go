package cmd

import (
	"fmt"
	"os"

	"github.com/samsaffron/prqldoc/internal/signal"
	"github.com/samsaffron/prqldoc/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/prqldoc/prqldoc.yaml)")
	flags.BoolVar(&opts.debug, "debug", false, "Log every processed block to stderr")

	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the rewritten document to a file instead of stdout")
	rootCmd.Flags().StringVar(&opts.tag, "tag", "", "Fence language of PRQL samples (overrides config)")
	rootCmd.Flags().BoolVar(&opts.sample, "sample", false, "Rewrite the built-in sample document")
	rootCmd.Flags().BoolVar(&opts.preview, "preview", false, "Render the result for the terminal instead of emitting Markdown")
	rootCmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on unknown block modes instead of evaluating them")
}

var rootCmd = &cobra.Command{
	Use:   "prqldoc [file]",
	Short: "Render PRQL samples in Markdown docs next to their SQL",
	Long: `prqldoc rewrites a Markdown document so that every prql code block is
shown next to the SQL it compiles to, the error it raises, or the rows it
returns. The input is read from the file argument or stdin.

Block modes:
  ` + "```prql" + `            compile and show PRQL | SQL
  ` + "```prql error" + `      expect a compile error and show PRQL | Error
  ` + "```prql table" + `      compile, run the SQL and show PRQL | Result
  ` + "```prql no-eval" + `    show the sample as is
  ` + "```prql no-test" + `    show the sample as is

Examples:
  prqldoc docs/intro.md -o build/intro.md
  prqldoc --sample --preview
  cat page.md | prqldoc --strict > out.md

  prqldoc config init                 # write a default config file`,
	Args:              cobra.MaximumNArgs(1),
	SilenceErrors:     true,
	SilenceUsage:      true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext()
		defer stop()
		return run(ctx, opts, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var opts runOptions

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.DefaultStyles().FormatError(err))
		os.Exit(1)
	}
}
