package cli

import (
	"github.com/dmitrijs2005/docupload/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the docupload command with all subcommands attached.
func NewRootCommand(a *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "docupload",
		Short: "Upload documents through a negotiated storage endpoint.",
		Long: `docupload asks an information endpoint where each file should go and then
sends the file there as a multipart form. Files are uploaded in bounded
concurrent slices.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.config.Validate(); err != nil {
				return err
			}
			return a.ensureToken()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	a.config.BindFlags(flags)
	// The file itself is read by config.LoadConfig before flags are parsed.
	flags.StringVarP(&configPath, "config", "c", "", "JSON configuration file (also "+config.EnvConfigPath+")")
	flags.BoolVar(&a.askToken, "ask-token", false, "prompt for the token when none is configured")

	root.AddCommand(newUploadCommand(a))
	root.AddCommand(newHistoryCommand(a))
	return root
}
