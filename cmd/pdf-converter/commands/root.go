// Package commands implements the pdf-converter CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/spherical/pdf-converter/cmd/pdf-converter/ui"
)

type rootOptions struct {
	cfgFile string
	noColor bool
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "pdf-converter",
		Short:   "Convert PDF documents to Word, Excel, HTML and images",
		Version: version,
		Long: `pdf-converter turns a PDF into another document format, either as an
HTTP service (serve) or for a single local file (convert).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				ui.DisableColor()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newConvertCmd(opts))
	cmd.AddCommand(newFormatsCmd())

	return cmd
}

// Execute runs the root command.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}
