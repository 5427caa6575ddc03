package commands

import (
	"github.com/spf13/cobra"

	"github.com/spherical/pdf-converter/cmd/pdf-converter/ui"
	"github.com/spherical/pdf-converter/internal/domain"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the accepted format tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(domain.SupportedTokens))
			for _, token := range domain.SupportedTokens {
				f, err := domain.ParseFormat(token)
				if err != nil {
					return err
				}
				rows = append(rows, []string{token, "." + f.Extension(token), f.ContentType()})
			}
			ui.Table(cmd.OutOrStdout(), []string{"TOKEN", "EXTENSION", "CONTENT TYPE"}, rows)
			return nil
		},
	}
}
