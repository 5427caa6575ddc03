package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/pdf-converter/cmd/pdf-converter/ui"
	"github.com/spherical/pdf-converter/internal/api"
	"github.com/spherical/pdf-converter/internal/config"
	"github.com/spherical/pdf-converter/internal/convert"
	"github.com/spherical/pdf-converter/internal/domain"
)

type convertOptions struct {
	format  string
	output  string
	timeout time.Duration
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <file.pdf>",
		Short: "Convert a local PDF file",
		Long: `Convert a local PDF file with the same strategies the HTTP service uses.
Without --output the result is written next to the input as <name>.converted.<ext>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", string(domain.DefaultFormat), "target format ("+strings.Join(domain.SupportedTokens, ", ")+")")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "conversion deadline (defaults to convert.timeout)")

	return cmd
}

func runConvert(cmd *cobra.Command, root *rootOptions, opts *convertOptions, input string) error {
	cfg, err := config.Load(root.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dispatcher := convert.NewDefaultDispatcher(api.ImageOptions(cfg.Convert))
	format, converter, err := dispatcher.Resolve(opts.format)
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = defaultOutputPath(input, format.Extension(opts.format))
	}
	if samePath(input, output) {
		return domain.ValidationError("output would overwrite the input file", nil)
	}

	timeout := opts.timeout
	if timeout <= 0 {
		timeout = cfg.Convert.Timeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	s := ui.NewSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Converting %s to %s...", filepath.Base(input), format))
	s.Start()
	start := time.Now()
	produced, err := converter.Convert(ctx, input, output)
	s.Stop()

	if err != nil {
		ui.Error(cmd.ErrOrStderr(), "Conversion failed: %v", err)
		return err
	}

	ui.Success(cmd.OutOrStdout(), "Converted %s -> %s (%s, %s)", input, produced, format, time.Since(start).Round(time.Millisecond))
	return nil
}

func defaultOutputPath(input, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".converted." + ext
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
