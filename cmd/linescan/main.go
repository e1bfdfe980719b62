// Package main is the entry point for the linescan binary.
// It runs line detection on bar readings given on the command line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/line-sensor-mcp/internal/config"
	"github.com/ironsheep/line-sensor-mcp/internal/detection"
	"github.com/ironsheep/line-sensor-mcp/internal/logging"
	"github.com/ironsheep/line-sensor-mcp/internal/sensor"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	profile    string
	active     string
	minBorder  int
	minLine    int
	blur       string
}

// newRootCmd creates the root command for linescan
func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "linescan",
		Short: "Detect lines on a 32-cell line-sensor bar",
		Long: `linescan finds runs of active cells on a line-sensor bar reading.

A reading has one symbol per cell, cell 0 first, for example:
  linescan find 00011010000001010111111000000001 --min-border 1 --blur blur
  linescan find 00034020000002130334433430000006 --active 34 --blur blur --min-line 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (YAML)")
	pf.StringVarP(&opts.logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	pf.StringVarP(&opts.profile, "profile", "p", "", "Detection profile")
	pf.StringVarP(&opts.active, "active", "a", "", "Symbols counted as active cells")

	rootCmd.AddCommand(newFindCmd(opts), newSplitCmd(opts))
	return rootCmd
}

func newFindCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <reading>",
		Short: "Print border-validated lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, opts, args[0])
		},
	}
	cmd.Flags().IntVar(&opts.minBorder, "min-border", 0, "Borders need more than this many inactive cells")
	cmd.Flags().IntVar(&opts.minLine, "min-line", 0, "Lines need more than this many active cells")
	cmd.Flags().StringVar(&opts.blur, "blur", "", "Noise filter (none, blur, weak, strong)")
	return cmd
}

func newSplitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "split <reading>",
		Short: "Print every run of active cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := loadProfile(cmd, opts)
			if err != nil {
				return err
			}
			w, err := parseReading(opts, p, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  data: %s\n", w)
			for _, run := range detection.Split(w) {
				fmt.Fprintf(out, "  run: %s\n", run)
			}
			return nil
		},
	}
}

func runFind(cmd *cobra.Command, opts *options, reading string) error {
	cfg, p, err := loadProfile(cmd, opts)
	if err != nil {
		return err
	}
	w, err := parseReading(opts, p, reading)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("min-border") {
		p.MinBorder = opts.minBorder
	}
	if flags.Changed("min-line") {
		p.MinLine = opts.minLine
	}
	if flags.Changed("blur") {
		p.Blur = opts.blur
	}
	if err := p.Validate(); err != nil {
		return err
	}
	d, err := p.Detector()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging.Level, cmd.ErrOrStderr())
	logger.Debug("detecting", "min_border", d.MinBorder, "min_line", d.MinLine, "blur", d.Blur.String())

	res := d.Detect(w)
	printResult(cmd.OutOrStdout(), res)
	return nil
}

func printResult(out io.Writer, res detection.Result) {
	fmt.Fprintf(out, "  data: %s\n", res.Filtered)
	for _, line := range sensor.FormatLines(res.Lines) {
		fmt.Fprintf(out, "  line: %s\n", line)
	}
}

// loadProfile loads the configuration and applies the log-level flag.
func loadProfile(cmd *cobra.Command, opts *options) (*config.Config, config.Profile, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, config.Profile{}, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	p, err := cfg.Profile(opts.profile)
	if err != nil {
		return nil, config.Profile{}, err
	}
	return cfg, p, nil
}

func parseReading(opts *options, p config.Profile, reading string) (detection.Word, error) {
	active := opts.active
	if active == "" {
		active = p.Active
	}
	return sensor.Parse(reading, active)
}
