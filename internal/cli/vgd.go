package cli

import (
	"fmt"
	"os"

	"github.com/frankiebaffa/vg/internal/debug"
	"github.com/frankiebaffa/vg/internal/deploy"
	"github.com/frankiebaffa/vg/internal/version"
	"github.com/spf13/cobra"
)

// vgd command flags
var (
	vgdImplementations []string
	vgdCachedItems     []string
	vgdNoCache         bool
	vgdReadOnly        bool
	vgdTiming          bool
	vgdBenchmark       int
	vgdCacheInfo       bool
	vgdVerbose         bool
)

// vgdCmd is the multi-file compiler/copier.
var vgdCmd = &cobra.Command{
	Use:   "vgd [flags] [CONFIG]",
	Short: "Bulk compile, copy, and deploy vg templates",
	Long: `vgd runs the compile and copy actions described by a configuration
file. CONFIG defaults to ./vg.json; files ending in .yaml or .yml are parsed
as YAML.

Use "vgd example-config" to print a starting configuration, or "vgd init"
to build one interactively.`,
	Args:          cobra.MaximumNArgs(1),
	Version:       versionString(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetDebug(globalDebug)
		debug.SetNoColor(globalNoColor)
	},
	RunE: runVGD,
}

// versionString composes the stamped build metadata for --version.
func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)",
		version.Version, version.GitCommit, version.BuildDate)
}

// exampleConfigCmd prints a configuration demonstrating every action kind.
var exampleConfigCmd = &cobra.Command{
	Use:   "example-config",
	Short: "Print an example configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		example, err := deploy.MarshalExample()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), example)
		return nil
	},
}

func init() {
	vgdCmd.Flags().StringArrayVarP(&vgdImplementations, "implementation", "i", nil,
		"Globally include an implementation for a variable (key:value)")
	vgdCmd.Flags().StringArrayVarP(&vgdCachedItems, "cached", "m", nil,
		"Faux page to add to the cache (path-from-root:content)")
	vgdCmd.Flags().BoolVarP(&vgdNoCache, "no-cache", "n", false, "Disable cache")
	vgdCmd.Flags().BoolVarP(&vgdReadOnly, "read-only", "r", false,
		"Only read the configuration for validation, do not act")
	vgdCmd.Flags().BoolVarP(&vgdTiming, "timing", "t", false, "Include timing information")
	vgdCmd.Flags().IntVarP(&vgdBenchmark, "benchmark", "b", 0,
		"Repeat the actions n times; with --timing, include benchmark information")
	vgdCmd.Flags().BoolVarP(&vgdCacheInfo, "cache-info", "a", false, "Include caching information")
	vgdCmd.Flags().BoolVarP(&vgdVerbose, "verbose", "v", false, "Print verbose messages")
	vgdCmd.PersistentFlags().BoolVar(&globalNoColor, "no-color", false, "Disable colored output")
	vgdCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "Enable debug output")

	vgdCmd.AddCommand(exampleConfigCmd)
	vgdCmd.AddCommand(initCmd)
}

func runVGD(cmd *cobra.Command, args []string) error {
	configPath := "./vg.json"
	if len(args) > 0 {
		configPath = args[0]
	}

	debug.Value("[vgd] config", configPath)

	cfg, err := deploy.NewLoader().Load(configPath)
	if err != nil {
		return err
	}

	if vgdReadOnly {
		return nil
	}

	report, err := deploy.Run(cfg, deploy.RunOptions{
		Implementations: parseImplementations(vgdImplementations),
		CachedItems:     parseCachedItems(vgdCachedItems),
		NoCache:         vgdNoCache,
		Verbose:         vgdVerbose,
		Timing:          vgdTiming,
		Benchmark:       vgdBenchmark,
		CacheInfo:       vgdCacheInfo,
		Out:             cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	printReport(cmd, report)

	return nil
}

// printReport renders benchmark, timing, and cache statistics.
func printReport(cmd *cobra.Command, report *deploy.Report) {
	out := cmd.OutOrStdout()

	didBench := false
	if vgdBenchmark > 0 && vgdTiming {
		const (
			totalKey = "Total"
			avgKey   = "Average"
			maxKey   = "Maximum"
			minKey   = "Minimum"
		)

		total := 0.0
		min, max := report.Runs[0], report.Runs[0]
		for _, run := range report.Runs {
			total += run
			if run < min {
				min = run
			}
			if run > max {
				max = run
			}
		}

		padding := len(fmt.Sprintf("%d", len(report.Runs)))
		for _, key := range []string{totalKey, avgKey, maxKey, minKey} {
			if len(key) > padding {
				padding = len(key)
			}
		}

		for idx, run := range report.Runs {
			fmt.Fprintf(out, "%-*d: %vs\n", padding, idx+1, run)
		}

		fmt.Fprintf(out, "%-*s: %vs\n", padding, totalKey, total)
		fmt.Fprintf(out, "%-*s: %vs\n", padding, avgKey, total/float64(len(report.Runs)))
		fmt.Fprintf(out, "%-*s: %vs\n", padding, minKey, min)
		fmt.Fprintf(out, "%-*s: %vs\n", padding, maxKey, max)
		didBench = true
	} else if vgdTiming {
		total := 0.0
		for _, run := range report.Runs {
			total += run
		}
		fmt.Fprintf(out, "%vs\n", total)
	}

	if vgdCacheInfo && report.CacheDetails != nil && !vgdNoCache {
		if didBench {
			fmt.Fprintln(out)
		}

		padding := 0
		for _, detail := range report.CacheDetails {
			if l := len(fmt.Sprintf("%q", detail.Path)); l > padding {
				padding = l
			}
		}
		padding++

		for _, detail := range report.CacheDetails {
			fmt.Fprintf(out, "%-*s: %d\n", padding, fmt.Sprintf("%q", detail.Path), detail.Hits)
		}
	}
}

// ExecuteVGD runs the vgd command. Called by main.main.
func ExecuteVGD() {
	if err := vgdCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
