package cli

import (
	"fmt"
	"os"

	"github.com/frankiebaffa/vg"
	"github.com/frankiebaffa/vg/internal/debug"
	"github.com/spf13/cobra"
)

// vgc command flags
var (
	vgcNoCache         bool
	vgcImplementations []string
	vgcCachedItems     []string
)

// vgcCmd is the single-file compiler.
var vgcCmd = &cobra.Command{
	Use:   "vgc [flags] ROOT TARGET",
	Short: "Compile a single vg template",
	Long: `vgc compiles one vg template to stdout.

ROOT is the directory absolute template paths resolve against; TARGET is the
template to compile. Variables may be pre-seeded with --implementation and
faux pages added to the cache with --cached.`,
	Args:          cobra.ExactArgs(2),
	Version:       versionString(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetDebug(globalDebug)
		debug.SetNoColor(globalNoColor)
	},
	RunE: runVGC,
}

func init() {
	vgcCmd.Flags().BoolVarP(&vgcNoCache, "no-cache", "n", false, "Disable caching")
	vgcCmd.Flags().StringArrayVarP(&vgcImplementations, "implementation", "i", nil,
		"Variable implementation to pass through the parser (key:value)")
	vgcCmd.Flags().StringArrayVarP(&vgcCachedItems, "cached", "c", nil,
		"Faux page to add to the cache (path-to-file:content)")
	vgcCmd.PersistentFlags().BoolVar(&globalNoColor, "no-color", false, "Disable colored output")
	vgcCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "Enable debug output")
}

func runVGC(cmd *cobra.Command, args []string) error {
	root, target := args[0], args[1]

	implementations := parseImplementations(vgcImplementations)

	var output string
	var err error

	if vgcNoCache {
		output, err = vg.CompileImplementedNoCache(root, target, implementations)
	} else {
		cache := vg.NewFileCache()

		for _, item := range parseCachedItems(vgcCachedItems) {
			cache.Insert(vg.RebasePath(root, item.Base, item.Path), item.Content)
		}

		output, err = vg.CompileImplementedWithCache(root, target, implementations, cache)
	}

	if err != nil {
		if vg.IsIgnored(err) {
			printNotice(fmt.Sprintf("%q is ignored", target))
			return nil
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)

	return nil
}

// ExecuteVGC runs the vgc command. Called by main.main.
func ExecuteVGC() {
	if err := vgcCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
