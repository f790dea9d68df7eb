package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Persistent flags
var (
	cfgFile     string
	settingsDir string
	logLevel    string
	expandDirs  bool
	showHidden  bool
	filterExpr  string
	noJournal   bool
)

var rootCmd = &cobra.Command{
	Use:   "renamer",
	Short: "Batch file renamer",
	Long: `renamer builds new names for many files at once from a chain of builders
(original name, inserted text, replacements, counters, hashes), previews them,
renames in place and can undo the last run.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("renamer v%s\n", version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.config/renamer/config.json)")
	pf.StringVar(&settingsDir, "settings-dir", "", "directory of saved builder settings")
	pf.StringVar(&logLevel, "log-level", "", "application log level (debug, info, warn, error)")
	pf.BoolVar(&expandDirs, "expand", false, "also add the direct children of given directories")
	pf.BoolVar(&showHidden, "hidden", false, "include dot entries when expanding directories")
	pf.StringVar(&filterExpr, "filter", "", `keep only matching children when expanding, e.g. "ext:jpg size:>1MB"`)
	pf.BoolVar(&noJournal, "no-journal", false, "do not record renames in the journal")

	addChainFlags(previewCmd)
	addChainFlags(renameCmd)
	addChainFlags(tuiCmd)

	settingsCmd.AddCommand(settingsListCmd, settingsShowCmd, settingsRenameCmd, settingsRemoveCmd, settingsDefaultCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(tuiCmd, previewCmd, renameCmd, historyCmd, settingsCmd, configCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
