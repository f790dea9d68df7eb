package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/justyntemme/renamer/internal/app"
	"github.com/justyntemme/renamer/internal/path"
	"github.com/justyntemme/renamer/internal/settings"
	"github.com/justyntemme/renamer/internal/ui"
)

var (
	historyLimit int
	historyBatch string
)

var tuiCmd = &cobra.Command{
	Use:   "tui [paths...]",
	Short: "Open the interactive renamer",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true, true)
		if err != nil {
			return err
		}
		defer s.close()

		chain, err := resolveChain(cmd, s.catalog, s.cfg.Settings.LoadFirst)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			if err := s.addPaths(args); err != nil {
				return err
			}
		}
		if err := ui.Run(s.model, chain, ui.Options{Analyzer: s.analyzerOptions(), Dark: s.cfg.UI.Theme != "light"}); err != nil {
			return err
		}
		if s.cfg.Settings.SaveLastTime {
			if err := s.catalog.SaveAsLastTime(chain); err != nil {
				return fmt.Errorf("save last time settings: %w", err)
			}
		}
		return nil
	},
}

// generate loads args and builds new names, returning the collision count.
func generate(cmd *cobra.Command, s *session, args []string) (int, error) {
	chain, err := resolveChain(cmd, s.catalog, s.cfg.Settings.LoadFirst)
	if err != nil {
		return 0, err
	}
	if chain.IsEmpty() {
		return 0, errors.New("no builders: pass builder flags or --settings")
	}
	if err := s.addPaths(args); err != nil {
		return 0, err
	}
	if err := s.model.StartGenerate(chain); err != nil {
		return 0, err
	}
	ev, err := s.waitFor(app.ReadyToRename)
	if err != nil {
		return 0, err
	}
	if err := s.catalog.SaveAsLastUsed(chain); err != nil {
		return 0, fmt.Errorf("save last used settings: %w", err)
	}
	return ev.Collisions, nil
}

func printEntities(root *path.Root) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tNAME\tNEW NAME\tSIZE")
	for _, e := range root.Entities() {
		size := "-"
		if info, err := e.Stat(); err == nil && !e.IsDir() {
			size = humanize.Bytes(uint64(info.Size()))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.StateText(), e.FullPath(), e.NewName(), size)
	}
	w.Flush()
}

var previewCmd = &cobra.Command{
	Use:   "preview paths...",
	Short: "Show the new names without renaming",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true, false)
		if err != nil {
			return err
		}
		defer s.close()

		collisions, err := generate(cmd, s, args)
		if err != nil {
			return err
		}
		printEntities(s.model.Root())
		if collisions > 0 {
			return fmt.Errorf("%d entries share a new name", collisions)
		}
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename paths...",
	Short: "Rename the given files and directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true, false)
		if err != nil {
			return err
		}
		defer s.close()

		collisions, err := generate(cmd, s, args)
		if err != nil {
			return err
		}
		if collisions > 0 {
			fmt.Fprintf(os.Stderr, "%d entries share a new name and will be skipped\n", collisions)
		}
		batch, err := s.model.StartRename()
		if err != nil {
			return err
		}
		if _, err := s.waitFor(app.RenameFinished, app.RenameStopped); err != nil {
			return err
		}
		printEntities(s.model.Root())

		failed := 0
		for _, e := range s.model.Root().Entities() {
			if e.State() == path.Failure {
				failed++
				fmt.Fprintln(os.Stderr, e.StatusText())
			}
		}
		if s.journal != nil {
			fmt.Printf("journal batch %s\n", batch)
		}
		if failed > 0 {
			return fmt.Errorf("%d renames failed", failed)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled rename batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false, false)
		if err != nil {
			return err
		}
		defer s.close()
		if s.journal == nil {
			return errors.New("journal is disabled")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()
		if historyBatch != "" {
			entries, err := s.journal.Entries(historyBatch)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "TIME\tOP\tOK\tFROM\tTO")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%v\t%s%s\t%s\n", formatTime(e.Time), e.Op, e.OK, e.Parent, e.From, e.To)
			}
			return nil
		}

		batches, err := s.journal.Batches(historyLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "BATCH\tOP\tSTARTED\tENTRIES\tFAILED")
		for _, b := range batches {
			fmt.Fprintf(w, "%s\t%s\t%s (%s)\t%d\t%d\n", b.ID, b.Op, formatTime(b.Started), humanize.Time(b.Started), b.Count, b.Failed)
		}
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage saved builder settings",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false, false)
		if err != nil {
			return err
		}
		defer s.close()
		for row, name := range s.catalog.Names() {
			if row == 0 {
				continue
			}
			marker := ""
			if !s.catalog.IsEditable(row) {
				marker = " (auto)"
			}
			fmt.Printf("%s%s\n", name, marker)
		}
		return nil
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show name",
	Short: "Print the builders of saved settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false, false)
		if err != nil {
			return err
		}
		defer s.close()
		row := s.catalog.RowOf(args[0])
		if row < 0 {
			return fmt.Errorf("%w: %q", settings.ErrNotFound, args[0])
		}
		chain, err := s.catalog.LoadChain(row)
		if err != nil {
			return err
		}
		fmt.Println(chain.Describe())
		return nil
	},
}

var settingsRemoveCmd = &cobra.Command{
	Use:   "remove name",
	Short: "Move saved settings to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false, false)
		if err != nil {
			return err
		}
		defer s.close()
		row := s.catalog.RowOf(args[0])
		if row < 0 {
			return fmt.Errorf("%w: %q", settings.ErrNotFound, args[0])
		}
		return s.catalog.Remove(row)
	},
}

var settingsRenameCmd = &cobra.Command{
	Use:   "rename old new",
	Short: "Rename saved settings",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(false, false)
		if err != nil {
			return err
		}
		defer s.close()
		row := s.catalog.RowOf(args[0])
		if row < 0 {
			return fmt.Errorf("%w: %q", settings.ErrNotFound, args[0])
		}
		_, err = s.catalog.Rename(row, args[1])
		return err
	},
}

var settingsDefaultCmd = &cobra.Command{
	Use:   "default [name]",
	Short: "Use saved settings when no builder flags are given",
	Long:  "Select the saved settings applied when no builder flags are given. Without a name the selection is cleared.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			s, err := openSession(false, false)
			if err != nil {
				return err
			}
			defer s.close()
			if s.catalog.RowOf(args[0]) <= 0 {
				return fmt.Errorf("%w: %q", settings.ErrNotFound, args[0])
			}
			name = args[0]
		}
		return openConfig().SetLoadFirst(name)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of batches to list")
	historyCmd.Flags().StringVar(&historyBatch, "batch", "", "show the entries of one batch")
}
