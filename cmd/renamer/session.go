package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/justyntemme/renamer/internal/app"
	"github.com/justyntemme/renamer/internal/applog"
	"github.com/justyntemme/renamer/internal/config"
	"github.com/justyntemme/renamer/internal/fs"
	"github.com/justyntemme/renamer/internal/settings"
	"github.com/justyntemme/renamer/internal/store"
)

// session holds everything one command needs.
type session struct {
	cfg     config.Config
	filter  *fs.Filter
	log     *applog.Log
	sink    *zap.Logger
	journal *store.DB
	catalog *settings.Catalog
	model   *app.Model
}

// openConfig loads the config file named by --config or the default one.
func openConfig() *config.Manager {
	m := config.NewManager()
	if cfgFile != "" {
		m = config.NewManagerAt(cfgFile)
	}
	if err := m.Load(); err != nil {
		log.Printf("Config: using defaults: %v", err)
	} else if err := m.ParseError(); err != nil {
		log.Printf("Config: %s is invalid, using defaults: %v", m.Path(), err)
	}
	return m
}

// loadConfig returns the effective configuration for one run.
func loadConfig() config.Config {
	cfg := openConfig().Get()

	// Flags win over the file
	if settingsDir != "" {
		cfg.Settings.Dir = settingsDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if expandDirs {
		cfg.Analyzer.ExpandDirectories = true
	}
	if showHidden {
		cfg.Analyzer.ShowHidden = true
	}
	if noJournal {
		cfg.Journal.Enabled = false
	}
	return cfg
}

// openSession loads config, the settings catalog and the journal. With
// withModel it also creates the model; watch enables directory watching.
func openSession(withModel, watch bool) (*session, error) {
	s := &session{cfg: loadConfig()}
	if filterExpr != "" {
		f, err := fs.ParseFilter(filterExpr)
		if err != nil {
			return nil, err
		}
		s.filter = f
	}

	sink, err := applog.NewConsoleSink(s.cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	s.sink = sink
	s.log = applog.New(sink)
	s.log.SetKeep(s.cfg.Log.Keep)

	s.catalog = settings.NewCatalog(s.cfg.Settings.Dir)
	if err := s.catalog.Load(); err != nil {
		return nil, err
	}

	if s.cfg.Journal.Enabled {
		db := store.NewDB()
		if err := db.Open(s.cfg.Journal.Path); err != nil {
			log.Printf("Failed to open journal: %v", err)
		} else {
			go db.Start()
			s.journal = db
		}
	}

	if withModel {
		opts := app.Options{
			Watch:      watch && s.cfg.Watch.Enabled,
			DebounceMS: s.cfg.Watch.DebounceMS,
		}
		if s.journal != nil {
			opts.Journal = s.journal
		}
		m, err := app.NewModel(s.log, opts)
		if err != nil {
			s.close()
			return nil, err
		}
		s.model = m
	}
	return s, nil
}

func (s *session) analyzerOptions() fs.Options {
	return fs.Options{
		Expand:     s.cfg.Analyzer.ExpandDirectories,
		ShowHidden: s.cfg.Analyzer.ShowHidden,
		Filter:     s.filter,
	}
}

// addPaths analyses args and loads them into the model.
func (s *session) addPaths(args []string) error {
	abs := make([]string, 0, len(args))
	for _, a := range args {
		p, err := filepath.Abs(a)
		if err != nil {
			return err
		}
		abs = append(abs, p)
	}
	res := fs.Analyze(abs, s.analyzerOptions())
	if res.Empty() {
		return fmt.Errorf("no existing paths given")
	}
	return s.model.AddPaths(res)
}

// waitFor reads model events until one of types arrives.
func (s *session) waitFor(types ...app.EventType) (app.Event, error) {
	for ev := range s.model.Events() {
		for _, t := range types {
			if ev.Type == t {
				return ev, nil
			}
		}
	}
	return app.Event{}, fmt.Errorf("model closed")
}

func (s *session) close() {
	if s.model != nil {
		s.model.Close()
	}
	if s.journal != nil {
		s.journal.Close()
	}
	if s.cfg.Log.WriteOnExit && s.log.Len() > 0 {
		if p, err := s.log.WriteFile(s.cfg.Log.Dir, "renamer"); err != nil {
			log.Printf("Failed to write log: %v", err)
		} else {
			log.Printf("Log written to %s", p)
		}
		for _, category := range []string{applog.CategoryRename, applog.CategoryUndo} {
			if _, err := s.log.WriteCategory(s.cfg.Log.Dir, category); err != nil {
				log.Printf("Failed to write %s log: %v", category, err)
			}
		}
	}
	s.log.Sync()
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
