//go:build debug

// Package debug provides a centralized, categorized debug logging system.
// Build with -tags debug to enable logging.
package debug

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Enabled indicates whether debug logging is active
const Enabled = true

// Category represents a debug logging category
type Category string

const (
	// Core categories
	APP      Category = "APP"      // Model orchestration, worker exclusion, events
	BUILD    Category = "BUILD"    // Builder chain execution
	PATH     Category = "PATH"     // Entity collection mutations, rename/undo
	WORKER   Category = "WORKER"   // Background generation/rename/undo passes
	FS       Category = "FS"       // Path analysis and directory listing
	STORE    Category = "STORE"    // Journal database operations
	SETTINGS Category = "SETTINGS" // INI settings files and catalog
	UI       Category = "UI"       // Terminal view events

	// Detailed subcategories (use sparingly - can be verbose)
	BUILD_STEP Category = "BUILD_STEP" // Every single builder invocation (very verbose)
	FS_ENTRY   Category = "FS_ENTRY"   // Individual entry processing
)

var (
	// enabledCategories controls which categories are active
	enabledCategories = map[Category]bool{
		APP:      true,
		BUILD:    true,
		PATH:     true,
		WORKER:   true,
		FS:       true,
		STORE:    true,
		SETTINGS: true,
		UI:       true,
		// Verbose categories disabled by default
		BUILD_STEP: false,
		FS_ENTRY:   false,
	}
	categoryMu sync.RWMutex

	logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
)

func init() {
	// Format: RENAMER_DEBUG=APP,PATH or RENAMER_DEBUG=all or RENAMER_DEBUG=none
	if env := os.Getenv("RENAMER_DEBUG"); env != "" {
		categoryMu.Lock()
		defer categoryMu.Unlock()

		env = strings.ToUpper(env)
		switch env {
		case "ALL":
			for cat := range enabledCategories {
				enabledCategories[cat] = true
			}
		case "NONE":
			for cat := range enabledCategories {
				enabledCategories[cat] = false
			}
		default:
			for cat := range enabledCategories {
				enabledCategories[cat] = false
			}
			for _, cat := range strings.Split(env, ",") {
				enabledCategories[Category(strings.TrimSpace(cat))] = true
			}
		}
	}
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	categoryMu.RLock()
	enabled := enabledCategories[cat]
	categoryMu.RUnlock()

	if !enabled {
		return
	}

	logger.Printf("[%s] %s", cat, fmt.Sprintf(format, args...))
}

// Enable enables a debug category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// Disable disables a debug category
func Disable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = false
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}

// EnableAll enables all debug categories including verbose ones
func EnableAll() {
	categoryMu.Lock()
	for cat := range enabledCategories {
		enabledCategories[cat] = true
	}
	categoryMu.Unlock()
}
