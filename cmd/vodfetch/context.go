package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"vodfetch/internal/logging"
	"vodfetch/internal/prefs"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	prefsOnce sync.Once
	prefsDoc  prefs.Document
	prefsPath string
	prefsErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

// prefsFilePath resolves the preference document location, honoring the
// --config flag.
func (c *commandContext) prefsFilePath() (string, error) {
	if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
		return strings.TrimSpace(*c.configFlag), nil
	}
	return prefs.DefaultPath()
}

// ensurePrefs loads (and on first run creates) the preference document.
func (c *commandContext) ensurePrefs() (prefs.Document, string, error) {
	c.prefsOnce.Do(func() {
		path, err := c.prefsFilePath()
		if err != nil {
			c.prefsErr = err
			return
		}
		doc, err := prefs.Load(path)
		if err != nil {
			c.prefsErr = fmt.Errorf("load preferences: %w", err)
			return
		}
		c.prefsDoc = doc
		c.prefsPath = path
	})
	return c.prefsDoc, c.prefsPath, c.prefsErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		level := ""
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		format := ""
		if c.logFormatFlag != nil {
			format = *c.logFormatFlag
		}
		logger, err := logging.New(logging.Options{Level: level, Format: format, Output: os.Stderr})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// stateDir is where run state (archive database, lock file) lives,
// alongside the preference document.
func (c *commandContext) stateDir() (string, error) {
	path, err := c.prefsFilePath()
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create state directory: %w", err)
	}
	return dir, nil
}
