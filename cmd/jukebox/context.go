package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"jukebox/internal/config"
	"jukebox/internal/logger"
	"jukebox/internal/provider/acoustid"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     config.Config
	configErr  error

	logOnce sync.Once
	log     *logger.Logger
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadConfigFile(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verboseFlag != nil && *c.verboseFlag {
			cfg.Verbose = true
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger returns the shared logger. Console output goes to stderr so stdout
// carries only results; everything also lands in a rotating log file.
func (c *commandContext) logger() *logger.Logger {
	c.logOnce.Do(func() {
		cfg := c.config
		c.log = logger.NewWithWriter(cfg.Verbose, os.Stderr)

		path := cfg.LogFile
		if path == "" {
			path = config.GetDefaultLogPath()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
			return
		}
		if err := c.log.SetFileLog(path, cfg.LogMaxSizeMB); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			return
		}
		c.log.Debug("Logging to file: %s", path)
	})
	return c.log
}

func (c *commandContext) close() {
	if c.log != nil {
		c.log.Close()
	}
}

// explain adds a hint for errors a user can fix themselves.
func explain(err error) error {
	if acoustid.IsInvalidClient(err) {
		return fmt.Errorf("%w\nhint: check acoustid_client_id or %s (register at https://acoustid.org/new-application)", err, config.ClientIDEnv)
	}
	return err
}

var errSomeFailed = errors.New("some files could not be identified")

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
