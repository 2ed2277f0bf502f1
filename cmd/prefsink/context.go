package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	prefsink "github.com/goliatone/go-prefsink"
)

type commandContext struct {
	homeFlag    *string
	verboseFlag *bool

	once   sync.Once
	logger *slog.Logger
	prefs  *prefsink.Preferences
}

func newCommandContext(homeFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		homeFlag:    homeFlag,
		verboseFlag: verboseFlag,
	}
}

// preferences builds the loader on first use so flags are already parsed.
func (c *commandContext) preferences(stderr io.Writer) *prefsink.Preferences {
	c.once.Do(func() {
		level := slog.LevelWarn
		if c.verboseFlag != nil && *c.verboseFlag {
			level = slog.LevelDebug
		}
		c.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

		resolverOpts := []prefsink.ResolverOption{prefsink.ResolverWithLogger(c.logger)}
		if home := c.home(); home != "" {
			resolverOpts = append(resolverOpts, prefsink.ResolverWithHome(home))
		}
		c.prefs = prefsink.New(
			prefsink.WithResolver(prefsink.NewResolver(resolverOpts...)),
			prefsink.WithLogger(c.logger),
		)
	})
	return c.prefs
}

func (c *commandContext) home() string {
	if c.homeFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.homeFlag)
}
