package services

import (
	"context"
	"time"

	"kapsel/internal/bundle"
	"kapsel/internal/cache"
	"kapsel/internal/command"
	"kapsel/internal/config"
	"kapsel/internal/env"
	"kapsel/internal/logger"
	"kapsel/internal/models"
	"kapsel/internal/platform"
	"kapsel/internal/proc"
)

/**
 * Plan is the outcome of every stage that precedes the spawn
 * @property {*models.LaunchConfig} Config - Launch configuration from the manifest
 * @property {*models.CacheLayout} Layout - Materialized cache
 * @property {models.LaunchCommand} Command - Runtime command line
 */
type Plan struct {
	Config  *models.LaunchConfig
	Layout  *models.CacheLayout
	Command models.LaunchCommand
}

/**
 * Launcher runs the launch pipeline
 * @description
 * - platform -> config -> materialize -> command -> run
 * - Each stage only starts once the previous one succeeded
 */
type Launcher struct {
	settings *config.Settings
	kind     platform.Kind
	bundle   *bundle.Bundle
	metrics  *LaunchMetrics
}

func NewLauncher(s *config.Settings) *Launcher {
	return &Launcher{
		settings: s,
		kind:     platform.Resolve(),
		metrics:  NewLaunchMetrics(),
	}
}

// WithBundle makes the launcher read from b instead of opening the configured bundle.
func (l *Launcher) WithBundle(b *bundle.Bundle) *Launcher {
	l.bundle = b
	return l
}

// WithPlatform overrides the detected platform.
func (l *Launcher) WithPlatform(kind platform.Kind) *Launcher {
	l.kind = kind
	return l
}

func (l *Launcher) Metrics() *LaunchMetrics {
	return l.metrics
}

func (l *Launcher) openBundle() (*bundle.Bundle, func(), error) {
	if l.bundle != nil {
		return l.bundle, func() {}, nil
	}
	b, err := l.OpenBundle()
	if err != nil {
		return nil, nil, err
	}
	logger.Debugf("bundle: %s", b.Path)
	return b, func() { b.Close() }, nil
}

// LoadConfig reads the launch configuration from the bundle.
func (l *Launcher) LoadConfig() (*models.LaunchConfig, error) {
	b, done, err := l.openBundle()
	if err != nil {
		return nil, err
	}
	defer done()
	return b.LaunchConfig()
}

// Layout resolves the cache layout of cfg without creating anything.
func (l *Launcher) Layout(cfg *models.LaunchConfig) (*models.CacheLayout, error) {
	base, err := platform.CacheBase(l.kind, l.settings)
	if err != nil {
		return nil, err
	}
	return cache.Layout(base, cfg.ApplicationID, cfg.PayloadItems), nil
}

// OpenBundle opens the configured bundle, the caller closes it.
func (l *Launcher) OpenBundle() (*bundle.Bundle, error) {
	if l.bundle != nil {
		return l.bundle, nil
	}
	return bundle.OpenDefault(l.settings.Bundle)
}

/**
 * Materialize the payload of cfg from the bundle into the cache
 * @param {*models.LaunchConfig} cfg - Launch configuration
 * @param {*bundle.Bundle} b - Bundle holding the payload
 * @returns {*cache.Result} Returns cache layout and per-item outcome
 */
func (l *Launcher) Materialize(cfg *models.LaunchConfig, b *bundle.Bundle) (*cache.Result, error) {
	start := time.Now()
	defer l.metrics.ObserveStage(StageMaterialize, start)

	base, err := platform.CacheBase(l.kind, l.settings)
	if err != nil {
		return nil, err
	}
	res, err := cache.Materialize(cache.Options{
		Base:          base,
		ApplicationID: cfg.ApplicationID,
		Items:         cfg.PayloadItems,
		Source:        b,
		Policy:        l.settings.Refresh,
		Lock:          l.settings.LockEnabled(),
	})
	if err != nil {
		return nil, err
	}
	l.metrics.RecordPayload(res)
	logger.Debugf("cache directory: %s (%d items, %d bytes copied)",
		res.Layout.Dir, len(res.Items), res.CopiedBytes())
	return res, nil
}

/**
 * Prepare runs every stage up to the assembled command line
 * @param {[]string} args - Command line arguments, program name excluded
 * @returns {*Plan} Returns launch plan
 * @throws
 * - ConfigurationError, MaterializationError, LaunchError from the failing stage
 */
func (l *Launcher) Prepare(args []string) (*Plan, error) {
	start := time.Now()
	logger.Debugf("platform: %s", l.kind)
	l.metrics.ObserveStage(StagePlatform, start)

	b, done, err := l.openBundle()
	if err != nil {
		return nil, err
	}
	defer done()

	start = time.Now()
	cfg, err := b.LaunchConfig()
	if err != nil {
		return nil, err
	}
	l.metrics.ObserveStage(StageConfig, start)
	logger.Debugf("application id: %s, entry point: %s", cfg.ApplicationID, cfg.EntryPoint)

	res, err := l.Materialize(cfg, b)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	exe, err := command.ResolveRuntime(l.kind, l.settings)
	if err != nil {
		return nil, err
	}
	flags, appArgs := command.SplitArgs(args, env.RuntimeArgMarker)
	cmd := command.Assemble(command.Input{
		Executable:     exe,
		RuntimeOptions: cfg.RuntimeOptions,
		RuntimeFlags:   flags,
		ClassPath:      command.ClassPath(res.Layout),
		EntryPoint:     cfg.EntryPoint,
		AppArgs:        appArgs,
	})
	l.metrics.ObserveStage(StageCommand, start)
	logger.Debugf("command: %s", cmd)

	return &Plan{Config: cfg, Layout: res.Layout, Command: cmd}, nil
}

/**
 * Launch runs the whole pipeline and waits for the application
 * @param {context.Context} ctx - Cancelling it terminates the application
 * @param {[]string} args - Command line arguments, program name excluded
 * @returns {int} Returns the application's exit code, 128 when the launcher failed
 * @description
 * - Metrics are pushed at exit when KAPSEL_PUSHGATEWAY is set, push failures are only logged
 */
func (l *Launcher) Launch(ctx context.Context, args []string) (int, error) {
	var appID string
	code, err := func() (int, error) {
		plan, err := l.Prepare(args)
		if err != nil {
			return env.ExitFailure, err
		}
		appID = plan.Config.ApplicationID

		start := time.Now()
		defer l.metrics.ObserveStage(StageRun, start)
		return proc.Run(ctx, plan.Command)
	}()

	l.metrics.SetExitCode(code)
	if addr := l.settings.Pushgateway; addr != "" {
		if perr := l.metrics.Push(addr, appID); perr != nil {
			logger.Warnf("%v", perr)
		}
	}
	return code, err
}

// Launch runs the pipeline with s on the detected platform.
func Launch(ctx context.Context, s *config.Settings, args []string) (int, error) {
	return NewLauncher(s).Launch(ctx, args)
}
