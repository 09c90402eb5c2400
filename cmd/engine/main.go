// Command engine runs a small demonstration world: a handful of moving,
// regenerating sprites drifting across the terminal until q, Escape or
// Ctrl-C.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/game-engine/components"
	"github.com/lixenwraith/game-engine/config"
	"github.com/lixenwraith/game-engine/ecs"
	"github.com/lixenwraith/game-engine/engine"
	"github.com/lixenwraith/game-engine/systems"
)

var (
	configFlag  = flag.String("config", "", "Path to TOML config file")
	logFlag     = flag.String("log", "engine.log", "Log file path")
	profileFlag = flag.String("profile", "", "Enable profiling: cpu or mem")
)

func main() {
	flag.Parse()

	switch *profileFlag {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(".")).Stop()
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := newLogger(cfg.Logging, *logFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("engine failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	eng := engine.New(cfg, log)

	// Terminal must be restored even on a crash, or the shell is left
	// in raw mode.
	defer func() {
		if r := recover(); r != nil {
			eng.Shutdown()
			fmt.Fprintf(os.Stderr, "crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	populate(eng.World(), cfg, log)

	if err := eng.Initialize(); err != nil {
		eng.Shutdown()
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		eng.Stop()
	}()

	runErr := eng.Run()
	if err := eng.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// populate registers the demo systems and spawns a few bouncing sprites.
func populate(w *ecs.World, cfg config.Config, log *zap.Logger) {
	w.RegisterSystem(systems.NewMovementSystem(log, cfg.Engine.WorldBounds), ecs.PhasePhysics)
	w.RegisterSystem(systems.NewHealthSystem(log, nil), ecs.PhaseGameLogic)
	w.RegisterSystem(systems.NewRenderPrepSystem(log), ecs.PhaseRenderPrep)

	glyphs := []string{"@", "#", "*", "o", "+"}
	tints := []mgl64.Vec3{
		{1, 0.3, 0.3},
		{0.3, 1, 0.3},
		{0.3, 0.5, 1},
		{1, 1, 0.3},
		{1, 0.5, 1},
	}
	for i := 0; i < 12; i++ {
		id := w.CreateEntity()
		x := float64(5 + i*7)
		y := float64(3 + (i*5)%20)
		vel := components.ConstantVelocity(float64(2+i%5), float64(1+i%3), 0).
			WithAcceleration(mgl64.Vec3{0, 0, 0})
		vel.MaxSpeed = 15
		vel.Friction = 0.02

		ecs.Add(w, id, components.TransformAt2D(x, y))
		ecs.Add(w, id, vel)
		ecs.Add(w, id, components.FullHealth(100, 0.1, 0.5))
		ecs.Add(w, id, components.NewSprite(glyphs[i%len(glyphs)]).
			WithLayer(i%3).
			WithTint(tints[i%len(tints)]))
	}
}

func newLogger(cfg config.LoggingConfig, path string) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	// The terminal belongs to the renderer; logs go to a file.
	zapCfg.OutputPaths = []string{path}
	zapCfg.ErrorOutputPaths = []string{path}

	return zapCfg.Build()
}
