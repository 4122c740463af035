package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"dirview/internal/collate"
	"dirview/internal/config"
	"dirview/internal/frame"
	"dirview/internal/history"
	"dirview/internal/logger"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-debug] [directory or image]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debug {
		settings.LogLevel = "debug"
	}

	closer, err := logger.Init(logger.Config{
		Level:    settings.LogLevel,
		Format:   settings.LogFormat,
		Output:   settings.LogOutput,
		FilePath: settings.LogFile,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	result, err := config.Load(settings.ConfigPath)
	if err != nil {
		if errors.Is(err, config.ErrMalformed) {
			log.Fatal().Err(err).Msg("Config file is malformed; fix or remove it")
		}
		log.Fatal().Err(err).Msg("Cannot read config")
	}

	keybindings, warning := resolveKeybindings(result.Config.Keybindings)
	if warning != "" {
		result.Status = config.StatusWarning
		result.Warnings = append(result.Warnings, warning)
	}
	mousebindings, warning := resolveMousebindings(result.Config.Mousebindings)
	if warning != "" {
		result.Status = config.StatusWarning
		result.Warnings = append(result.Warnings, warning)
	}
	for _, w := range result.Warnings {
		log.Warn().Str("config", settings.ConfigPath).Msg(w)
	}

	if err := InitGraphics(); err != nil {
		log.Fatal().Err(err).Msg("Cannot load font")
	}

	store := history.New(logger.Component("history"))
	store.Restore(result.Config.History)

	decoder := frame.NewCachingDecoder(frame.NewFileDecoder(), result.Config.CacheSize, logger.Component("frame"))

	watcher, err := NewDirectoryWatcher(logger.Component("watcher"))
	if err != nil {
		log.Warn().Err(err).Msg("Directory watching disabled")
		watcher = nil
	}

	g := NewGame(GameOptions{
		Config:        result,
		ConfigPath:    settings.ConfigPath,
		Keybindings:   keybindings,
		Mousebindings: mousebindings,
		History:       store,
		Collator:      collate.New(logger.Component("collate")),
		Decoder:       decoder,
		Watcher:       watcher,
		StartupPath:   flag.Arg(0),
		Log:           logger.Component("viewer"),
	})

	ebiten.SetWindowTitle(frame.EmptyTitle)
	ebiten.SetWindowSize(result.Config.Size[0], result.Config.Size[1])
	ebiten.SetWindowSizeLimits(config.MinWidth, config.MinHeight, -1, -1)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("Viewer stopped")
	}
}
