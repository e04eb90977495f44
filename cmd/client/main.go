package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"keeper-client/internal/client"
	"keeper-client/internal/config"
	"keeper-client/internal/infrastructure/storage"
	"keeper-client/internal/level"
	"keeper-client/internal/server"
	"keeper-client/internal/transport"
	"keeper-client/internal/version"
	"keeper-client/internal/world"
	"keeper-client/pkg/logger"
)

func main() {
	// 1. Конфигурация: файл, окружение, флаги
	var (
		configPath string
		replayPath string
		host       string
		port       int
		levelPath  string
		nick       string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config")
	flag.StringVar(&host, "host", "", "Server host")
	flag.IntVar(&port, "port", 0, "Server port")
	flag.StringVar(&levelPath, "level", "", "Level file")
	flag.StringVar(&nick, "nick", "", "Player nick")
	flag.StringVar(&replayPath, "replay", "", "Path to .kcrp recording to replay offline")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.Fatal(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		logger.Log.Fatal(err)
	}
	// Флаги перекрывают только то, что явно задано
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = host
		case "port":
			cfg.Port = port
		case "level":
			cfg.Level = levelPath
		case "nick":
			cfg.Nick = nick
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("Invalid config: ", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	logger.Log.Info("Starting Keeper Client...")
	logger.Log.Info(version.String())

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		if err := replay(cfg, replayPath); err != nil {
			logger.Log.Fatal("Replay failed: ", err)
		}
		return
	}

	if err := run(cfg); err != nil {
		logger.Log.Fatal(err)
	}
	logger.Log.Info("Done.")
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder *storage.Recorder
	opts := client.Options{
		Nick:   cfg.Nick,
		Levels: level.Loader{},
		Dialer: transport.Dialer{
			Kind: cfg.Transport,
			Options: transport.Options{
				MaxFrameSize: cfg.MaxFrameSize,
				SendBuffer:   cfg.SendBuffer,
				WSPath:       cfg.WSPath,
			},
		},
	}
	if cfg.RecordDir != "" {
		recorder = storage.NewRecorder(cfg.RecordDir, cfg.Level)
		recorder.SetMaxFrame(cfg.MaxFrameSize)
		opts.Recorder = recorder
	}

	session := client.NewSession(opts)
	if err := session.Connect(ctx, cfg.Host, cfg.Port, cfg.Level); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	// Тики клиента: входящие сообщения, затем намерения
	g.Go(func() error {
		ticker := time.NewTicker(cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := session.Tick(); err != nil {
					return err
				}
			}
		}
	})

	if cfg.DebugAddr != "" {
		g.Go(func() error {
			return server.New(session, cfg.DebugAddr).Run(ctx)
		})
	}

	// Graceful Shutdown
	g.Go(func() error {
		<-ctx.Done()
		logger.Log.Info("Shutting down...")
		if err := session.NotifyExit(); err != nil && !errors.Is(err, client.ErrNotConnected) {
			logger.Log.WithError(err).Warn("Close failed")
		}
		return nil
	})

	err := g.Wait()

	if recorder != nil {
		if _, saveErr := recorder.Save(); saveErr != nil {
			logger.Log.WithError(saveErr).Error("Failed to save recording")
		}
	}
	return err
}

func replay(cfg config.Config, path string) error {
	logger.Log.Info("Mode: Replay")

	rec, err := storage.Load(path)
	if err != nil {
		return err
	}
	levelPath := rec.Level
	if levelPath == "" {
		levelPath = cfg.Level
	}

	replica, err := level.Loader{}.Load(levelPath)
	if err != nil {
		return err
	}
	replica.SetLocalPlayer(&world.Player{Nick: cfg.Nick})

	frames := make([][]byte, len(rec.Frames))
	for i, f := range rec.Frames {
		frames[i] = f.Body
	}
	client.Replay(replica, cfg.Nick, frames)

	sum := replica.Summary()
	logger.Log.WithFields(logrus.Fields{
		"level":     replica.LevelName,
		"turn":      sum.Turn,
		"tiles":     sum.Tiles,
		"creatures": sum.Creatures,
		"players":   sum.Players,
		"rooms":     sum.Rooms,
		"traps":     sum.Traps,
	}).Info("Replica after replay")

	// Снимок рядом с записью
	data, err := replica.MarshalSnapshot()
	if err != nil {
		return err
	}
	out := path + ".snapshot.msgpack"
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	logger.Log.WithField("path", out).Info("Snapshot written")
	return nil
}
