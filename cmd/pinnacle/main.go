package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/nixith/pinnacle/internal/api"
	"github.com/nixith/pinnacle/internal/backend"
	"github.com/nixith/pinnacle/internal/build"
	"github.com/nixith/pinnacle/internal/bus"
	"github.com/nixith/pinnacle/internal/comp"
	"github.com/nixith/pinnacle/internal/config"
	"github.com/nixith/pinnacle/internal/core"
	"github.com/nixith/pinnacle/internal/transport"
	"github.com/nixith/pinnacle/pkg/sutureext"
	"github.com/phsym/console-slog"
	"github.com/thejerf/suture/v4"
)

type Options struct {
	Debug  bool   `doc:"enable debug logging"`
	Host   string `doc:"host to listen on"`
	Port   int    `doc:"port to listen on" default:"8080"`
	Config string `doc:"config file" default:".pinnacle.yaml"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			ctx, shutdown := context.WithCancel(ctx)
			defer shutdown()

			bus.SetContext(ctx)

			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			var driver config.Driver = config.NewYAML(configFilePath)
			if filepath.Ext(configFilePath) == ".json" {
				driver = config.NewJSON(configFilePath)
			}

			store, err := config.NewStore(driver)
			if err != nil {
				return err
			}

			cfg, err := store.GetConfig()
			if err != nil {
				return err
			}

			logger := slog.Default()

			source := transport.NewChannel(64)
			be := backend.NewRecorder()

			state := comp.NewState(logger, be)
			if err := comp.SeedFromConfig(state, cfg); err != nil {
				return err
			}
			state.SetSeat(comp.Seat{HasKeyboard: true, PointerPresent: true})

			loop := comp.NewLoop(logger, state, source)
			server := api.NewServer(logger, loop, be, shutdown)

			super := suture.New("root", suture.Spec{
				EventHook: sutureext.EventHook(),
			})
			sutureext.Add(super, loop)
			sutureext.Add(super, api.NewHTTPServer(core.Address(options.Host, options.Port), server.Router()))

			return super.Serve(ctx)
		})
	})

	cli.Root().Use = "pinnacle"
	cli.Root().Version = build.Current.Version

	cli.Run()
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
