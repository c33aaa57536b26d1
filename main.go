package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtl/api"
	"github.com/matt-g-everett/ledtl/stream"
	"github.com/rs/zerolog"
)

type app struct {
	Config     stream.Config
	ConfigPath string
	Client     mqtt.Client
	Player     *stream.Player
	Api        *api.Api
	log        zerolog.Logger
}

func newApp(configPath string, logger zerolog.Logger) *app {
	a := new(app)
	a.ConfigPath = configPath
	a.log = logger
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.log.Info().Str("broker", a.Config.Mqtt.URL).Msg("Connected")
}

func (a *app) handleConfigChange(config stream.Config) {
	if sections := a.Config.RestartRequired(config); len(sections) > 0 {
		a.log.Warn().Strs("sections", sections).Msg("Config changes need a restart to take effect")
	}

	show, err := stream.BuildShow(config.Show)
	if err != nil {
		a.log.Warn().Err(err).Msg("Keeping previous show")
		return
	}

	a.Player.Load(show)
	if err := a.Player.Schedule(config.Show.Restart); err != nil {
		a.log.Warn().Err(err).Msg("Restart schedule not changed")
	}
	a.Config.Show = config.Show
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	watcher, err := stream.NewConfigWatcher(a.ConfigPath, a.log)
	if err != nil {
		a.log.Warn().Err(err).Msg("Config changes will not be picked up")
	} else {
		go watcher.Run(ctx, a.handleConfigChange)
	}

	go func() {
		if err := a.Api.Serve(ctx, a.Config.HTTP.Listen); err != nil {
			a.log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	if err := a.Player.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func main() {
	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	debug := flag.Bool("debug", false, "Enable debug logging.")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	// mqtt.DEBUG = stdlog.New(logger, "", 0)
	mqtt.ERROR = stdlog.New(logger, "mqtt: ", 0)

	// Read the config
	a := newApp(*configPath, logger)
	config, err := stream.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Reading config")
	}
	a.Config = config
	logger.Debug().Interface("show", a.Config.Show).Msg("Config")

	show, err := stream.BuildShow(a.Config.Show)
	if err != nil {
		logger.Fatal().Err(err).Msg("Building show")
	}

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("ledtl").
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	streamer := stream.NewStreamer(a.Client, a.Config.Mqtt.Topics.Stream, logger)
	a.Player = stream.NewPlayer(show, streamer, logger)
	if err := a.Player.Schedule(a.Config.Show.Restart); err != nil {
		logger.Fatal().Err(err).Msg("Scheduling restarts")
	}
	a.Api = api.NewApi(a.Player, a.Config.HTTP.Static, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Stopped")
	}
}
