package play

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/easywav/cmd/common"
	"github.com/gigurra/easywav/cmd/play/app"
	"github.com/gigurra/easywav/cmd/play/catalog"
	"github.com/gigurra/easywav/cmd/play/config"
	"github.com/gigurra/easywav/cmd/play/device/overlay"
	"github.com/gigurra/easywav/cmd/play/device/sound"
	"github.com/gigurra/easywav/cmd/play/device/terminal"
	"github.com/gigurra/easywav/cmd/play/device/volume"
	"github.com/spf13/cobra"
)

type Params struct {
	Root    string `short:"r" optional:"true" help:"Volume root holding the music directory (the mount point when --device is set)" default:"."`
	Device  string `short:"d" optional:"true" help:"Block device to mount at --root before starting, e.g. /dev/sda1"`
	Config  string `short:"c" optional:"true" help:"Config file (default: $XDG_CONFIG_HOME/easywav/config.json)"`
	LogFile string `short:"l" optional:"true" help:"Log file (default: $XDG_CONFIG_HOME/easywav/easywav.log)"`
	Verbose bool   `short:"v" optional:"true" help:"Log at debug level"`
	NoWatch bool   `optional:"true" help:"Do not watch the music directory for changes"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "play",
		Short: "Browse and play WAV files",
		Long: `Browse and play the WAV files in <root>/music on a small handheld-style screen.

Controls:
  ; or UP                  - Move up
  . or DOWN                - Move down
  ENTER or SPACE           - Select / next shuffle track
  ESC, DEL, BACKSPACE or ` + "`" + ` - Back (exits from the main menu)
  any key                  - Stop the playing track

Tracks must be 16-bit mono PCM. Names of the form "Artist - Album - Song.wav"
are shown as separate fields.
Press Ctrl+C to exit.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func run(params *Params) error {
	closeLog, err := common.SetupFileLogging(orDefault(params.LogFile, common.LogPath()), params.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	cfg, err := loadConfig(orDefault(params.Config, common.ConfigPath()))
	if err != nil {
		return err
	}
	if !sound.Available {
		slog.Warn("built without cgo, audio output is silent")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := terminal.Open(os.Stdin, os.Stdout, cancel)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	vol := volume.New(params.Root, params.Device)
	c := app.Context{
		Storage:  vol,
		Display:  session.Canvas,
		Keyboard: session.Keyboard,
		Audio:    sound.NewOutput(),
		Beeper:   sound.NewTones(),
		Overlay:  overlay.New(session.Canvas, session.Keyboard, cfg),
		Config:   cfg,
	}
	if !params.NoWatch {
		c.WatchCatalog = func(ctx context.Context) (<-chan struct{}, error) {
			return catalog.Watch(ctx, filepath.Join(vol.Root, catalog.MusicDir))
		}
	}

	slog.Info("starting player", "root", params.Root, "device", params.Device)
	return app.New(c).Run(ctx)
}

// loadConfig reads the config, writing the defaults on first run so there is a file to edit.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := config.Save(path, cfg); err != nil {
			slog.Warn("failed to write default config", "path", path, "error", err)
		}
	}
	return cfg, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
