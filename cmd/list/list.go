package list

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	"github.com/gigurra/easywav/cmd/common"
	"github.com/gigurra/easywav/cmd/play/catalog"
	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/gigurra/easywav/cmd/play/device/volume"
	"github.com/gigurra/easywav/cmd/play/display"
	"github.com/gigurra/easywav/cmd/play/playback"
	"github.com/gopxl/beep/v2/wav"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type Params struct {
	Root string `short:"r" optional:"true" help:"Volume root holding the music directory" default:"."`
	JSON bool   `long:"json" optional:"true" help:"Output as JSON"`
	Copy bool   `short:"c" optional:"true" help:"Also copy the output to the clipboard"`
}

var clipboardWriteAll = clipboard.WriteAll

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "list",
		Aliases:     []string{"ls"},
		Short:       "List the tracks the player would show, with their format",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "list: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

// Entry describes one track in library order.
type Entry struct {
	Name            string  `json:"name"`
	Artist          string  `json:"artist,omitempty"`
	Album           string  `json:"album,omitempty"`
	Song            string  `json:"song,omitempty"`
	SampleRate      int     `json:"sample_rate,omitempty"`
	Channels        int     `json:"channels,omitempty"`
	BitDepth        int     `json:"bit_depth,omitempty"`
	DurationSeconds float64 `json:"duration_s"`
	Playable        bool    `json:"playable"`
	Problem         string  `json:"problem,omitempty"`
}

func run(params *Params, out io.Writer) error {
	vol := volume.New(params.Root, "")
	if err := vol.Mount(); err != nil {
		return err
	}
	defer func() { _ = vol.Unmount() }()

	entries, err := Inspect(vol)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := write(&buf, entries, params.JSON); err != nil {
		return err
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return err
	}

	if params.Copy {
		if err := clipboardWriteAll(buf.String()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
	}
	return nil
}

func write(out io.Writer, entries []Entry, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintf(out, "No WAV files found in %s\n", catalog.MusicDir)
		return err
	}
	render(out, entries)
	return nil
}

// Inspect lists the music directory the same way the player does and reads each track's header.
func Inspect(storage device.Storage) ([]Entry, error) {
	cat := catalog.New(storage)
	if err := cat.Refresh(); err != nil {
		return nil, err
	}
	return lo.Map(cat.Tracks(), func(t catalog.Track, _ int) Entry {
		return inspectTrack(storage, t)
	}), nil
}

func inspectTrack(storage device.Storage, t catalog.Track) Entry {
	e := Entry{Name: t.Name}
	if t.Label.Parsed {
		e.Artist, e.Album, e.Song = t.Label.Artist, t.Label.Album, t.Label.Song
	}

	f, err := storage.Open(catalog.TrackPath(t))
	if err != nil {
		e.Problem = err.Error()
		return e
	}
	defer f.Close()

	head := make([]byte, playback.HeaderSize)
	n, err := io.ReadFull(f, head)
	head = head[:n]
	if err != nil {
		e.Problem = fmt.Sprintf("%v: short header", playback.ErrInvalidFormat)
	} else if _, err := playback.ParseHeader(head); err != nil {
		e.Problem = err.Error()
	} else {
		e.Playable = true
	}

	// the general decoder still describes files the player rejects, e.g. stereo
	s, format, err := wav.Decode(io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		if e.Problem == "" {
			e.Problem = err.Error()
		}
		return e
	}
	e.SampleRate = int(format.SampleRate)
	e.Channels = format.NumChannels
	e.BitDepth = format.Precision * 8
	e.DurationSeconds = format.SampleRate.D(s.Len()).Seconds()
	return e
}

func render(out io.Writer, entries []Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "File", "Artist", "Album", "Song", "Format", "Duration"})
	for i, e := range entries {
		format := "-"
		if e.SampleRate > 0 {
			format = fmt.Sprintf("%d Hz %d-bit %dch", e.SampleRate, e.BitDepth, e.Channels)
		}
		if !e.Playable {
			format = text.FgRed.Sprint(e.Problem)
		}
		t.AppendRow(table.Row{
			i + 1,
			e.Name,
			e.Artist,
			e.Album,
			e.Song,
			format,
			display.FormatTime(e.DurationSeconds),
		})
	}

	playable := lo.CountBy(entries, func(e Entry) bool { return e.Playable })
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tracks, %d playable", len(entries), playable)})
	t.Render()
}
