// Package volume exposes a host directory, optionally a mounted block device, as the player's storage.
package volume

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GiGurra/cmder"
	"github.com/gigurra/easywav/cmd/play/device"
	"github.com/shirou/gopsutil/v3/disk"
)

const DefaultMountTimeout = 10 * time.Second

// Runner executes an external command such as mount or umount.
type Runner func(ctx context.Context, args ...string) error

// Volume implements device.Storage. Paths given to it are slash separated and relative to Root,
// and only resolve while the volume is mounted.
type Volume struct {
	Root string
	// Device, when set, is mounted at Root by Mount and unmounted again by Unmount.
	Device       string
	MountTimeout time.Duration
	Run          Runner

	mounted bool
}

func New(root, dev string) *Volume {
	return &Volume{
		Root:         root,
		Device:       dev,
		MountTimeout: DefaultMountTimeout,
		Run:          runCommand,
	}
}

func (v *Volume) Mount() error {
	if v.mounted {
		return nil
	}

	if v.Device != "" {
		ctx, cancel := context.WithTimeout(context.Background(), v.MountTimeout)
		defer cancel()
		if err := v.Run(ctx, "mount", v.Device, v.Root); err != nil {
			return fmt.Errorf("%w: %s at %s: %w", device.ErrMount, v.Device, v.Root, err)
		}
	}

	info, err := os.Stat(v.Root)
	if err != nil {
		return fmt.Errorf("%w: %w", device.ErrMount, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", device.ErrMount, v.Root)
	}
	v.mounted = true

	if usage, err := disk.Usage(v.Root); err != nil {
		slog.Warn("failed to read volume usage", "root", v.Root, "error", err)
	} else {
		slog.Info("volume mounted",
			"root", v.Root,
			"device", v.Device,
			"total_bytes", usage.Total,
			"free_bytes", usage.Free)
	}
	return nil
}

// Unmount is a no-op unless the volume is mounted, so calling it more than once is safe.
func (v *Volume) Unmount() error {
	if !v.mounted {
		return nil
	}
	v.mounted = false

	if v.Device == "" {
		slog.Info("volume released", "root", v.Root)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.MountTimeout)
	defer cancel()
	if err := v.Run(ctx, "umount", v.Root); err != nil {
		return fmt.Errorf("failed to unmount %s: %w", v.Root, err)
	}
	slog.Info("volume unmounted", "root", v.Root, "device", v.Device)
	return nil
}

// ListDir returns entry names in directory order, unsorted.
func (v *Volume) ListDir(path string) ([]string, error) {
	full, err := v.resolve(path)
	if err != nil {
		return nil, err
	}
	dir, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	defer dir.Close()
	return dir.Readdirnames(-1)
}

func (v *Volume) Open(path string) (fs.File, error) {
	full, err := v.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (v *Volume) resolve(path string) (string, error) {
	if !v.mounted {
		return "", fmt.Errorf("%w: not mounted", device.ErrMount)
	}
	if !fs.ValidPath(path) {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrInvalid}
	}
	return filepath.Join(v.Root, filepath.FromSlash(path)), nil
}

func runCommand(ctx context.Context, args ...string) error {
	res := cmder.New(args...).
		WithAttemptTimeout(DefaultMountTimeout).
		Run(ctx)
	if res.Err != nil {
		if out := strings.TrimSpace(res.Combined); out != "" {
			return fmt.Errorf("%s: %w: %s", args[0], res.Err, out)
		}
		return fmt.Errorf("%s: %w", args[0], res.Err)
	}
	return nil
}
