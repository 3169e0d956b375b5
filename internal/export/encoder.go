package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/blackcarburning/LyricLooper/internal/core/model"
)

// FrameWriter receives rendered frames in display order.
type FrameWriter interface {
	WriteFrame(frame *image.NRGBA) error
	Close() error
}

// NewFrameWriter opens the writer matching the configured container.
func NewFrameWriter(settings model.ExportSettings, outputPath string) (FrameWriter, error) {
	if settings.Format == model.FormatPNGSequence {
		return newImageSequenceWriter(outputPath)
	}
	return newFFmpegWriter(settings, outputPath)
}

type imageSequenceWriter struct {
	dir   string
	index int
}

func newImageSequenceWriter(dir string) (*imageSequenceWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}
	return &imageSequenceWriter{dir: dir}, nil
}

func (w *imageSequenceWriter) WriteFrame(frame *image.NRGBA) error {
	path := filepath.Join(w.dir, fmt.Sprintf("frame_%06d.png", w.index))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(file, frame); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	w.index++
	return nil
}

func (w *imageSequenceWriter) Close() error { return nil }

// ffmpegWriter pipes raw RGBA frames into an ffmpeg child process.
type ffmpegWriter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
}

func findFFmpeg() string {
	// Try to find ffmpeg in common locations before falling back to PATH.
	paths := []string{
		"/opt/homebrew/bin/ffmpeg",
		"/usr/local/bin/ffmpeg",
		"/usr/bin/ffmpeg",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "ffmpeg"
}

func newFFmpegWriter(settings model.ExportSettings, outputPath string) (*ffmpegWriter, error) {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	size := fmt.Sprintf("%dx%d", settings.Width, settings.Height)
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", size,
		"-r", strconv.Itoa(settings.FPS),
		"-i", "-",
	}
	switch settings.Format {
	case model.FormatAVI:
		args = append(args, "-c:v", "mpeg4", "-q:v", "3")
	case model.FormatMOV:
		if settings.Transparent {
			// qtrle keeps the alpha channel.
			args = append(args, "-c:v", "qtrle")
		} else {
			args = append(args, "-c:v", "libx264", "-pix_fmt", "yuv420p")
		}
	default:
		args = append(args, "-c:v", "libx264", "-pix_fmt", "yuv420p")
	}
	args = append(args, outputPath)

	cmd := exec.Command(findFFmpeg(), args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffmpeg stdin: %w", err)
	}
	writer := &ffmpegWriter{cmd: cmd, stdin: stdin}
	cmd.Stderr = &writer.stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	return writer, nil
}

func (w *ffmpegWriter) WriteFrame(frame *image.NRGBA) error {
	if _, err := w.stdin.Write(frame.Pix); err != nil {
		return fmt.Errorf("ffmpeg pipe write failed: %w\nOutput: %s", err, w.stderr.String())
	}
	return nil
}

func (w *ffmpegWriter) Close() error {
	if err := w.stdin.Close(); err != nil {
		w.cmd.Wait()
		return fmt.Errorf("failed to close ffmpeg pipe: %w", err)
	}
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg encoding failed: %w\nOutput: %s", err, w.stderr.String())
	}
	return nil
}
