package downloader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"jukebox/internal/config"
	"jukebox/internal/logger"
	"jukebox/internal/queue"
	"jukebox/pkg/utils"
)

// ErrUnsupportedOrigin means the downloader has no way to fetch audio from a song's origin.
var ErrUnsupportedOrigin = errors.New("unsupported song origin")

// Downloader fetches song audio to local files using yt-dlp
type Downloader struct {
	Config config.Config
	Logger *logger.Logger
}

// New creates a new Downloader instance
func New(cfg config.Config, log *logger.Logger) *Downloader {
	return &Downloader{
		Config: cfg,
		Logger: log,
	}
}

// Fetch makes sure song has a local audio file and sets song.Path to it.
// Uploads are used in place; YouTube songs are downloaded into the download dir.
func (d *Downloader) Fetch(ctx context.Context, song *queue.Song) (string, error) {
	switch song.Origin.Kind {
	case queue.OriginFileUpload:
		if _, err := os.Stat(song.Origin.Location); err != nil {
			return "", fmt.Errorf("uploaded file not readable: %w", err)
		}
		song.Path = song.Origin.Location
		return song.Path, nil

	case queue.OriginYouTube:
		path, err := d.downloadYouTube(ctx, song.Origin.Location)
		if err != nil {
			return "", err
		}
		song.Path = path
		return path, nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOrigin, song.Origin.Kind)
	}
}

// buildYtdlpArgs constructs command-line arguments for yt-dlp
func (d *Downloader) buildYtdlpArgs(url string) []string {
	outputTemplate := filepath.Join(d.Config.DownloadDir, "%(id)s.%(ext)s")

	return []string{
		"-x",
		"--audio-format", d.Config.AudioFormat,
		"-f", "bestaudio",
		"--socket-timeout", "15",
		"--no-playlist",
		"-o", outputTemplate,
		"--print", "after_move:filepath",
		url,
	}
}

func (d *Downloader) downloadYouTube(ctx context.Context, url string) (string, error) {
	if err := os.MkdirAll(d.Config.DownloadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	d.Logger.Debug("Downloading %s into %s", url, d.Config.DownloadDir)

	cmd := exec.CommandContext(ctx, d.ytdlp(), d.buildYtdlpArgs(url)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("download cancelled")
		}
		return "", fmt.Errorf("yt-dlp failed to download %s: %w\nDetails: %s", url, err, strings.TrimSpace(stderr.String()))
	}

	if path := lastLine(stdout.Bytes()); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		d.Logger.Debug("yt-dlp reported %s but it does not exist, guessing from the URL", path)
	}

	// Older yt-dlp builds print nothing for after_move; the output template
	// makes the file name predictable from the video ID.
	id, err := utils.ExtractYouTubeID(url)
	if err != nil {
		return "", fmt.Errorf("cannot locate downloaded file: %w", err)
	}
	path := filepath.Join(d.Config.DownloadDir, id+"."+d.Config.AudioFormat)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("downloaded file not found at %s: %w", path, err)
	}
	return path, nil
}

func (d *Downloader) ytdlp() string {
	if d.Config.YtdlpPath != "" {
		return d.Config.YtdlpPath
	}
	return "yt-dlp"
}

func lastLine(out []byte) string {
	var last string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	return last
}
