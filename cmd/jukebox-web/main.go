package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"jukebox/internal/config"
	"jukebox/internal/downloader"
	"jukebox/internal/fingerprint"
	"jukebox/internal/logger"
	"jukebox/internal/pipeline"
	"jukebox/internal/queue"
	"jukebox/internal/shutdown"
	"jukebox/internal/watcher"
	"jukebox/internal/web"
	"jukebox/pkg/utils"
)

func main() {
	var (
		port       int
		configPath string
		dropDir    string
	)

	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&configPath, "config", "", "Config file path")
	flag.StringVar(&dropDir, "drop-dir", "", "Directory whose new audio files are queued for the \"drop\" user")
	flag.Parse()

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	l := logger.New(cfg.Verbose)
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(config.GetDefaultLogPath()), "jukebox-web.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		if err := l.SetFileLog(logPath, cfg.LogMaxSizeMB); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to setup file logging: %v\n", err)
		}
	}
	defer l.Close()

	if err := fingerprint.New(cfg.FpcalcPath).Available(); err != nil {
		l.Error("%v (fpcalc_path: %s)", err, cfg.FpcalcPath)
		os.Exit(1)
	}
	if err := utils.CheckDependencies(cfg.YtdlpPath); err != nil {
		l.Warn("YouTube submissions will fail: %v", err)
	}

	sh := shutdown.New(context.Background())
	sh.Listen()

	client := pipeline.NewHTTPClient(cfg)
	resolver := pipeline.NewResolver(cfg, client, l)
	q := queue.New()

	jobMgr := web.NewJobManager()
	jobMgr.StartCleanup(sh.Context())
	server := web.NewServer(sh.Context(), jobMgr, q, downloader.New(cfg, l), resolver, cfg, l)

	if dropDir != "" {
		sh.Go(func(ctx context.Context) {
			w := watcher.New(dropDir, cfg.WatchDebounce(), dropHandler(q, resolver, l), l)
			if err := w.Start(ctx); err != nil {
				l.Error("Drop folder: %v", err)
			}
		})
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		l.Info("Starting web server on port %d", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Server error: %v", err)
			sh.Shutdown()
		}
	}()

	<-sh.Context().Done()

	l.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		l.Error("Server shutdown error: %v", err)
	}
	sh.Wait()

	l.Info("Server stopped")
}

// dropHandler queues every settled file in the drop folder, identified when possible.
func dropHandler(q *queue.GlobalQueue, lookup queue.Lookuper, l *logger.Logger) watcher.HandleFunc {
	return func(ctx context.Context, path string) {
		song := queue.NewSong(queue.Origin{Kind: queue.OriginFileUpload, Location: path}, "drop")
		if _, err := song.FetchMetadata(ctx, lookup); err != nil {
			l.Warn("Could not identify %s: %v", path, err)
		}
		q.Submit(song)
		l.Info("Queued %s", song)
	}
}
