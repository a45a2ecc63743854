package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tgrelay/relay-bot/internal/auth"
	"github.com/tgrelay/relay-bot/internal/auth/reddit"
	"github.com/tgrelay/relay-bot/internal/botapi"
	"github.com/tgrelay/relay-bot/internal/cleanup"
	"github.com/tgrelay/relay-bot/internal/config"
	"github.com/tgrelay/relay-bot/internal/delivery"
	"github.com/tgrelay/relay-bot/internal/downloader"
	"github.com/tgrelay/relay-bot/internal/downloader/classify"
	"github.com/tgrelay/relay-bot/internal/downloader/direct"
	"github.com/tgrelay/relay-bot/internal/downloader/scrape"
	"github.com/tgrelay/relay-bot/internal/downloader/torrent"
	"github.com/tgrelay/relay-bot/internal/downloader/ytdlp"
	"github.com/tgrelay/relay-bot/internal/downloader/ytnative"
	"github.com/tgrelay/relay-bot/internal/handlers"
	"github.com/tgrelay/relay-bot/internal/lang"
	"github.com/tgrelay/relay-bot/internal/logutils"
	"github.com/tgrelay/relay-bot/internal/pipeline"
	"github.com/tgrelay/relay-bot/internal/storage"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize configuration")
	}

	logutils.InitLogger(cfg.LogLevel)
	logrus.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
	}).Info("Starting relay bot")

	lang.Setup(cfg.Lang)

	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		logrus.WithError(err).Fatal("Could not create download directory")
	}

	client, err := botapi.New(cfg.BotToken, cfg.BotAPIEndpoint)
	if err != nil {
		logrus.WithError(err).Fatal("Bot initialization failed")
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open database")
	}
	defer store.Close()

	var redditManager *reddit.Manager
	if cfg.RedditClientID != "" {
		redditManager = reddit.New(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditRedirectURL, store)
		logrus.Info("Reddit account linking enabled")
	}

	janitor := cleanup.New(cfg.DownloadDir, cfg.CleanupDelay)

	directDL := direct.New(cfg.DownloadDir, int(cfg.ChunkSize))

	var videoEngine downloader.Downloader
	if !cfg.YtdlpDisabled {
		if _, err := exec.LookPath(cfg.YtdlpPath); err != nil {
			logrus.WithField("path", cfg.YtdlpPath).Warn("yt-dlp not found, YouTube links fall back to the native engine")
		} else {
			videoEngine = ytdlp.New(cfg.YtdlpPath, cfg.DownloadDir, cfg.MaxVideoHeight, cfg.ExtractTimeout)
		}
	}

	var bridge delivery.Bridge
	if cfg.BridgeEnabled() {
		bridge = &delivery.TelegramBridge{Client: client, ChannelID: cfg.BridgeChannelID}
		logrus.WithField("channel_id", cfg.BridgeChannelID).Info("Bridge channel configured")
	}

	pipe := &pipeline.Pipeline{
		Classifier:    &classify.Classifier{ScrapeDomain: cfg.ScrapeDomain},
		Direct:        directDL,
		Scrape:        scrape.New(directDL),
		VideoEngine:   videoEngine,
		NativeYouTube: ytnative.New(cfg.DownloadDir, cfg.MaxVideoHeight),
		Torrent:       torrent.New(cfg.DownloadDir),
		Router: &delivery.Router{
			Channel: &delivery.TelegramChannel{Client: client, Ceiling: cfg.UploadCeiling()},
			Bridge:  bridge,
		},
		Messenger:        client,
		Janitor:          janitor,
		ProgressInterval: cfg.ProgressInterval,
		ExtractTimeout:   cfg.ExtractTimeout,
	}

	handler := &handlers.Handler{
		Messenger: client,
		Auth:      auth.New(cfg.AllowAll, cfg.AuthorizedUsers),
		Pipeline:  pipe,
		Reddit:    redditManager,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		updates := client.Updates(60)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case update, ok := <-updates:
				if !ok {
					return errors.New("update channel closed")
				}
				go handler.HandleUpdate(ctx, update)
			}
		}
	})

	if redditManager != nil && redditManager.Configured() {
		srv := redditManager.Server(cfg.AuthListenAddr, func(userID, chatID int64) {
			if _, err := client.SendMessage(chatID, lang.GetMessage(lang.RedditLinkedMsgID)); err != nil {
				logrus.WithError(err).Warn("Could not confirm Reddit link in chat")
			}
		})
		g.Go(func() error {
			logrus.WithField("addr", cfg.AuthListenAddr).Info("OAuth callback server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	logrus.Info("Relay bot started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Error("Shutting down after error")
	}

	janitor.Wait()
	logrus.Info("Relay bot shutdown complete")
}
