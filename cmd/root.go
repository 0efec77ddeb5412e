package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaaskel/vaaskel/api"
	"github.com/vaaskel/vaaskel/cache"
	"github.com/vaaskel/vaaskel/config"
	"github.com/vaaskel/vaaskel/database"
	"github.com/vaaskel/vaaskel/pkg/password"
	"github.com/vaaskel/vaaskel/service"
)

var rootCmdPersistentFlags struct {
	LogFile    string
	ConfigFile string
	LogLevel   string
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogFile, "log-file", "", "File to write logs to")
	rootCmd.PersistentFlags().StringVarP(&rootCmdPersistentFlags.ConfigFile, "config", "c", "", "Path to config file (default: search for config.yml in current dir, ~/.vaaskel, /etc/vaaskel)")
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error) - overrides config file setting")
}

var rootCmd = &cobra.Command{
	Use:   "vaaskel",
	Short: "Vaaskel is a small user administration server",
	Long:  `Vaaskel serves a user administration API with session login, role management and per-user theme settings.`,
	Example: `vaaskel --config config.yml
  vaaskel -c /path/to/config.yml --log-level debug
  vaaskel --log-level info  # searches for config in default locations`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logToFile()
	},
	Run: root,
}

func root(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if rootCmdPersistentFlags.LogLevel != "" {
		setLogLevel(rootCmdPersistentFlags.LogLevel)
	} else {
		setLogLevel(cfg.LogLevel)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint: errcheck

	users := service.NewUserService(db, password.NewBcrypt(bcrypt.DefaultCost))
	settings := service.NewSettingsService(db)

	if cfg.Bootstrap != nil && cfg.Bootstrap.Enabled {
		bootstrap := service.NewBootstrap(db, users)
		if err := bootstrap.FirstStart(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Password); err != nil {
			log.Fatalf("failed to bootstrap initial user: %v", err)
		}
	}

	sharedCache := cache.New(cfg.Cache)

	server, err := api.New(cfg, users, settings, sharedCache)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	// Start the API server in a goroutine
	go func() {
		log.Info("starting API server", "listen", cfg.Listen)
		if err := server.Run(); err != nil {
			log.Error("API server error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	log.Info("vaaskel started successfully")
	<-c
	log.Info("shutting down gracefully...")

	// Give time for graceful shutdown
	cancel()
	time.Sleep(2 * time.Second)
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("unknown log level %s, defaulting to info", level)
		log.SetLevel(log.InfoLevel)
	}
}

func logToFile() {
	if rootCmdPersistentFlags.LogFile == "" {
		return
	}
	file, err := os.OpenFile(rootCmdPersistentFlags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		log.Errorf("failed to open log file: %v", err)
		return
	}

	// Create a multi-writer that writes to both console and file
	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.Info("logging to both console and file", "file", rootCmdPersistentFlags.LogFile)
}

func Execute() error {
	return rootCmd.Execute()
}
