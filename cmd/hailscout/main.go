package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/hailscout/hailscout/internal/api"
	"github.com/hailscout/hailscout/internal/checker"
	"github.com/hailscout/hailscout/internal/fetch"
	"github.com/hailscout/hailscout/internal/notify"
	"github.com/hailscout/hailscout/internal/nws"
	"github.com/hailscout/hailscout/internal/store"
)

type CLI struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,help='Path to an optional .env file.'"`

	DB       string `env:"HAILSCOUT_DB" default:"data/hailscout.db" help:"Path to the sqlite database."`
	Addr     string `env:"HAILSCOUT_ADDR" default:":8080" help:"Admin HTTP listen address."`
	Contact  string `env:"HAILSCOUT_CONTACT" required:"" help:"Contact email sent in the NWS User-Agent (required by the API)."`
	Cron     string `env:"HAILSCOUT_CRON" default:"*/30 * * * *" help:"Check cycle schedule."`
	Once     bool   `help:"Run a single check cycle and exit."`
	NoPoll   bool   `help:"Disable scheduled checks (server only, for local dev)."`

	LogLevel  string `env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level."`
	LogFormat string `env:"LOG_FORMAT" default:"text" enum:"text,json" help:"Log output format."`

	EmailFrom    string `env:"EMAIL_FROM" default:"alerts@hailscout.local" help:"Digest sender address."`
	ResendAPIKey string `env:"RESEND_API_KEY" help:"Resend API key; when set, digests go through Resend."`
	SMTPHost     string `env:"SMTP_HOST" default:"localhost" help:"SMTP relay host (used when Resend is not configured)."`
	SMTPPort     int    `env:"SMTP_PORT" default:"1025" help:"SMTP relay port."`
	SMTPUser     string `env:"SMTP_USER" help:"SMTP username."`
	SMTPPassword string `env:"SMTP_PASSWORD" help:"SMTP password."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("hailscout"),
		kong.Description("Polls NWS severe-weather alerts and emails canvassing digests to subscribers."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	logger := newLogger(cli.LogLevel, cli.LogFormat)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		logger.Error("open database", "path", cli.DB, "error", err)
		kctx.Exit(1)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db, logger)
	if err := st.Migrate(); err != nil {
		logger.Error("migrate database", "error", err)
		kctx.Exit(1)
	}

	var mailer notify.Mailer
	if cli.ResendAPIKey != "" {
		mailer = notify.NewResendMailer(cli.ResendAPIKey)
		logger.Info("email delivery via resend")
	} else {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cli.SMTPHost,
			Port:     cli.SMTPPort,
			User:     cli.SMTPUser,
			Password: cli.SMTPPassword,
		})
		logger.Info("email delivery via smtp", "host", cli.SMTPHost, "port", cli.SMTPPort)
	}

	client := nws.NewClient(cli.Contact, logger)
	fetcher := fetch.New(client, logger)
	gateway := notify.NewGateway(mailer, cli.EmailFrom, logger)
	ch := checker.New(fetcher, st, st, gateway, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cli.Once {
		logger.Info("running single check cycle")
		result := ch.RunCycle(ctx)
		logger.Info("done", "storms", result.StormsQualified, "emails_sent", result.EmailsSent)
		return
	}

	if !cli.NoPoll {
		go func() {
			if err := ch.Schedule(ctx, cli.Cron); err != nil {
				logger.Error("scheduler failed", "error", err)
				cancel()
			}
		}()
	} else {
		logger.Info("scheduled checks disabled (--no-poll)")
	}

	server := api.NewServer(st, ch, cli.Addr, logger)
	if err := server.Run(ctx); err != nil {
		logger.Error("server failed", "error", err)
		kctx.Exit(1)
	}
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
