// Command youtube-login is a small web server letting users log in with their YouTube account.
//
// Configuration comes from flags, which default to the YOUTUBE_* environment
// variables, optionally loaded from a .env file in the current directory.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dunice-shabanov/passport-youtube/lib/kflags"
	"github.com/dunice-shabanov/passport-youtube/lib/khttp/krequestlog"
	"github.com/dunice-shabanov/passport-youtube/lib/logger"
	"github.com/dunice-shabanov/passport-youtube/lib/logger/klog"
	"github.com/dunice-shabanov/passport-youtube/lib/oauth"
	"github.com/dunice-shabanov/passport-youtube/lib/oauth/otesting"
	"github.com/dunice-shabanov/passport-youtube/lib/oauth/oyoutube"
	"github.com/dunice-shabanov/passport-youtube/lib/token"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type environment struct {
	ClientID     string `env:"YOUTUBE_CLIENT_ID"`
	ClientSecret string `env:"YOUTUBE_CLIENT_SECRET"`
	CallbackURL  string `env:"YOUTUBE_CALLBACK_URL"`
	SymmetricKey string `env:"YOUTUBE_SYMMETRIC_KEY"`
	HostedDomain string `env:"YOUTUBE_HOSTED_DOMAIN"`
	Listen       string `env:"LISTEN_ADDRESS" envDefault:":8080"`
}

func loadEnvironment() (*environment, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	var e environment
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &e, nil
}

type Flags struct {
	Listen       string
	HostedDomain string
	LogFile      string
	Debug        bool
	AssumeUser   string

	YouTube    *oyoutube.Flags
	RequestLog *krequestlog.Flags
}

func DefaultFlags(e *environment) *Flags {
	youtube := oyoutube.DefaultFlags()
	youtube.ClientID = e.ClientID
	youtube.ClientSecret = e.ClientSecret
	youtube.CallbackURL = e.CallbackURL
	youtube.Scopes = "https://gdata.youtube.com"
	youtube.OAuth.SymmetricKey = e.SymmetricKey

	return &Flags{
		Listen:       e.Listen,
		HostedDomain: e.HostedDomain,
		YouTube:      youtube,
		RequestLog:   krequestlog.DefaultFlags(),
	}
}

func (f *Flags) Register(set kflags.FlagSet, prefix string) *Flags {
	set.StringVar(&f.Listen, prefix+"listen", f.Listen, "Address to listen on")
	set.StringVar(&f.HostedDomain, prefix+"hosted-domain", f.HostedDomain, "If set, only accounts of this Google Workspace domain are offered at login")
	set.StringVar(&f.LogFile, prefix+"log-file", f.LogFile, "If set, log messages are also appended to this file, at debug level")
	set.BoolVar(&f.Debug, prefix+"debug", f.Debug, "Show debug messages on the console")
	set.StringVar(&f.AssumeUser, prefix+"assume-user", f.AssumeUser, "For local development only - consider every request to protected pages authenticated as this user")
	f.YouTube.Register(set, prefix)
	f.RequestLog.Register(set, prefix)
	return f
}

func newLogger(flags *Flags) (logger.Logger, func(), error) {
	console := klog.NewZap(os.Stderr, flags.Debug)
	if flags.LogFile == "" {
		return console, func() { console.Sync() }, nil
	}

	file, err := os.OpenFile(flags.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}
	tofile := klog.NewZap(file, true)
	return klog.NewTee(console, tofile), func() {
		console.Sync()
		tofile.Sync()
		file.Close()
	}, nil
}

func newServer(log logger.Logger, flags *Flags) (*server, error) {
	// Login and credential checks need the same key, don't let each generate its own.
	if flags.YouTube.OAuth.SymmetricKey == "" {
		key, err := token.GenerateSymmetricKey(rand.Reader, 256)
		if err != nil {
			return nil, err
		}
		log.Warnf("no symmetric key configured - credentials will not survive a restart")
		flags.YouTube.OAuth.SymmetricKey = hex.EncodeToString(key)
	}

	strategy, err := oyoutube.New(nil, oyoutube.WithLogger(log), oyoutube.FromFlags(flags.YouTube))
	if err != nil {
		return nil, err
	}
	s := &server{
		log:          log,
		registry:     oauth.NewRegistry(strategy),
		hostedDomain: flags.HostedDomain,
	}
	if flags.AssumeUser != "" {
		log.Warnf("assuming all requests come from %s - DO NOT USE IN PRODUCTION", flags.AssumeUser)
		s.checker = otesting.NewAuthenticator(flags.AssumeUser)
		return s, nil
	}

	redirector, err := oauth.NewRedirector("/auth/"+strategy.Name()+"/login", oauth.WithLogger(log), oauth.FromFlags(flags.YouTube.OAuth))
	if err != nil {
		return nil, err
	}
	redirector.DefaultTarget = "/"
	s.checker = redirector
	return s, nil
}

func run(ctx context.Context, flags *Flags) error {
	log, closer, err := newLogger(flags)
	if err != nil {
		return err
	}
	defer closer()

	s, err := newServer(log, flags)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              flags.Listen,
		Handler:           krequestlog.NewHandler(s.Handler(), krequestlog.WithLogger(log), krequestlog.FromFlags(flags.RequestLog)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("listening on %s, providers %v", flags.Listen, s.registry.Names())
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Infof("shutting down")
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}

func newCommand(e *environment) *cobra.Command {
	flags := DefaultFlags(e)

	root := &cobra.Command{
		Use:          "youtube-login",
		Short:        "Web server authenticating users with their YouTube account",
		SilenceUsage: true,
		Example: `  $ youtube-login --youtube-client-id=... --youtube-client-secret=... \
      --youtube-callback-url=http://localhost:8080/auth/youtube/callback`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), flags)
			var ue *kflags.UsageError
			if errors.As(err, &ue) {
				cmd.Usage()
			}
			return err
		},
	}
	flags.Register(root.Flags(), "")
	return root
}

func main() {
	e, err := loadEnvironment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(e).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
