package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"quill/internal/app"
	quillclient "quill/internal/client"
	"quill/internal/config"
	"quill/internal/daemon"
	"quill/internal/logging"
	"quill/internal/store"
)

const usageText = `quill is a notebook and note manager.

Usage:
  quill <command> [flags]

Commands:
  daemon   run background daemon
  ui       run terminal UI
  books    list notebooks
  config   show effective configuration
  help     show help

Flags:
  -h, --help   show help

Daemon flags:
  --background    run in background (logs to file)
  --force         stop any running daemon before starting
  --kill          stop any running daemon and exit

Examples:
  quill daemon --background
  quill ui
  quill books
`

const version = "dev"

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	case "daemon":
		exitOnErr("daemon", runDaemonCommand(args[1:]))
	case "ui":
		exitOnErr("ui", runUI(args[1:]))
	case "books":
		exitOnErr("books", runBooks(args[1:]))
	case "config":
		exitOnErr("config", runConfig(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func runDaemonCommand(args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	background := fs.Bool("background", false, "run in background (logs to file)")
	kill := fs.Bool("kill", false, "stop any running daemon and exit")
	force := fs.Bool("force", false, "stop any running daemon before starting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *kill {
		return killDaemon()
	}
	if *force {
		if err := killDaemon(); err != nil {
			return err
		}
	}
	return runDaemon(*background)
}

func runDaemon(background bool) error {
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}

	tokenPath, err := config.TokenPath()
	if err != nil {
		return err
	}
	token, err := daemon.LoadOrCreateToken(tokenPath)
	if err != nil {
		return err
	}

	cfg, err := config.LoadCoreConfig()
	if err != nil {
		return err
	}

	logOut := io.Writer(os.Stderr)
	if background {
		file, err := openDaemonLog()
		if err != nil {
			return err
		}
		defer file.Close()
		logOut = file
	}
	logger := logging.New(logOut, logging.ParseLevel(cfg.LogLevel()))

	paths, err := repositoryPaths()
	if err != nil {
		return err
	}
	repo, err := store.OpenRepository(paths, cfg.StorageBackend())
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.SeedRepositoryFromFiles(ctx, repo, paths); err != nil {
		return err
	}

	stores := &daemon.Stores{
		Notebooks: repo.Notebooks(),
		Notes:     repo.Notes(),
	}

	d := daemon.New(cfg.DaemonAddress(), token, buildVersion(), logger, stores)
	return d.Run(ctx)
}

func repositoryPaths() (store.RepositoryPaths, error) {
	notebooksPath, err := config.NotebooksPath()
	if err != nil {
		return store.RepositoryPaths{}, err
	}
	notesPath, err := config.NotesPath()
	if err != nil {
		return store.RepositoryPaths{}, err
	}
	dbPath, err := config.DBPath()
	if err != nil {
		return store.RepositoryPaths{}, err
	}
	return store.RepositoryPaths{
		NotebooksPath: notebooksPath,
		NotesPath:     notesPath,
		DBPath:        dbPath,
	}, nil
}

func openDaemonLog() (*os.File, error) {
	logPath, err := config.DaemonLogPath()
	if err != nil {
		return nil, err
	}
	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

func killDaemon() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := quillclient.New()
	if err != nil {
		return err
	}
	if err := client.ShutdownDaemon(ctx); err == nil {
		return nil
	} else {
		var apiErr *quillclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil
		}
		if isDaemonUnavailable(err) {
			return nil
		}
	}
	resp, err := client.Health(ctx)
	if err != nil {
		if isDaemonUnavailable(err) {
			return nil
		}
		return err
	}
	if resp == nil || resp.PID <= 0 {
		return nil
	}
	return terminatePID(resp.PID)
}

func terminatePID(pid int) error {
	if pid <= 0 {
		return errors.New("invalid pid")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(syscall.SIGTERM)
}

func isDaemonUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "connection refused") || strings.Contains(lower, "connect: connection refused")
}

func runUI(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadCoreConfig()
	if err != nil {
		return err
	}
	client, err := quillclient.New()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Health(ctx); err != nil {
		if isDaemonUnavailable(err) {
			return errors.New("daemon is not running, start it with: quill daemon --background")
		}
		return err
	}

	logger, closeLog := uiLogger(cfg)
	defer closeLog()

	return app.Run(client, app.ModelOptions{
		Logger:           logger,
		AutosaveDebounce: cfg.AutosaveDebounce(),
	})
}

// uiLogger logs to a file so logfmt lines do not land in the alt screen.
func uiLogger(cfg config.CoreConfig) (logging.Logger, func()) {
	logPath, err := config.UILogPath()
	if err != nil {
		return logging.Nop(), func() {}
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return logging.Nop(), func() {}
	}
	return logging.New(file, logging.ParseLevel(cfg.LogLevel())), func() { _ = file.Close() }
}

func runBooks(args []string) error {
	fs := flag.NewFlagSet("books", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := quillclient.New()
	if err != nil {
		return err
	}
	notebooks, err := client.ListNotebooks(ctx)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tCREATED")
	for _, nb := range notebooks {
		created := "-"
		if !nb.CreatedAt.IsZero() {
			created = nb.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", nb.ID, nb.Name, created)
	}
	return writer.Flush()
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadCoreConfig()
	if err != nil {
		return err
	}
	path, err := config.CoreConfigPath()
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(writer, "config file\t%s\n", path)
	fmt.Fprintf(writer, "daemon address\t%s\n", cfg.DaemonAddress())
	fmt.Fprintf(writer, "storage backend\t%s\n", cfg.StorageBackend())
	fmt.Fprintf(writer, "log level\t%s\n", cfg.LogLevel())
	fmt.Fprintf(writer, "autosave debounce\t%s\n", cfg.AutosaveDebounce())
	return writer.Flush()
}

func exitOnErr(label string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
