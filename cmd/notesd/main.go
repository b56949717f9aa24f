// ABOUTME: Entry point for the notesd API server
// ABOUTME: Subcommands for serving, config bootstrap, health checks, and token minting

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/inotebook/notesd/internal/auth"
	"github.com/inotebook/notesd/internal/config"
	"github.com/inotebook/notesd/internal/server"
	"github.com/inotebook/notesd/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
             _                 _
 _ __   ___ | |_ ___  ___  __| |
| '_ \ / _ \| __/ _ \/ __|/ _' |
| | | | (_) | ||  __/\__ \ (_| |
|_| |_|\___/ \__\___||___/\__,_|
`

const exampleConfig = `server:
  http_addr: ":5000"

database:
  path: "notesd.db"

auth:
  # At least 32 bytes. ${VAR} references are expanded from the environment.
  jwt_secret: "${NOTESD_JWT_SECRET}"

logging:
  level: "info"
  format: "text"
`

// getConfigPath returns the path to the notesd config file.
// Priority: NOTESD_CONFIG env var > XDG_CONFIG_HOME/notesd/notesd.yaml > ~/.config/notesd/notesd.yaml
func getConfigPath() string {
	if envPath := os.Getenv("NOTESD_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "notesd.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "notesd", "notesd.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: notesd <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                    Start the API server")
		fmt.Println("  init                     Write an example config file")
		fmt.Println("  health                   Check server health")
		fmt.Println("  mktoken --user WHO       Mint a credential for an existing user (ID, email, or username)")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	case "mktoken":
		err = runMkToken(ctx, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	fmt.Println()

	logger.Info("starting notesd",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	srv, err := server.New(cfg, st, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Run(ctx)
}

func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Wrote example config to %s\n", configPath)
	fmt.Println("Set NOTESD_JWT_SECRET before starting the server.")
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.Server.HTTPAddr
	if addr[0] == ':' {
		addr = "localhost" + addr
	}
	url := "http://" + addr + "/health"

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Printf("%s: ", url)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		color.Red("UNREACHABLE (%v)\n", err)
		return errors.New("server unreachable")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		color.Red("UNHEALTHY (status %d)\n", resp.StatusCode)
		return errors.New("server unhealthy")
	}

	color.Green("OK\n")
	return nil
}

// findUser resolves an operator-supplied identifier to a user record,
// trying ID, then email, then username.
func findUser(ctx context.Context, st store.UserStore, arg string) (*store.User, error) {
	user, err := st.GetUser(ctx, arg)
	if errors.Is(err, store.ErrNotFound) {
		user, err = st.GetUserByEmail(ctx, arg)
	}
	if errors.Is(err, store.ErrNotFound) {
		user, err = st.GetUserByUsername(ctx, arg)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("no user matches %q", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

// runMkToken mints a credential for an existing user, identified by ID,
// email, or username. Operator tool for debugging and scripted clients.
func runMkToken(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mktoken", flag.ExitOnError)
	userArg := fs.String("user", "", "user ID, email, or username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userArg == "" {
		return errors.New("--user is required")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	user, err := findUser(ctx, st, *userArg)
	if err != nil {
		return err
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating token codec: %w", err)
	}

	token, err := codec.Issue(user.ID, auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	green.Print("✓ ")
	fmt.Print("Token for ")
	cyan.Printf("%s", user.Email)
	fmt.Printf(" (expires in %s):\n\n%s\n", auth.TokenTTL, token)
	return nil
}
