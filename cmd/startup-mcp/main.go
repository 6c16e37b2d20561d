// ABOUTME: Entry point for the startup-mcp server
// ABOUTME: Serves the MCP tools over HTTP and offers local helper commands

package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/Prahants/mcp-startup-generator/internal/auth"
	"github.com/Prahants/mcp-startup-generator/internal/config"
	"github.com/Prahants/mcp-startup-generator/internal/gateway"
	"github.com/Prahants/mcp-startup-generator/internal/idea"
)

// version is set at build time via ldflags.
var version = "dev"

const banner = `
     _             _
 ___| |_ __ _ _ __| |_ _   _ _ __        _ __ ___   ___ _ __
/ __| __/ _' | '__| __| | | | '_ \ _____| '_ ' _ \ / __| '_ \
\__ \ || (_| | |  | |_| |_| | |_) |_____| | | | | | (__| |_) |
|___/\__\__,_|_|   \__|\__,_| .__/      |_| |_| |_|\___| .__/
                            |_|                        |_|
`

func usage() {
	fmt.Println("Usage: startup-mcp <command> [-config PATH]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                  Start the MCP server")
	fmt.Println("  init                   Create a new config file interactively")
	fmt.Println("  health                 Check server health")
	fmt.Println("  info                   Show server info")
	fmt.Println("  token [-sub NAME]      Mint a JWT bearer token (needs auth.jwt_secret)")
	fmt.Println("  idea CONCEPT           Print a startup idea without starting the server")
	fmt.Println("  version                Print the version")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx, args)
	case "init":
		err = runInit(os.Stdin, os.Stdout)
	case "health":
		err = runHealth(ctx, args)
	case "info":
		err = runInfo(ctx, args)
	case "token":
		err = runToken(args)
	case "idea":
		err = runIdea(os.Stdout, args)
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig parses args into fs (which gains a -config flag) and loads the
// resolved config file.
func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, string, error) {
	configFlag := fs.String("config", "", "path to config file (.yaml, .yml, .toml)")
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}

	path := config.ResolvePath(*configFlag)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

func runServe(ctx context.Context, args []string) error {
	cfg, configPath, err := loadConfig(flag.NewFlagSet("serve", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if configPath == "" {
		configPath = "(defaults + environment)"
	}
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Addr())
	green.Print("    ▶ ")
	fmt.Printf("MCP:       %s\n", cfg.Server.EndpointPath)
	if cfg.Auth.JWTSecret != "" {
		green.Print("    ▶ ")
		fmt.Println("JWT:       enabled")
	}
	if cfg.Demo.Enabled {
		green.Print("    ▶ ")
		fmt.Print("Demo:      /")
		yellow.Print(" [no auth]")
		fmt.Println()
	}
	fmt.Println()

	logger.Info("starting startup-mcp",
		"config", configPath,
		"addr", cfg.Addr(),
		"version", version,
	)

	gateway.Version = version
	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

// localURL builds a URL for reaching the server from this host. Wildcard
// listen addresses are replaced with loopback.
func localURL(cfg *config.Config, path string) string {
	host := cfg.Server.Host
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Server.Port)) + path
}

func runHealth(ctx context.Context, args []string) error {
	cfg, _, err := loadConfig(flag.NewFlagSet("health", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, localURL(cfg, "/health"), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func runInfo(ctx context.Context, args []string) error {
	cfg, _, err := loadConfig(flag.NewFlagSet("info", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, localURL(cfg, "/info"), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.Auth.Token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("info: status %d", resp.StatusCode)
	}

	var info gateway.InfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("decoding info: %w", err)
	}
	printInfo(os.Stdout, &info)
	return nil
}

func printInfo(w io.Writer, info *gateway.InfoResponse) {
	cyan := color.New(color.FgCyan)
	cyan.Fprintf(w, "  %s\n", info.ServerName)
	fmt.Fprintf(w, "  Status:    %s\n", info.Status)
	fmt.Fprintf(w, "  Version:   %s\n", info.Version)
	fmt.Fprintf(w, "  Server ID: %s\n", info.ServerID)
	fmt.Fprintf(w, "  Endpoint:  %s\n", info.Endpoint)
	fmt.Fprintf(w, "  Phone:     %s\n", configured(info.PhoneConfigured))
	fmt.Fprintf(w, "  JWT:       %s\n", configured(info.JWTEnabled))
	fmt.Fprintf(w, "  Demo:      %s\n", configured(info.DemoEnabled))
	fmt.Fprintf(w, "  Uptime:    %s\n", time.Duration(info.UptimeSeconds)*time.Second)
	fmt.Fprintf(w, "  Tools:     %s\n", strings.Join(info.Tools, ", "))
	fmt.Fprintf(w, "  Clients:   %d\n", info.ClientsTotal)
	for _, c := range info.RecentClients {
		fmt.Fprintf(w, "    - %s %s (%s) %s\n", c.Name, c.Version, c.ProtocolVersion, c.ConnectedAt.Format(time.RFC3339))
	}
}

func configured(b bool) string {
	if b {
		return "configured"
	}
	return "not configured"
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	sub := fs.String("sub", "operator", "token subject")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token lifetime")
	cfg, _, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is not set")
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating verifier: %w", err)
	}
	token, err := verifier.Generate(*sub, *ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}
	fmt.Println(token)
	return nil
}

func runIdea(w io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: startup-mcp idea CONCEPT")
	}
	fmt.Fprintln(w, idea.Generate(strings.Join(args, " ")))
	return nil
}

func runInit(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "startup-mcp configuration setup")
	fmt.Fprintln(out, "===============================")
	fmt.Fprintln(out)

	defaultPath := config.ResolvePath("")
	if defaultPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		defaultPath = filepath.Join(dir, "startup-mcp", "config.yaml")
	}
	outputFile := prompt(reader, out, "Config file path", defaultPath)

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, out, "File exists. Overwrite?", "no")
		if !isYes(overwrite) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	generated, err := randomToken(32)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Fprintln(out, "\n--- Server ---")
	host := prompt(reader, out, "Listen host", config.DefaultHost)
	port := prompt(reader, out, "Listen port", strconv.Itoa(config.DefaultPort))

	fmt.Fprintln(out, "\n--- Auth ---")
	token := prompt(reader, out, "Bearer token", generated)
	phone := prompt(reader, out, "Owner phone number (country code, no +)", "")
	useJWT := prompt(reader, out, "Also accept JWTs?", "no")

	fmt.Fprintln(out, "\n--- Logging ---")
	logLevel := prompt(reader, out, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, out, "Log format (text/json)", "text")

	var cfg strings.Builder
	cfg.WriteString("# startup-mcp configuration\n")
	cfg.WriteString("# Generated by startup-mcp init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  host: %q\n", host))
	cfg.WriteString(fmt.Sprintf("  port: %s\n", port))
	cfg.WriteString("\n")

	cfg.WriteString("auth:\n")
	cfg.WriteString(fmt.Sprintf("  token: %q\n", token))
	if isYes(useJWT) {
		secret, err := randomToken(48)
		if err != nil {
			return fmt.Errorf("generating JWT secret: %w", err)
		}
		cfg.WriteString(fmt.Sprintf("  jwt_secret: %q\n", secret))
	}
	cfg.WriteString("\n")

	cfg.WriteString("owner:\n")
	cfg.WriteString(fmt.Sprintf("  phone: %q\n", phone))
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: %q\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: %q\n", logFormat))

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(out, "\nConfig written to %s\n", outputFile)
	fmt.Fprintln(out, "\nTo start the server:")
	fmt.Fprintf(out, "  startup-mcp serve -config %s\n", outputFile)

	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, defaultVal)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	input, err := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if err != nil && input == "" {
		// On EOF or error, return default
		fmt.Fprintln(out)
		return defaultVal
	}

	if input == "" {
		return defaultVal
	}
	return input
}

func isYes(s string) bool {
	s = strings.ToLower(s)
	return s == "yes" || s == "y"
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
