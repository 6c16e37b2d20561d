// Package main is the entry point for startup-cli, a command-line client for
// a running startup-mcp server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Prahants/mcp-startup-generator/internal/client"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultURL = "http://localhost:8086/mcp"

// newRootCmd builds the command tree. Settings resolve flag > environment >
// config file > default through v.
func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "startup-cli",
		Short: "Call the tools of a running startup-mcp server",
		Long: `startup-cli connects to a startup-mcp server over MCP Streamable HTTP and
calls its tools: validate, startup_idea_generator, job_finder, and
make_img_black_and_white.

The endpoint and bearer token come from --url/--token, the STARTUP_CLI_URL and
STARTUP_CLI_TOKEN (or AUTH_TOKEN) environment variables, or a startup-cli.yaml
config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: ./startup-cli.yaml or ~/.config/startup-mcp/startup-cli.yaml)")
	pf.String("url", defaultURL, "MCP endpoint URL")
	pf.String("token", "", "bearer token")
	pf.Duration("timeout", client.DefaultTimeout, "per-request timeout")

	for _, key := range []string{"url", "token", "timeout"} {
		_ = v.BindPFlag(key, pf.Lookup(key))
	}

	root.AddCommand(
		newValidateCmd(v),
		newIdeaCmd(v),
		newJobsCmd(v),
		newBlackAndWhiteCmd(v),
		newToolsCmd(v),
		newVersionCmd(),
	)
	return root
}

func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("startup-cli")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "startup-mcp"))
		}
	}

	v.SetEnvPrefix("STARTUP_CLI")
	v.AutomaticEnv()
	_ = v.BindEnv("token", "STARTUP_CLI_TOKEN", "AUTH_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// dial opens an MCP session using the resolved settings.
func dial(cmd *cobra.Command, v *viper.Viper) (*client.Client, error) {
	return client.Dial(cmd.Context(), client.Config{
		URL:           v.GetString("url"),
		Token:         v.GetString("token"),
		Timeout:       v.GetDuration("timeout"),
		ClientName:    "startup-cli",
		ClientVersion: version,
	})
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
