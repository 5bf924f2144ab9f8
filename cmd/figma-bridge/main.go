package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	figmabridge "github.com/kataras/figma-bridge"
	"github.com/kataras/figma-bridge/internal/config"
	"github.com/kataras/figma-bridge/pkg/figma"
	"github.com/kataras/figma-bridge/pkg/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = figma.Version

var (
	configPath  string
	accessToken string
	quiet       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "figma-bridge",
		Short:         "Screenshots, icons and Tailwind themes from Figma files",
		Long:          "A bridge to the Figma REST API: optimized node screenshots, icon detection and SVG export, and Tailwind themes built from design variables",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (optional)")
	rootCmd.PersistentFlags().StringVarP(&accessToken, "token", "t", "", "Figma Personal Access Token (overrides figma.token and FIGMA_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-bridge version %s\n", version)
		},
	}

	rootCmd.AddCommand(
		newScreenshotCmd(),
		newIconsCmd(),
		newThemeCmd(),
		newAssetsCmd(),
		newServeCmd(),
		versionCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if accessToken != "" {
		cfg.Figma.Token = accessToken
	}
	return cfg, nil
}

func newClient(cfg *config.Config, token string, opts ...figma.Option) *figma.Client {
	opts = append([]figma.Option{
		figma.WithBaseURL(cfg.Figma.APIBase),
		figma.WithRateLimit(cfg.Figma.RateLimit),
		figma.WithTimeout(cfg.Figma.Timeout),
	}, opts...)
	return figma.NewClient(token, opts...)
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	return storage.Open(storage.Config{
		Dir:       cfg.Storage.Dir,
		PublicURL: cfg.FilesURL(),
		DBPath:    cfg.Storage.DB,
	})
}

// newService wires a service for one CLI command. The store is opened only when asked for;
// the caller closes it.
func newService(cfg *config.Config, withStore, needToken bool) (*figmabridge.Service, *storage.Store, error) {
	if needToken && cfg.Figma.Token == "" {
		return nil, nil, fmt.Errorf("a Figma token is required: pass --token or set FIGMA_TOKEN")
	}

	svc := figmabridge.New(nil, nil, newCLILogger())
	if cfg.Figma.Token != "" {
		svc.API = newClient(cfg, cfg.Figma.Token)
	}

	if !withStore {
		return svc, nil, nil
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc.Storage = store
	return svc, store, nil
}

// cliLogger implements figmabridge.Logger with colored terminal output on stderr,
// keeping stdout for results.
type cliLogger struct{}

func newCLILogger() figmabridge.Logger {
	if quiet {
		return nil
	}
	return &cliLogger{}
}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}
