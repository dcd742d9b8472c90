// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wavetermdev/activelink/navconfig"
	"github.com/wavetermdev/activelink/navmenu"
)

// these are set at build time
var ActiveLinkVersion = "0.0.0"
var BuildTime = "0"

// flag defaults, read from the environment (or a .env file)
const (
	NavFileEnvName = "ACTIVELINK_NAV"
	PathEnvName    = "ACTIVELINK_PATH"
)

var renderFlags struct {
	NavFile string
	Path    string
	Json    bool
	Watch   bool
}

var rootCmd = &cobra.Command{
	Use:   "activelink",
	Short: "ActiveLink - render navigation menus with active link state",
	Long:  `ActiveLink renders navigation menus defined in a JSON nav file, marking the links that match a given path as active.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print ActiveLink version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("v%s (%s)\n", ActiveLinkVersion, BuildTime)
	},
}

var renderCmd = &cobra.Command{
	Use:     "render",
	Short:   "Render a nav file as HTML for a path",
	Args:    cobra.NoArgs,
	PreRunE: loadEnv,
	RunE:    runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFlags.NavFile, "nav", "n", "nav.json", "nav config file")
	renderCmd.Flags().StringVarP(&renderFlags.Path, "path", "p", "/", "current path (may include query and hash)")
	renderCmd.Flags().BoolVar(&renderFlags.Json, "json", false, "output the rendered element tree as json")
	renderCmd.Flags().BoolVarP(&renderFlags.Watch, "watch", "w", false, "re-render whenever the nav file changes")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renderCmd)
}

func loadEnv(cmd *cobra.Command, args []string) error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	if navFile := os.Getenv(NavFileEnvName); navFile != "" && !cmd.Flags().Changed("nav") {
		renderFlags.NavFile = navFile
	}
	if path := os.Getenv(PathEnvName); path != "" && !cmd.Flags().Changed("path") {
		renderFlags.Path = path
	}
	return nil
}

func renderOnce(ctx context.Context, cfg *navconfig.NavConfig) error {
	r, err := navmenu.NewRouter(cfg, renderFlags.Path)
	if err != nil {
		return err
	}
	nr, err := navmenu.MakeRenderer(r)
	if err != nil {
		return err
	}
	if renderFlags.Json {
		if err := nr.Render(ctx, cfg); err != nil {
			return err
		}
		barr, err := json.MarshalIndent(nr.Root.MakeRendered(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(barr))
		return nil
	}
	html, err := nr.RenderHTML(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Println(html)
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if !renderFlags.Watch {
		cfg, err := navconfig.ReadNavConfig(renderFlags.NavFile)
		if err != nil {
			return err
		}
		return renderOnce(ctx, cfg)
	}
	watcher, err := navconfig.MakeWatcher(renderFlags.NavFile, func(cfg *navconfig.NavConfig, err error) {
		if err != nil {
			log.Printf("[activelink-cli] %v\n", err)
			return
		}
		if err := renderOnce(ctx, cfg); err != nil {
			log.Printf("[activelink-cli] render error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	defer watcher.Close()
	watcher.Start()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
