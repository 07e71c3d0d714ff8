/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/gaps/engine"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/desktop"
	"github.com/spaghettifunk/gaps/testbed"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	ConfigPath  string
	LogLevel    string
	TexturePath string
}

func newRootCommand(exitCode *int) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "gaps",
		Short:        "Gaps - minimal real-time engine sandbox",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := engine.DefaultApplicationConfig()
			if opts.ConfigPath != "" {
				c, err := engine.LoadConfig(opts.ConfigPath)
				if err != nil {
					return err
				}
				config = c
			}
			if opts.LogLevel != "" {
				config.LogLevel = opts.LogLevel
			}

			*exitCode = run(config, opts.TexturePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a TOML or YAML config file")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.TexturePath, "texture", "checker.png", "texture loaded by the test layer")

	return cmd
}

func run(config engine.ApplicationConfig, texturePath string) int {
	e, err := desktop.New(func() engine.ApplicationLayer {
		return testbed.NewTestLayer(texturePath)
	}, config)
	if err != nil {
		core.LogError("failed to create the engine: %s", err)
		return engine.ExitFailure
	}
	defer e.Release()

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		if _, ok := <-sigCh; ok {
			e.Quit()
		}
	}()

	return e.Start()
}

func main() {
	exitCode := engine.ExitSuccess
	if err := newRootCommand(&exitCode).Execute(); err != nil {
		core.LogFatal("%s", err)
	}
	os.Exit(exitCode)
}
