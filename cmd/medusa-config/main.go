package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ruteri/medusa-provisioning/cmd/flags"
	"github.com/ruteri/medusa-provisioning/config"
	"github.com/ruteri/medusa-provisioning/preflight"
	"github.com/urfave/cli/v2"
)

const (
	formatFlagName       = "format"
	probeTimeoutFlagName = "timeout"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:           "medusa-config",
		Usage:          "Build the backend startup configuration from the environment",
		Flags:          flags.AppFlags([]cli.Flag{flags.NodeEnvFlag(), flags.EnvDirFlag(), flags.LogServiceFlag("medusa-config")}, flags.CommonFlags()),
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(*cli.Context, error) {},
		DefaultCommand: "render",
		Before: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)
			path, err := config.LoadEnvFile(cCtx.String(flags.NodeEnvFlagName), cCtx.String(flags.EnvDirFlagName))
			if err != nil {
				logger.Error("Failed to load env file", "err", err)
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return cli.Exit("", 1)
			}
			if path != "" {
				logger.Debug("Loaded env file", "path", path)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "Print the startup configuration document",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  formatFlagName,
						Value: config.FormatJSON,
						Usage: "output format: 'json' or 'yaml'",
					},
				},
				Action: func(cCtx *cli.Context) error {
					cfg := config.Load(nil)
					if err := config.Render(stdout, cfg, cCtx.String(formatFlagName)); err != nil {
						fmt.Fprintf(stderr, "Error: %v\n", err)
						return cli.Exit("", 1)
					}
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "Probe the configured database, cache, DNS and storage and print a JSON report",
				Flags: []cli.Flag{
					flags.BackendURLFlag(),
					flags.DNSResolverFlag(),
					&cli.DurationFlag{
						Name:  probeTimeoutFlagName,
						Value: preflight.DefaultTimeout,
						Usage: "timeout of each probe",
					},
				},
				Action: func(cCtx *cli.Context) error {
					logger := flags.SetupLogger(cCtx)

					probes := preflight.Probes(config.Load(nil), cCtx.String(flags.BackendURLFlagName), cCtx.String(flags.DNSResolverFlagName))
					report := preflight.Run(cCtx.Context, probes, cCtx.Duration(probeTimeoutFlagName), logger)

					enc := json.NewEncoder(stdout)
					enc.SetIndent("", "  ")
					if err := enc.Encode(report); err != nil {
						return err
					}

					if !report.OK {
						return cli.Exit("", 1)
					}
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		os.Exit(flags.ExitCode(err))
	}
}
