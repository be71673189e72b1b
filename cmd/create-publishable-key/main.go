package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ruteri/medusa-provisioning/cmd/flags"
	"github.com/ruteri/medusa-provisioning/provisioner"
	"github.com/urfave/cli/v2"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:           "create-publishable-key",
		Usage:          "Log into the backend admin API and create a storefront publishable key",
		Flags:          flags.AppFlags([]cli.Flag{flags.LogServiceFlag("create-publishable-key")}, flags.CredentialFlags(), flags.CommonFlags()),
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			settings, err := flags.ResolveSettings(cCtx.Context, cCtx, logger)
			if err != nil {
				logger.Error("Invalid configuration", "err", err)
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return cli.Exit("", 1)
			}

			p := provisioner.New(logger, nil, settings.KeyTitle)
			key, err := p.Provision(cCtx.Context, settings.BackendURL, settings.Credential)
			if err != nil {
				provisioner.PrintTroubleshooting(stderr, settings.BackendURL, err)
				return cli.Exit("", 1)
			}

			provisioner.PrintSuccess(stdout, key)
			return nil
		},
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		os.Exit(flags.ExitCode(err))
	}
}
