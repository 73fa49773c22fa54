package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/geritapp/gerit/internal/application/fieldservice"
	"github.com/geritapp/gerit/internal/bootstrap"
	"github.com/geritapp/gerit/internal/config"
)

// consoleLoader opens the catalogs and returns a func that releases them.
type consoleLoader func(ctx context.Context, envFiles []string) (*fieldservice.Console, *config.Configuration, func(), error)

func openConsole(ctx context.Context, envFiles []string) (*fieldservice.Console, *config.Configuration, func(), error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, nil, nil, err
	}
	console, storage, err := bootstrap.NewConsole(ctx, cfg, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return console, cfg, storage.Close, nil
}

func newRootCmd(load consoleLoader) *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:          "geritctl",
		Short:        "Import, export and browse the Gerit field-service catalogs",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load (default .env, .env.local)")

	open := func(ctx context.Context) (*fieldservice.Console, *config.Configuration, func(), error) {
		return load(ctx, envFiles)
	}
	cmd.AddCommand(newImportCmd(open), newExportCmd(open), newBrowseCmd(open))
	return cmd
}

type openFunc func(ctx context.Context) (*fieldservice.Console, *config.Configuration, func(), error)
