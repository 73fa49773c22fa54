package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/geritapp/gerit/internal/application/catalog"
)

func newExportCmd(open openFunc) *cobra.Command {
	var (
		format string
		output string
		search string
		status string
	)

	cmd := &cobra.Command{
		Use:   "export <entity>",
		Short: "Export a catalog as CSV, XLSX or an HTML report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalog.ParseFormat(format)
			if err != nil {
				return err
			}

			console, _, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entity, err := console.Entity(args[0])
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}

			_, err = entity.WriteExport(cmd.Context(), catalog.Query{Search: search, Status: status}, f, w)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(catalog.FormatCSV), "Output format: csv, xlsx or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&search, "search", "", "Only rows matching this term")
	cmd.Flags().StringVar(&status, "status", "", "Only rows with this status")
	return cmd
}
