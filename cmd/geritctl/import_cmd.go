package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/geritapp/gerit/internal/application/catalog"
	"github.com/geritapp/gerit/internal/csvimport"
)

type importOutput struct {
	Command    string `json:"command"`
	DurationMS int64  `json:"duration_ms"`
	Result     any    `json:"result"`
}

func newImportCmd(open openFunc) *cobra.Command {
	var (
		mappingFile    string
		updateExisting bool
		dryRun         bool
	)

	cmd := &cobra.Command{
		Use:   "import <entity> <file>",
		Short: "Import a CSV or XLSX file into a catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			table, err := csvimport.ReadTable(path, f)
			if err != nil {
				return err
			}

			var mapping csvimport.Mapping
			if mappingFile != "" {
				if mapping, err = loadMapping(mappingFile, table.Headers); err != nil {
					return err
				}
			}

			console, _, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entity, err := console.Entity(name)
			if err != nil {
				return err
			}

			req := catalog.ImportRequest{
				Source:         path,
				Table:          table,
				Mapping:        mapping,
				UpdateExisting: updateExisting,
			}

			start := time.Now()
			out := importOutput{Command: "import"}
			if dryRun {
				out.Command = "import --dry-run"
				out.Result, err = entity.PreviewImport(cmd.Context(), req)
			} else {
				out.Result, err = entity.Import(cmd.Context(), req)
			}
			if err != nil {
				return fmt.Errorf("import %s: %w", name, err)
			}
			out.DurationMS = time.Since(start).Milliseconds()
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&mappingFile, "mapping", "", "YAML file mapping source columns to fields")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", true, "Update rows whose unique key already exists (--update-existing=false creates them instead)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Classify the rows without applying them")
	return cmd
}
