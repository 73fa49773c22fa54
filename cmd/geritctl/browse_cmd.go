package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/geritapp/gerit/internal/application/fieldservice"
	"github.com/geritapp/gerit/internal/interfaces/tui"
)

func newBrowseCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <entity>",
		Short: "Browse a catalog in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			console, cfg, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			model, err := browser(console, args[0], cfg.PageSize)
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}

func browser(c *fieldservice.Console, name string, pageSize int) (tea.Model, error) {
	clock := clockwork.NewRealClock()
	switch name {
	case fieldservice.EntityClients:
		return tui.FromCatalog(c.Clients, clock, pageSize), nil
	case fieldservice.EntityTeam:
		return tui.FromCatalog(c.Team, clock, pageSize), nil
	case fieldservice.EntityVehicles:
		return tui.FromCatalog(c.Vehicles, clock, pageSize), nil
	case fieldservice.EntityEquipment:
		return tui.FromCatalog(c.Equipment, clock, pageSize), nil
	case fieldservice.EntityInterventions:
		return tui.FromCatalog(c.Interventions, clock, pageSize), nil
	default:
		return nil, fmt.Errorf("%w: %q", fieldservice.ErrUnknownEntity, name)
	}
}
