package main

import (
	"fmt"

	"backlog/internal/loader"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [plan.yaml]",
		Short: "Create the epics and stories listed in a YAML plan",
		Long: `Reads a plan of the form

  epics:
    - name: Checkout
      description: Payment flow
      stories:
        - name: Card form
          status: in-progress

and creates every epic followed by its stories. The whole file is checked
before anything is created. A storage failure part way through keeps the
entries created up to that point.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loader.LoadPlan(args[0])
			if err != nil {
				return err
			}

			created, err := loader.Apply(cmd.Context(), a.tracker, plan)
			out := cmd.OutOrStdout()
			for _, c := range created {
				fmt.Fprintf(out, "Created epic %d with %d stories\n", c.EpicID, len(c.StoryIDs))
			}
			return err
		},
	}
}
