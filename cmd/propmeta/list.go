package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the models that can be inspected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := newTable(cmd.OutOrStdout(), a.noColor, "MODEL", "TYPE", "READABLE", "WRITABLE")
			for _, name := range modelNames() {
				r, err := a.reflectorFor(name)
				if err != nil {
					return err
				}
				t.addRow(name, r.Type().Name(),
					strconv.Itoa(len(r.GetGetablePropertyNames())),
					strconv.Itoa(len(r.GetSetablePropertyNames())))
			}
			t.render()
			fmt.Fprintln(cmd.OutOrStdout(), quantity(len(models), "model"))
			return nil
		},
	}
}
