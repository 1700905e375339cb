package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous upload runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistory(cmd)
		},
	}
	cmd.Flags().IntVarP(&a.historySize, "limit", "n", a.historySize, "number of runs to show")
	return cmd
}

func (a *App) runHistory(cmd *cobra.Command) error {
	ctx := cmd.Context()

	logger, err := a.logger()
	if err != nil {
		return err
	}

	svc, closer, err := a.newService(ctx, a.config, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	runs, err := svc.History(ctx, a.historySize)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.stdout, "no runs yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tPOLICY\tUPLOADED\tFAILED\tSTATUS")
	for _, r := range runs {
		status := "ok"
		switch {
		case r.Error != "":
			status = r.Error
		case !r.Succeeded():
			status = fmt.Sprintf("%d missing", r.Missing())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d\t%s\n",
			r.ID, humanize.Time(r.StartedAt), r.Policy, r.Uploaded, r.Requested, r.Failed, status)
	}
	return tw.Flush()
}
