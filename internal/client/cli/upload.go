package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/docupload/internal/client/services"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// ErrIncomplete is returned when a run finished without storing every file.
var ErrIncomplete = errors.New("some files were not uploaded")

func newUploadCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <paths...>",
		Short: "Upload files and directories",
		Long: `Upload every file named on the command line. Directories are walked
recursively.

Examples:
  docupload upload report.pdf
  docupload upload --policy tolerant --batch-size 100 ./papers`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUpload(cmd, args)
		},
	}
}

func (a *App) runUpload(cmd *cobra.Command, paths []string) error {
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

	rep, err := svc.Upload(ctx, paths)
	if rep != nil {
		printReport(a.stdout, rep)
	}
	if err != nil {
		return err
	}
	if !rep.Result.Complete() {
		return fmt.Errorf("%w: %d of %d missing", ErrIncomplete, rep.Result.Missing(), rep.Result.Requested)
	}
	return nil
}

func printReport(w io.Writer, rep *services.Report) {
	res := rep.Result
	for _, d := range res.Documents {
		fmt.Fprintf(w, "%s\t%s\n", d.ID, d.Name)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(w, "failed\t%s\t%v\n", f.Name, f.Err)
	}

	fmt.Fprintf(w, "uploaded %d of %d files (%s selected) in %d slice(s)\n",
		res.Uploaded(), rep.Run.Requested, humanize.Bytes(uint64(rep.Bytes)), res.Batches)

	if rep.Run.Error == "" && !res.Complete() {
		fmt.Fprintf(w, "warning: %d file(s) were not uploaded\n", res.Missing())
	}
}
