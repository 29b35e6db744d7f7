package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Index every document record in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Sync()
		svc, err := buildService(cfg, log, false)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rep, err := svc.IngestDir(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("indexed %d documents (%d chunks)\n", rep.Indexed, rep.Chunks)
		for _, f := range rep.Failed {
			fmt.Printf("skipped %s: %v\n", f.Path, f.Err)
		}
		if len(rep.Failed) > 0 {
			return fmt.Errorf("%d documents failed", len(rep.Failed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
