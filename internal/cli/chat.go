package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"paperqa/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [dir]",
	Short: "Interactive question answering session",
	Long: `chat starts an interactive session. If a directory is given it is
indexed first, so the in-memory store works without a separate ingest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Sync()
		svc, err := buildService(cfg, log, true)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		status := "No documents indexed. Literature search still works."
		if len(args) == 1 {
			rep, err := svc.IngestDir(ctx, args[0])
			if err != nil {
				return err
			}
			status = fmt.Sprintf("Indexed %d documents (%d chunks).", rep.Indexed, rep.Chunks)
			if len(rep.Failed) > 0 {
				status += fmt.Sprintf(" %d failed, see logs.", len(rep.Failed))
			}
		}

		p := tea.NewProgram(tui.New(svc, status, flagTopK), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err = p.Run()
		return err
	},
}

func init() {
	chatCmd.Flags().IntVarP(&flagTopK, "top-k", "k", 0, "number of chunks to retrieve")
	rootCmd.AddCommand(chatCmd)
}
