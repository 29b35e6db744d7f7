package cli

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"paperqa/internal/router"
	"paperqa/internal/service"
)

var flagTopK int

var queryCmd = &cobra.Command{
	Use:   "query [--ingest <dir>] <question>",
	Short: "Answer one question and exit",
	Long: `query routes the question either to the indexed documents or to an
arXiv search. With --ingest, the directory is indexed first; this is the
usual mode with the in-memory store, which does not outlive the process.`,
	Args: cobra.MinimumNArgs(1),
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

		if flagIngestDir != "" {
			rep, err := svc.IngestDir(ctx, flagIngestDir)
			if err != nil {
				return err
			}
			fmt.Printf("indexed %d documents (%d chunks)\n", rep.Indexed, rep.Chunks)
		}

		res, err := svc.Ask(ctx, strings.Join(args, " "), flagTopK)
		if err != nil {
			return err
		}
		printAskResult(res)
		return nil
	},
}

var flagIngestDir string

func init() {
	queryCmd.Flags().IntVarP(&flagTopK, "top-k", "k", 0, "number of chunks to retrieve")
	queryCmd.Flags().StringVar(&flagIngestDir, "ingest", "", "index this directory before answering")
	rootCmd.AddCommand(queryCmd)
}

func printAskResult(res service.AskResult) {
	if res.Route == router.RouteLiteratureSearch {
		if len(res.Papers) == 0 {
			fmt.Println("No papers found.")
			return
		}
		for i, p := range res.Papers {
			fmt.Printf("%d. %s\n   %s\n   %s\n", i+1, p.Title, strings.Join(p.Authors, ", "), p.Link)
		}
		return
	}
	fmt.Println(res.Answer.Text)
	if len(res.Answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, c := range res.Answer.Sources {
			fmt.Printf("  %s p.%d\n", c.SourceFilename, c.PageNumber)
		}
	}
}
