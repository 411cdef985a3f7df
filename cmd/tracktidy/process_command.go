package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"tracktidy/internal/confirm"
	"tracktidy/internal/inference"
	"tracktidy/internal/logging"
	"tracktidy/internal/pipeline"
	"tracktidy/internal/services"
	"tracktidy/internal/services/llm"
	"tracktidy/internal/store"
	"tracktidy/internal/syncrepo"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var reprocessTagged bool
	var reprocessStored bool
	var autoAccept bool
	var dryRun bool
	var noSync bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process the audio collection",
		Long:  "Discover audio files, infer missing metadata, and persist the results into the store, the files' tags, and the configured sync remote.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Dir:    cfg.Logging.Dir,
			})
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			st, err := store.Open(cfg.Library.DataDir, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			tr, err := ctx.buildTransport()
			if err != nil {
				return err
			}

			client := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})
			adapter := inference.NewAdapter(client, logger)
			reviewer := confirm.NewReviewer(cfg.Confirm.Enabled && !autoAccept, logger)
			remoteURL := cfg.Sync.RemoteURL
			if noSync {
				remoteURL = ""
			}
			coordinator := syncrepo.New(remoteURL, cfg.Sync.CloneDir, cfg.Library.DataDir, logger)

			orchestrator := pipeline.New(tr, st, adapter, reviewer, coordinator, logger, pipeline.Options{
				Root:            cfg.Library.Root,
				ReprocessTagged: reprocessTagged,
				ReprocessStored: reprocessStored,
				DryRun:          dryRun,
			})

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := orchestrator.Run(runCtx)
			if err != nil {
				if services.Fatal(err) {
					return fmt.Errorf("%w (is another run active?)", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary(summary))
			if len(summary.Failures) > 0 {
				fmt.Fprintln(out, renderFailures(summary.Failures))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reprocessTagged, "reprocess-tagged", false, "Process files even when they carry the processed marker")
	cmd.Flags().BoolVar(&reprocessStored, "reprocess-stored", false, "Process files even when their key is already in the store")
	cmd.Flags().BoolVarP(&autoAccept, "yes", "y", false, "Accept inferred metadata without interactive review")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what metadata would be set without changing the store, tags, or remote")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "Skip git synchronization for this run")
	return cmd
}

func renderSummary(summary pipeline.Summary) string {
	rows := [][]string{
		{"Run", summary.RunID},
		{"Processed", strconv.Itoa(summary.Processed)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Sync degraded", yesNo(summary.SyncDegraded)},
	}
	if summary.Aborted {
		rows = append(rows, []string{"Aborted", "yes"})
	}
	return renderTable([]string{"Result", "Value"}, rows)
}

func renderFailures(failures []pipeline.Failure) string {
	rows := make([][]string, 0, len(failures))
	for _, failure := range failures {
		rows = append(rows, []string{failure.Key, string(failure.Status), failure.Class, failure.Reason})
	}
	return renderTable([]string{"File", "Stage", "Class", "Reason"}, rows)
}
