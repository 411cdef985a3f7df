package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Metadata replication utilities",
	}

	syncCmd.AddCommand(newSyncStatusCommand(ctx))
	syncCmd.AddCommand(newSyncSetRemoteCommand(ctx))

	return syncCmd
}

func newSyncStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the replication state of the metadata store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if strings.TrimSpace(cfg.Sync.RemoteURL) == "" {
				fmt.Fprintln(out, "Sync is disabled; set sync.remote_url to enable replication.")
				return nil
			}

			rows := [][]string{
				{"Remote", cfg.Sync.RemoteURL},
				{"Clone", cfg.Sync.CloneDir},
			}

			repo, err := git.PlainOpen(cfg.Sync.CloneDir)
			switch {
			case errors.Is(err, git.ErrRepositoryNotExists):
				rows = append(rows, []string{"State", "not cloned yet"})
			case err != nil:
				return fmt.Errorf("open clone: %w", err)
			default:
				head, headErr := repo.Head()
				if headErr != nil {
					rows = append(rows, []string{"State", "cloned, no commits"})
					break
				}
				commit, commitErr := repo.CommitObject(head.Hash())
				if commitErr != nil {
					return fmt.Errorf("read head commit: %w", commitErr)
				}
				rows = append(rows,
					[]string{"State", "cloned"},
					[]string{"Head", head.Hash().String()[:12]},
					[]string{"Committed", commit.Author.When.Format("2006-01-02 15:04:05")},
					[]string{"Message", strings.TrimSpace(commit.Message)},
				)
			}

			fmt.Fprintln(out, renderTable([]string{"Sync", "Value"}, rows))
			return nil
		},
	}
}

func newSyncSetRemoteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "set-remote <url>",
		Short:       "Point the metadata store at a replication remote",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.targetConfigPath()
			if err != nil {
				return err
			}

			// edit the raw document so untouched settings keep their
			// user-written form
			raw := map[string]any{}
			if data, readErr := os.ReadFile(path); readErr == nil {
				if err := toml.Unmarshal(data, &raw); err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
			} else if !os.IsNotExist(readErr) {
				return fmt.Errorf("read config: %w", readErr)
			}

			section, _ := raw["sync"].(map[string]any)
			if section == nil {
				section = map[string]any{}
			}
			section["remote_url"] = args[0]
			raw["sync"] = section

			data, err := toml.Marshal(raw)
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sync remote set to %s in %s\n", args[0], path)
			return nil
		},
	}
}
