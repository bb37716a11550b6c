package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aevon-lab/insight/internal/core/report"
	"github.com/aevon-lab/insight/internal/core/storage/filesystem"
	"github.com/aevon-lab/insight/internal/evaluation"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	reportPath      string
	definitionsPath string
	instancesPath   string
	timezone        string
	offset          int
	limit           int
}

func evaluateCommand(opts *rootOptions) *cobra.Command {
	eo := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a report file and print the result as JSON",
		Long: `Evaluate a YAML or JSON report file against the configured stores.

--definitions and --instances load JSON arrays into the in-memory store
first; they need database.type memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			st, err := openStores(cfg)
			if err != nil {
				return err
			}
			defer st.close()

			if err := eo.seed(contextOf(cmd), st); err != nil {
				return err
			}

			stored, err := filesystem.ReadReportFile(eo.reportPath)
			if err != nil {
				return err
			}

			req := evaluation.Request{Inline: stored, Timezone: eo.timezone}
			if cmd.Flags().Changed("offset") || cmd.Flags().Changed("limit") {
				req.Pagination = &evaluation.Pagination{Offset: eo.offset, Limit: eo.limit}
			}

			_, svc := newEvaluationService(cfg, st)
			resp, err := svc.Evaluate(contextOf(cmd), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVar(&eo.reportPath, "report", "", "Report definition file (.yaml, .yml or .json)")
	cmd.Flags().StringVar(&eo.definitionsPath, "definitions", "", "JSON array of definitions to load first")
	cmd.Flags().StringVar(&eo.instancesPath, "instances", "", "JSON array of instances to load first")
	cmd.Flags().StringVar(&eo.timezone, "timezone", "", "Client IANA zone (defaults to server.timezone)")
	cmd.Flags().IntVar(&eo.offset, "offset", 0, "Raw data offset")
	cmd.Flags().IntVar(&eo.limit, "limit", 0, "Raw data limit")
	cmd.MarkFlagRequired("report")

	return cmd
}

func (eo *evaluateOptions) seed(ctx context.Context, st *stores) error {
	if eo.definitionsPath == "" && eo.instancesPath == "" {
		return nil
	}
	if st.memory == nil {
		return fmt.Errorf("--definitions and --instances need database.type memory")
	}

	if eo.definitionsPath != "" {
		var defs []report.Definition
		if err := readJSON(eo.definitionsPath, &defs); err != nil {
			return err
		}
		for i := range defs {
			if err := defs[i].Validate(); err != nil {
				return fmt.Errorf("definition %d: %w", i, err)
			}
			if err := st.memory.SaveDefinition(ctx, &defs[i]); err != nil {
				return err
			}
		}
	}
	if eo.instancesPath != "" {
		var instances []report.Instance
		if err := readJSON(eo.instancesPath, &instances); err != nil {
			return err
		}
		for i := range instances {
			if err := instances[i].Validate(); err != nil {
				return fmt.Errorf("instance %d: %w", i, err)
			}
			if err := st.memory.SaveInstance(ctx, &instances[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
