package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/signalis/connector-cli/internal/export"
	"github.com/signalis/connector-cli/internal/ingest"
	"github.com/signalis/connector-cli/internal/model"
)

var batchFlags struct {
	side    string
	out     string
	workers int
}

var batchCmd = &cobra.Command{
	Use:   "batch <file.csv|file.xlsx>",
	Short: "Enrich a contact list and write results as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		side := model.Side(batchFlags.side)
		if side != model.SideDemand && side != model.SideSupply {
			return eris.Errorf("invalid --side %q (want demand or supply)", batchFlags.side)
		}

		if batchFlags.workers > 0 {
			cfg.Batch.Workers = batchFlags.workers
		}

		env, err := initEnrich()
		if err != nil {
			return err
		}

		records, uploadID, err := ingest.LoadFile(args[0], side)
		if err != nil {
			return err
		}
		zap.L().Info("loaded contact list",
			zap.String("file", args[0]),
			zap.String("upload_id", uploadID),
			zap.Int("records", len(records)),
		)

		refs := make([]*model.NormalizedRecord, len(records))
		for i := range records {
			refs[i] = &records[i]
		}

		start := time.Now()
		results := env.Enricher.EnrichBatch(ctx, refs, func(completed, total int) {
			if completed%25 == 0 || completed == total {
				zap.L().Info("batch progress", zap.Int("completed", completed), zap.Int("total", total))
			}
		})

		outPath := batchFlags.out
		if outPath == "" {
			outPath = export.Filename(side, "out", time.Now())
		}
		if err := export.WriteEnriched(records, results, outPath); err != nil {
			return err
		}

		var succeeded int
		for _, r := range results {
			if r.Succeeded() {
				succeeded++
			}
		}
		zap.L().Info("batch complete",
			zap.Int("records", len(records)),
			zap.Int("succeeded", succeeded),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("output", outPath),
		)
		return nil
	},
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.side, "side", string(model.SideDemand), "record side: demand or supply")
	f.StringVar(&batchFlags.out, "out", "", "output CSV path (default out/<side>_<timestamp>.csv)")
	f.IntVar(&batchFlags.workers, "workers", 0, "concurrent workers (default from config)")
	rootCmd.AddCommand(batchCmd)
}
