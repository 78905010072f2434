package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcliao/day-intake/internal/intake"
	"github.com/rcliao/day-intake/internal/model"
	"github.com/rcliao/day-intake/internal/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "intake [date]",
		Short: "Assemble the intake document for a date",
		Long:  "Retrieve, re-rank and bucket excerpts for a YYYY-MM-DD date and write <intake_dir>/<date>.rag.json.",
		Args:  cobra.ExactArgs(1),
		Run:   runIntake,
	}

	cmd.Flags().Int("k", 0, "Max entries across all buckets (default: intake.default_k from config)")
	cmd.Flags().StringP("out", "o", "", "Output path (default: <intake_dir>/<date>.rag.json)")
	cmd.Flags().Bool("fill-to-caps", false, "Fill every bucket up to its cap, then share the k entries across buckets")

	RootCmd.AddCommand(cmd)
}

func runIntake(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	date := args[0]
	k, _ := cmd.Flags().GetInt("k")
	if k <= 0 {
		k = cfg.Intake.DefaultK
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(cfg.IntakeDir, date+".rag.json")
	}
	fill, _ := cmd.Flags().GetBool("fill-to-caps")

	if _, err := query.ParseDate(date, cfg.DateRange); err != nil {
		exitErr("intake", err)
	}
	coll, err := query.Open(cfg.IndexDir)
	if err != nil {
		exitErr("open index", err)
	}

	svc := query.NewService(coll, newEmbedder(cfg), cfg)
	if fill {
		svc.UsePolicy(intake.FillToCaps)
	}
	doc, err := svc.Run(cmd.Context(), date, k)
	if err != nil {
		exitErr("intake", err)
	}
	if err := intake.WriteFile(out, doc); err != nil {
		exitErr("write intake", err)
	}

	counts := intake.Counts(doc)
	if formatFlag == "text" {
		fmt.Printf("Wrote %s\n", out)
		for _, b := range model.Buckets {
			fmt.Printf("  %-32s %d\n", b, counts[b])
		}
		return
	}
	b, _ := json.MarshalIndent(struct {
		Path   string               `json:"path"`
		Date   string               `json:"date"`
		Total  int                  `json:"total"`
		Counts map[model.Bucket]int `json:"counts"`
	}{out, date, doc.Total(), counts}, "", "  ")
	fmt.Println(string(b))
}
