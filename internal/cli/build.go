package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/day-intake/internal/ingest"
)

func init() {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the chunk index from the corpus",
		Long:  "Parse, chunk and embed every .txt/.md file under the corpus directory, then write the index artifacts.",
		Args:  cobra.NoArgs,
		Run:   runBuild,
	}

	cmd.Flags().String("corpus", "", "Corpus directory (overrides config)")
	cmd.Flags().Bool("no-catalog", false, "Skip the SQLite chunk catalog")

	RootCmd.AddCommand(cmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if corpus, _ := cmd.Flags().GetString("corpus"); corpus != "" {
		cfg.CorpusDir = corpus
	}
	if noCatalog, _ := cmd.Flags().GetBool("no-catalog"); noCatalog {
		cfg.SkipCatalog = true
	}

	o, err := ingest.New(ingest.OptionsFromConfig(cfg), newEmbedder(cfg))
	if err != nil {
		exitErr("build", err)
	}
	summary, err := o.Run(cmd.Context())
	if err != nil {
		exitErr("build", err)
	}

	if formatFlag == "text" {
		fmt.Printf("Built index %s in %s\n", summary.BuildID, cfg.IndexDir)
		fmt.Printf("  model:  %s (%d dims)\n", summary.Model, summary.Dimensions)
		fmt.Printf("  files:  %d\n", summary.CorpusFiles)
		fmt.Printf("  chunks: %d\n", summary.Chunks)
		return
	}
	b, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(b))
}
