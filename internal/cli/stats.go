package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index and catalog statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open catalog", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), catalogPath(cfg))
	if err != nil {
		exitErr("stats", err)
	}
	build, err := s.LatestBuild(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	if formatFlag == "text" {
		if build != nil {
			fmt.Printf("build %s  %s  model %s\n", build.BuildID, build.BuiltAt.Format("2006-01-02 15:04"), build.Model)
		}
		fmt.Printf("chunks %d from %d files (%d undated)\n", stats.TotalChunks, stats.SourceFiles, stats.UndatedChunks)
		if stats.EarliestDate != "" {
			fmt.Printf("dates  %s .. %s\n", stats.EarliestDate, stats.LatestDate)
		}
		for _, g := range stats.Roles {
			fmt.Printf("  role %-16s %d\n", g.Name, g.Count)
		}
		for _, g := range stats.SourceTypes {
			fmt.Printf("  type %-16s %d\n", g.Name, g.Count)
		}
		return
	}

	b, _ := json.MarshalIndent(struct {
		LatestBuild any `json:"latest_build"`
		Catalog     any `json:"catalog"`
	}{build, stats}, "", "  ")
	fmt.Println(string(b))
}
