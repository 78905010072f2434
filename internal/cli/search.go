package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/day-intake/internal/intake"
	"github.com/rcliao/day-intake/internal/model"
	"github.com/rcliao/day-intake/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the chunk catalog by keyword",
		Long:  "Search chunk text, authors and titles in the SQLite catalog written by build.",
		Run:   runSearch,
	}

	cmd.Flags().String("role", "", "Filter by narrator role")
	cmd.Flags().String("source-type", "", "Filter by source type")
	cmd.Flags().String("date", "", "Filter by exact document date (YYYY-MM-DD)")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	role, _ := cmd.Flags().GetString("role")
	sourceType, _ := cmd.Flags().GetString("source-type")
	date, _ := cmd.Flags().GetString("date")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	p := store.SearchParams{Query: query, Date: date, Limit: limit}
	if role != "" {
		p.Role = model.ParseRole(role)
	}
	if sourceType != "" {
		p.SourceType = model.ParseSourceType(sourceType)
	}

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open catalog", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), p)
	if err != nil {
		exitErr("search", err)
	}

	if formatFlag == "text" {
		for _, r := range results {
			fmt.Printf("#%d %s [%s] %s/%s %s\n", r.Seq, r.SourcePath, r.Date, r.Role, r.SourceType, r.Author)
			fmt.Printf("    %s\n", intake.Truncate(strings.ReplaceAll(r.Text, "\n", " "), 160))
		}
		return
	}

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}
