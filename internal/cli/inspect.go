package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/day-intake/internal/bucket"
	"github.com/rcliao/day-intake/internal/chunker"
	"github.com/rcliao/day-intake/internal/document"
	"github.com/rcliao/day-intake/internal/ingest"
	"github.com/rcliao/day-intake/internal/intake"
	"github.com/rcliao/day-intake/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show how a corpus file is parsed, chunked and bucketed",
		Args:  cobra.ExactArgs(1),
		Run:   runInspect,
	}

	RootCmd.AddCommand(cmd)
}

type inspectedChunk struct {
	ID     string       `json:"id"`
	Index  int          `json:"chunk_index"`
	Start  int          `json:"start"`
	End    int          `json:"end"`
	Bucket model.Bucket `json:"bucket"`
	Text   string       `json:"text"`
}

func runInspect(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	meta, body, err := document.New(cfg.DateRange.Years()).ParseFile(args[0])
	if err != nil {
		exitErr("inspect", err)
	}
	opts := chunker.Options{Window: cfg.Chunker.Window, Overlap: cfg.Chunker.Overlap}
	if err := opts.Validate(); err != nil {
		exitErr("inspect", err)
	}

	classifier := bucket.New()
	var chunks []inspectedChunk
	i := 0
	for w := range chunker.Windows(body, opts) {
		c := model.Chunk{ID: ingest.ChunkID(meta.SourcePath, i, w.Text), ChunkIndex: i, Text: w.Text, DocumentMetadata: meta}
		chunks = append(chunks, inspectedChunk{
			ID:     c.ID,
			Index:  i,
			Start:  w.Start,
			End:    w.End,
			Bucket: classifier.Classify(c),
			Text:   w.Text,
		})
		i++
	}

	if formatFlag == "text" {
		fmt.Printf("%s\n  date %q author %q role %s type %s\n", meta.SourcePath, meta.Date, meta.Author, meta.Role, meta.SourceType)
		fmt.Printf("  title %q citation %q url %q\n", meta.Title, meta.Citation, meta.URL)
		for _, c := range chunks {
			fmt.Printf("  #%d [%d:%d] %s %s\n", c.Index, c.Start, c.End, c.Bucket, intake.Truncate(c.Text, 60))
		}
		return
	}

	b, _ := json.MarshalIndent(struct {
		Metadata model.DocumentMetadata `json:"metadata"`
		Chunks   []inspectedChunk       `json:"chunks"`
	}{meta, chunks}, "", "  ")
	fmt.Println(string(b))
}
