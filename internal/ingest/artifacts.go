package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rcliao/day-intake/internal/model"
)

// Artifact file names inside the index directory.
const (
	IndexFile   = "index.gob"
	MetaFile    = "meta.jsonl"
	InfoFile    = "index_info.json"
	CatalogFile = "catalog.db"
)

// WriteMeta writes one JSON record per chunk, in index order.
func WriteMeta(path string, chunks []model.Chunk) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, c := range chunks {
			if err := enc.Encode(c); err != nil {
				return fmt.Errorf("encode chunk %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// ReadMeta loads the chunk records written by WriteMeta. Line i is the chunk with vector id i.
func ReadMeta(path string) ([]model.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []model.Chunk
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var c model.Chunk
		if err := json.Unmarshal(sc.Bytes(), &c); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		c.Role = model.ParseRole(string(c.Role))
		c.SourceType = model.ParseSourceType(string(c.SourceType))
		chunks = append(chunks, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return chunks, nil
}

// WriteInfo writes the build summary as indented JSON.
func WriteInfo(path string, summary *model.IndexSummary) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	})
}

// ReadInfo loads a build summary written by WriteInfo.
func ReadInfo(path string) (*model.IndexSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s model.IndexSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

func writeAtomic(path string, fill func(*bufio.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := fill(w); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
