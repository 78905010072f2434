// Package document parses corpus files into normalised metadata and body text.
//
// A document may start with a header of KEY: value lines closed by a TEXT: line:
//
//	DATE: 1776-02-20
//	AUTHOR: John Doe
//	ROLE: enlisted
//	SOURCE_TYPE: letter
//	TEXT:
//	body...
//
// Documents without a recognisable header are treated as all body.
package document

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rcliao/day-intake/internal/model"
)

// probeLines is how many leading lines may be inspected before deciding a document has no header.
const probeLines = 4

var headerLine = regexp.MustCompile(`^\s*([A-Z_]+)\s*:\s*(.*?)\s*$`)

type state int

const (
	stateProbe  state = iota // no recognised key yet
	stateHeader              // at least one recognised key seen
	stateBody                // header closed
)

// Parser extracts metadata from documents. The zero value does not infer dates; use New.
type Parser struct {
	datePattern *regexp.Regexp
}

// New returns a parser whose date fallback only accepts the given years.
func New(years []int) *Parser {
	p := &Parser{}
	if len(years) > 0 {
		alts := make([]string, len(years))
		for i, y := range years {
			alts[i] = strconv.Itoa(y)
		}
		p.datePattern = regexp.MustCompile(`\b(?:` + strings.Join(alts, "|") + `)-\d{2}-\d{2}\b`)
	}
	return p
}

// ParseFile reads and parses the document at path, recording path as its source.
func (p *Parser) ParseFile(path string) (model.DocumentMetadata, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.DocumentMetadata{}, "", fmt.Errorf("read %s: %w", path, err)
	}
	meta, body := p.Parse(strings.ToValidUTF8(string(data), "�"))
	meta.SourcePath = path
	return meta, body, nil
}

// Parse splits raw text into metadata and body. It never fails: a document with no header
// yields default metadata and the whole text as body.
func (p *Parser) Parse(raw string) (model.DocumentMetadata, string) {
	var (
		meta       model.DocumentMetadata
		role, kind string
	)
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	st := stateProbe
	bodyStart := -1
	// fallbackStart is the first non-key line of a header. It becomes the body start
	// only when no TEXT: marker follows.
	fallbackStart := -1
	var pending [][]string

scan:
	for i, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), "TEXT:") {
			bodyStart = i + 1
			for _, kv := range pending {
				setField(&meta, &role, &kind, kv[0], kv[1])
			}
			break
		}

		m := headerLine.FindStringSubmatch(line)
		switch st {
		case stateProbe:
			if m != nil && setField(&meta, &role, &kind, m[1], m[2]) {
				st = stateHeader
				continue
			}
			if m == nil || i+1 >= probeLines {
				// headerless: format B
				break scan
			}
		case stateHeader:
			if m != nil {
				if fallbackStart < 0 {
					setField(&meta, &role, &kind, m[1], m[2])
				} else {
					pending = append(pending, m[1:3])
				}
				continue
			}
			if fallbackStart < 0 && strings.TrimSpace(line) != "" {
				// wrapped value or body; decided by whether TEXT: follows
				fallbackStart = i
			}
		}
	}
	if bodyStart < 0 && fallbackStart >= 0 {
		bodyStart = fallbackStart
	}

	var body string
	switch {
	case bodyStart >= 0:
		body = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	case st == stateHeader:
		body = ""
	default:
		body = strings.TrimSpace(raw)
	}

	if meta.Date == "" && p.datePattern != nil {
		meta.Date = p.datePattern.FindString(raw)
	}
	meta.Role = model.ParseRole(role)
	meta.SourceType = model.ParseSourceType(kind)
	return meta, body
}

// setField applies a header key. It reports whether the key is recognised.
func setField(meta *model.DocumentMetadata, role, kind *string, key, val string) bool {
	switch key {
	case "DATE":
		meta.Date = val
	case "AUTHOR":
		meta.Author = val
	case "ROLE":
		*role = val
	case "SOURCE_TYPE":
		*kind = val
	case "CITATION":
		meta.Citation = val
	case "URL":
		meta.URL = val
	case "TITLE":
		meta.Title = val
	default:
		return false
	}
	return true
}
