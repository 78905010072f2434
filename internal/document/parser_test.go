package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/day-intake/internal/model"
)

func newParser() *Parser { return New([]int{1775, 1776}) }

func TestParse_FullHeader(t *testing.T) {
	raw := `DATE: 1776-02-20
AUTHOR: Jeremiah Greenman
ROLE: Enlisted
SOURCE_TYPE: Diary
CITATION: Diary of a Common Soldier, p. 12
URL: https://example.org/greenman
TITLE: Diary entry
TEXT:
Cold morning. Drew provisions.

Marched to the heights.`

	meta, body := newParser().Parse(raw)

	assert.Equal(t, "1776-02-20", meta.Date)
	assert.Equal(t, "Jeremiah Greenman", meta.Author)
	assert.Equal(t, model.RoleEnlisted, meta.Role)
	assert.Equal(t, model.SourceDiary, meta.SourceType)
	assert.Equal(t, "Diary of a Common Soldier, p. 12", meta.Citation)
	assert.Equal(t, "https://example.org/greenman", meta.URL)
	assert.Equal(t, "Diary entry", meta.Title)
	assert.Equal(t, "Cold morning. Drew provisions.\n\nMarched to the heights.", body)
}

func TestParse_MarkerIsCaseInsensitive(t *testing.T) {
	meta, body := newParser().Parse("AUTHOR: A\n  text:  \nbody here")
	assert.Equal(t, "A", meta.Author)
	assert.Equal(t, "body here", body)
}

func TestParse_Headerless(t *testing.T) {
	raw := "Dear Brother,\nWe arrived at camp on 1775-12-25 and it snowed.\nYour affectionate brother"

	meta, body := newParser().Parse(raw)

	assert.Equal(t, raw, body, "headerless documents keep the whole text as body")
	assert.Equal(t, "1775-12-25", meta.Date, "date hint comes from the text")
	assert.Equal(t, model.RoleUnknown, meta.Role)
	assert.Equal(t, model.SourceUnknown, meta.SourceType)
}

func TestParse_UnrecognisedKeysThenProse(t *testing.T) {
	raw := "NOTE: transcribed 1901\nThe regiment paraded at noon."

	meta, body := newParser().Parse(raw)

	assert.Equal(t, raw, body)
	assert.Equal(t, model.RoleUnknown, meta.Role)
}

func TestParse_ProbeWindowExhausted(t *testing.T) {
	raw := "A: 1\nB: 2\nC: 3\nD: 4\nDATE: 1776-01-01\nTEXT:\nbody"

	meta, body := newParser().Parse(raw)

	assert.Equal(t, raw, body, "recognised keys after the probe window do not form a header")
	assert.Equal(t, "1776-01-01", meta.Date, "date fallback still scans the raw text")
}

func TestParse_DateOutsideRangeIgnored(t *testing.T) {
	meta, _ := newParser().Parse("Written 1781-10-19 at Yorktown, recalling 1776-03-17.")
	assert.Equal(t, "1776-03-17", meta.Date)

	meta, _ = newParser().Parse("Written 1781-10-19 at Yorktown.")
	assert.Empty(t, meta.Date)
}

func TestParse_HeaderDateWins(t *testing.T) {
	meta, _ := newParser().Parse("DATE: 1776-03-01\nTEXT:\nOn 1775-08-01 we enlisted.")
	assert.Equal(t, "1776-03-01", meta.Date)
}

func TestParse_EmptyDateFallsBack(t *testing.T) {
	meta, _ := newParser().Parse("DATE:\nROLE: nco\nTEXT:\nOrders of 1776-01-05 read.")
	assert.Equal(t, "1776-01-05", meta.Date)
	assert.Equal(t, model.RoleNCO, meta.Role)
}

func TestParse_MissingMarker(t *testing.T) {
	raw := "ROLE: civilian\nSOURCE_TYPE: letter\n\nMy dear husband, the town is quiet."

	meta, body := newParser().Parse(raw)

	assert.Equal(t, model.RoleCivilian, meta.Role)
	assert.Equal(t, model.SourceLetter, meta.SourceType)
	assert.Equal(t, "My dear husband, the town is quiet.", body)
}

func TestParse_WrappedHeaderValue(t *testing.T) {
	raw := "DATE: 1776-03-17\nCITATION: Adams Papers,\n  vol. 1, p. 23\nROLE: delegate\nSOURCE_TYPE: letter\nTEXT:\nWe sat late today.\n"

	meta, body := newParser().Parse(raw)

	assert.Equal(t, "1776-03-17", meta.Date)
	assert.Equal(t, "Adams Papers,", meta.Citation)
	assert.Equal(t, model.RoleDelegate, meta.Role, "keys after the wrapped line still belong to the header")
	assert.Equal(t, model.SourceLetter, meta.SourceType)
	assert.Equal(t, "We sat late today.", body)
}

func TestParse_MissingMarkerIgnoresKeysInBody(t *testing.T) {
	raw := "ROLE: civilian\nThe town is quiet.\nROLE: general\nso the handbill read."

	meta, body := newParser().Parse(raw)

	assert.Equal(t, model.RoleCivilian, meta.Role)
	assert.Equal(t, "The town is quiet.\nROLE: general\nso the handbill read.", body)
}

func TestParse_HeaderOnly(t *testing.T) {
	meta, body := newParser().Parse("AUTHOR: Nobody\nROLE: general")
	assert.Equal(t, model.RoleGeneral, meta.Role)
	assert.Empty(t, body)
}

func TestParse_ZeroParserSkipsDateInference(t *testing.T) {
	var p Parser
	meta, _ := p.Parse("On 1776-01-01 nothing happened.")
	assert.Empty(t, meta.Date)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letter.txt")
	require.NoError(t, os.WriteFile(path, []byte("ROLE: delegate\r\nTEXT:\r\nResolved, that..."), 0o644))

	meta, body, err := newParser().ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, meta.SourcePath)
	assert.Equal(t, model.RoleDelegate, meta.Role)
	assert.Equal(t, "Resolved, that...", body)

	_, _, err = newParser().ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
