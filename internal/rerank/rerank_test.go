package rerank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/day-intake/internal/index"
	"github.com/rcliao/day-intake/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTemporalWeight(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{0, 1.35}, {1, 1.22}, {2, 1.12}, {3, 1.12}, {4, 1.00}, {7, 1.00}, {8, 0.92}, {14, 0.92}, {15, 0.85}, {400, 0.85},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TemporalWeight(tt.days, true), "distance %d", tt.days)
	}
	assert.Equal(t, 0.85, TemporalWeight(0, false))
}

func TestTemporalWeight_Monotonic(t *testing.T) {
	for d1 := 0; d1 < 60; d1++ {
		for d2 := d1 + 1; d2 <= 60; d2++ {
			require.GreaterOrEqual(t, TemporalWeight(d1, true), TemporalWeight(d2, true), "d1=%d d2=%d", d1, d2)
		}
	}
}

func TestDayDistance(t *testing.T) {
	target := day("1776-03-17")

	d, ok := DayDistance("1776-03-17", target)
	assert.True(t, ok)
	assert.Equal(t, 0, d)

	d, ok = DayDistance("1776-03-07", target)
	assert.True(t, ok)
	assert.Equal(t, 10, d)

	d, ok = DayDistance("1776-03-19", target)
	assert.True(t, ok)
	assert.Equal(t, 2, d, "distance is absolute")

	d, ok = DayDistance("1775-12-31", day("1776-01-01"))
	assert.True(t, ok)
	assert.Equal(t, 1, d)

	_, ok = DayDistance("", target)
	assert.False(t, ok)
	_, ok = DayDistance("March 1776", target)
	assert.False(t, ok)
}

func TestScore_Formula(t *testing.T) {
	r := New(DefaultConfig())
	c := model.Chunk{DocumentMetadata: model.DocumentMetadata{
		Date: "1776-03-16", Role: model.RoleEnlisted, SourceType: model.SourceDiary,
	}}

	got := r.Score(0.5, c, day("1776-03-17"))
	want := 0.5 * 1.22 * (1 + 0.25*2.0) * (1 + 0.20*1.4)
	assert.InDelta(t, want, got, 1e-12)
}

func TestPriors_FallBackToUnknown(t *testing.T) {
	r := New(Config{
		RoleWeight:   0.25,
		SourceWeight: 0.20,
		RolePriors:   map[model.Role]float64{model.RoleUnknown: 0.5},
		SourcePriors: map[model.SourceType]float64{model.SourceUnknown: 0.6},
	})
	assert.Equal(t, 0.5, r.RolePrior(model.RoleGeneral))
	assert.Equal(t, 0.6, r.SourcePrior(model.SourceMemoir))
}

func TestRank_DropsInvalidHitsAndSorts(t *testing.T) {
	chunks := []model.Chunk{
		{ID: "a", Text: "a", DocumentMetadata: model.DocumentMetadata{Role: model.RoleGeneral, SourceType: model.SourceOrder}},
		{ID: "b", Text: "b", DocumentMetadata: model.DocumentMetadata{Role: model.RoleEnlisted, SourceType: model.SourceDiary, Date: "1776-01-01"}},
	}
	hits := []index.Hit{
		{Score: 0.9, ID: 0},
		{Score: 0.8, ID: -1},
		{Score: 0.7, ID: 1},
		{Score: 0.6, ID: 2},
	}

	ranked := New(DefaultConfig()).Rank(day("1776-01-01"), hits, chunks)

	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].ID, "priors and date lift the enlisted diary over the higher raw score")
	assert.Equal(t, "a", ranked[1].ID)
	assert.Greater(t, ranked[0].FinalScore, ranked[1].FinalScore)
}

func TestRank_StableForTies(t *testing.T) {
	chunks := []model.Chunk{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	hits := []index.Hit{{Score: 0.5, ID: 2}, {Score: 0.5, ID: 0}, {Score: 0.5, ID: 1}}

	ranked := New(DefaultConfig()).Rank(day("1776-01-01"), hits, chunks)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"z", "x", "y"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestRank_Empty(t *testing.T) {
	ranked := New(DefaultConfig()).Rank(day("1776-01-01"), nil, nil)
	assert.Empty(t, ranked)
}
