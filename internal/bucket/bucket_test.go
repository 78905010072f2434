package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/day-intake/internal/model"
)

func chunk(role model.Role, st model.SourceType, text string) model.Chunk {
	return model.Chunk{Text: text, DocumentMetadata: model.DocumentMetadata{Role: role, SourceType: st}}
}

func TestClassify(t *testing.T) {
	c := New()
	tests := []struct {
		name  string
		chunk model.Chunk
		want  model.Bucket
	}{
		{"delegate", chunk(model.RoleDelegate, model.SourceLetter, "I write in haste."), model.BucketCongress},
		{"congress vocabulary", chunk(model.RoleEnlisted, model.SourceDiary, "News that the Committee met."), model.BucketCongress},
		{"resolved", chunk(model.RoleUnknown, model.SourceUnknown, "RESOLVED, that the troops be paid."), model.BucketCongress},
		{"journal", chunk(model.RoleUnknown, model.SourceJournal, "Nothing of note."), model.BucketCongress},
		{"general", chunk(model.RoleGeneral, model.SourceLetter, "The enemy is quiet."), model.BucketCommand},
		{"field officer", chunk(model.RoleFieldOfficer, model.SourceDiary, "Rode out early."), model.BucketCommand},
		{"command vocabulary", chunk(model.RoleEnlisted, model.SourceDiary, "Orders from Headquarters arrived."), model.BucketCommand},
		{"order", chunk(model.RoleUnknown, model.SourceOrder, "The men will parade."), model.BucketCommand},
		{"civilian", chunk(model.RoleCivilian, model.SourceLetter, "The town is quiet."), model.BucketCivilian},
		{"enlisted", chunk(model.RoleEnlisted, model.SourceDiary, "Cold and hungry."), model.BucketSoldier},
		{"unknown", chunk(model.RoleUnknown, model.SourceUnknown, "A fair day."), model.BucketSoldier},
		{"word boundary", chunk(model.RoleEnlisted, model.SourceDiary, "We commanded nothing; congressional matters."), model.BucketSoldier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.chunk))
		})
	}
}

func TestClassify_DelegateBeatsCommand(t *testing.T) {
	ch := chunk(model.RoleDelegate, model.SourceOrder, "General Orders from headquarters; the brigade will march.")
	assert.Equal(t, model.BucketCongress, New().Classify(ch))
}

func TestClassify_CivilianWithCommandTextIsCommand(t *testing.T) {
	ch := chunk(model.RoleCivilian, model.SourceLetter, "The colonel quartered his men in our barn.")
	assert.Equal(t, model.BucketCommand, New().Classify(ch))
}

func TestClassify_ReorderedRules(t *testing.T) {
	rules := DefaultRules()
	rules[0], rules[1] = rules[1], rules[0]
	ch := chunk(model.RoleDelegate, model.SourceLetter, "The brigade is short of powder.")

	assert.Equal(t, model.BucketCommand, New(rules...).Classify(ch))
	assert.Equal(t, model.BucketCongress, New().Classify(ch))
}
