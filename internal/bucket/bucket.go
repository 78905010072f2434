// Package bucket assigns chunks to thematic intake buckets.
package bucket

import (
	"regexp"

	"github.com/rcliao/day-intake/internal/model"
)

var (
	congressVocabulary = regexp.MustCompile(`(?i)\b(congress|committee|resolve[ds]?|journal of congress|jcc)\b`)
	commandVocabulary  = regexp.MustCompile(`(?i)\b(headquarters|general orders|brigade|major general|colonel|command)\b`)
)

// Rule sends a chunk to Bucket when Match returns true.
type Rule struct {
	Bucket model.Bucket
	Match  func(model.Chunk) bool
}

// Classifier evaluates rules in order; the first match wins.
// Chunks matching no rule land in the soldier bucket.
type Classifier struct {
	rules []Rule
}

// New creates a classifier from an ordered rule list. No rules means DefaultRules.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// DefaultRules returns congress, then command, then civilian.
func DefaultRules() []Rule {
	return []Rule{
		{Bucket: model.BucketCongress, Match: Any(
			RoleIs(model.RoleDelegate),
			TextMatches(congressVocabulary),
			SourceIs(model.SourceJournal),
		)},
		{Bucket: model.BucketCommand, Match: Any(
			RoleIs(model.RoleGeneral, model.RoleFieldOfficer),
			TextMatches(commandVocabulary),
			SourceIs(model.SourceOrder),
		)},
		{Bucket: model.BucketCivilian, Match: RoleIs(model.RoleCivilian)},
	}
}

// Classify returns the bucket for c.
func (c *Classifier) Classify(ch model.Chunk) model.Bucket {
	for _, r := range c.rules {
		if r.Match(ch) {
			return r.Bucket
		}
	}
	return model.BucketSoldier
}

// RoleIs matches chunks narrated by any of the roles.
func RoleIs(roles ...model.Role) func(model.Chunk) bool {
	return func(c model.Chunk) bool {
		for _, r := range roles {
			if c.Role == r {
				return true
			}
		}
		return false
	}
}

// SourceIs matches chunks from any of the source types.
func SourceIs(types ...model.SourceType) func(model.Chunk) bool {
	return func(c model.Chunk) bool {
		for _, t := range types {
			if c.SourceType == t {
				return true
			}
		}
		return false
	}
}

// TextMatches matches chunks whose text contains re.
func TextMatches(re *regexp.Regexp) func(model.Chunk) bool {
	return func(c model.Chunk) bool { return re.MatchString(c.Text) }
}

// Any matches when at least one predicate does.
func Any(preds ...func(model.Chunk) bool) func(model.Chunk) bool {
	return func(c model.Chunk) bool {
		for _, p := range preds {
			if p(c) {
				return true
			}
		}
		return false
	}
}
