// Package model defines the core document, chunk and intake data types.
package model

import "strings"

// Role is the narrator's position relative to the events described.
type Role string

const (
	RoleEnlisted      Role = "enlisted"
	RoleNCO           Role = "nco"
	RoleJuniorOfficer Role = "junior_officer"
	RoleFieldOfficer  Role = "field_officer"
	RoleGeneral       Role = "general"
	RoleDelegate      Role = "delegate"
	RoleCivilian      Role = "civilian"
	RoleUnknown       Role = "unknown"
)

// SourceType is the kind of primary source a document came from.
type SourceType string

const (
	SourceLetter  SourceType = "letter"
	SourceDiary   SourceType = "diary"
	SourceOrder   SourceType = "order"
	SourceJournal SourceType = "journal"
	SourceReport  SourceType = "report"
	SourceMemoir  SourceType = "memoir"
	SourceUnknown SourceType = "unknown"
)

// ValidRoles are the recognised narrator roles.
var ValidRoles = map[Role]bool{
	RoleEnlisted:      true,
	RoleNCO:           true,
	RoleJuniorOfficer: true,
	RoleFieldOfficer:  true,
	RoleGeneral:       true,
	RoleDelegate:      true,
	RoleCivilian:      true,
	RoleUnknown:       true,
}

// ValidSourceTypes are the recognised source types.
var ValidSourceTypes = map[SourceType]bool{
	SourceLetter:  true,
	SourceDiary:   true,
	SourceOrder:   true,
	SourceJournal: true,
	SourceReport:  true,
	SourceMemoir:  true,
	SourceUnknown: true,
}

// ParseRole normalises a free-form role tag. Empty or unrecognised values become RoleUnknown.
func ParseRole(s string) Role {
	r := Role(normalizeTag(s))
	if !ValidRoles[r] {
		return RoleUnknown
	}
	return r
}

// ParseSourceType normalises a free-form source type tag. Empty or unrecognised values become SourceUnknown.
func ParseSourceType(s string) SourceType {
	st := SourceType(normalizeTag(s))
	if !ValidSourceTypes[st] {
		return SourceUnknown
	}
	return st
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.Join(strings.Fields(s), "_")
}

// DocumentMetadata is the normalised header of a corpus document.
// Empty strings mean the value was absent.
type DocumentMetadata struct {
	Date       string     `json:"date"`
	Author     string     `json:"author"`
	Role       Role       `json:"role"`
	SourceType SourceType `json:"source_type"`
	Citation   string     `json:"citation"`
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	SourcePath string     `json:"source_path"`
}

// Chunk is an overlapping window of a document body, the unit of retrieval.
type Chunk struct {
	ID         string `json:"id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	DocumentMetadata
}

// Key identifies a chunk by its source document and position.
type Key struct {
	SourcePath string
	ChunkIndex int
}

// Key returns the chunk's (source_path, chunk_index) identity.
func (c Chunk) Key() Key {
	return Key{SourcePath: c.SourcePath, ChunkIndex: c.ChunkIndex}
}

// RankedCandidate is a chunk scored for a single query.
type RankedCandidate struct {
	Chunk
	FinalScore float64 `json:"final_score"`
}
