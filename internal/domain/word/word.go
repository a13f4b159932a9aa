package word

import (
	"sort"
	"strings"
)

// Tag buckets brainstormed words by the intention they express.
type Tag string

const (
	TagRassembler Tag = "Rassembler"
	TagApaiser    Tag = "Apaiser"
	TagDynamiser  Tag = "Dynamiser"
	TagProximite  Tag = "Proximité"
	TagAutre      Tag = "Autre"
)

// Tags lists the fixed tag set.
func Tags() []Tag {
	return []Tag{TagRassembler, TagApaiser, TagDynamiser, TagProximite, TagAutre}
}

// Valid reports whether t belongs to the fixed tag set.
func (t Tag) Valid() bool {
	switch t {
	case TagRassembler, TagApaiser, TagDynamiser, TagProximite, TagAutre:
		return true
	}
	return false
}

// Word is an aggregated brainstorm entry keyed by (tag, normalized word).
type Word struct {
	Word  string `json:"word"`
	Tag   Tag    `json:"tag"`
	Count int    `json:"count"`
}

// Normalize lowercases and trims a raw submission so duplicates aggregate.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Field builds the aggregate hash field for a (tag, normalized word) pair.
func Field(tag Tag, normalized string) string {
	return string(tag) + ":" + normalized
}

// ParseField splits an aggregate hash field back into tag and word. Words may
// themselves contain colons, so only the first separator counts.
func ParseField(field string) (Tag, string) {
	tag, w, found := strings.Cut(field, ":")
	if !found {
		return Tag(field), ""
	}
	return Tag(tag), w
}

// SortByCount orders words by count descending, keeping the relative order of
// ties stable.
func SortByCount(words []Word) {
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})
}
