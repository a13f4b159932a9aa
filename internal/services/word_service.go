package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/word"
	"github.com/gravadigital/atelier-api/internal/logger"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
	"github.com/gravadigital/atelier-api/internal/validation"
)

// WordService aggregates brainstormed words during phase 1.
type WordService struct {
	sessions redis.SessionRepository
	words    redis.WordRepository
	log      *log.Logger
}

// NewWordService creates a word service.
func NewWordService(sessions redis.SessionRepository, words redis.WordRepository) *WordService {
	return &WordService{
		sessions: sessions,
		words:    words,
		log:      logger.Service("word"),
	}
}

// Add validates and aggregates one submission, returning the entry with its
// new count. Duplicate submissions of the same normalized word increment the
// same counter.
func (s *WordService) Add(ctx context.Context, code, raw string, tag word.Tag) (word.Word, error) {
	if err := requirePhase(ctx, s.sessions, code, session.PhaseWords, "les mots ne peuvent être ajoutés qu'en phase 1"); err != nil {
		return word.Word{}, err
	}
	if err := validation.ValidateTag(tag); err != nil {
		return word.Word{}, err
	}
	if err := validation.ValidateWord(raw); err != nil {
		return word.Word{}, err
	}

	normalized := word.Normalize(raw)
	count, err := s.words.Increment(ctx, code, tag, normalized)
	if err != nil {
		return word.Word{}, err
	}

	s.log.Debug("Word aggregated", "code", code, "word", normalized, "tag", tag, "count", count)
	return word.Word{Word: normalized, Tag: tag, Count: int(count)}, nil
}

// Words returns the full aggregate sorted by count descending.
func (s *WordService) Words(ctx context.Context, code string) ([]word.Word, error) {
	if err := ensureSession(ctx, s.sessions, code); err != nil {
		return nil, err
	}
	return s.words.GetAll(ctx, code)
}

// WordsByTag filters the aggregate down to one tag bucket.
func (s *WordService) WordsByTag(ctx context.Context, code string, tag word.Tag) ([]word.Word, error) {
	if err := validation.ValidateTag(tag); err != nil {
		return nil, err
	}
	all, err := s.Words(ctx, code)
	if err != nil {
		return nil, err
	}
	filtered := make([]word.Word, 0, len(all))
	for _, w := range all {
		if w.Tag == tag {
			filtered = append(filtered, w)
		}
	}
	return filtered, nil
}
