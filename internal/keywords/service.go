// Package keywords implements LLM-backed research keyword generation for
// faculty profiles, budgeted per faculty member over a rolling hour.
package keywords

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

var (
	ErrRateLimited = errors.New("keyword generation rate limit exceeded")
	ErrNoBiography = errors.New("faculty member has no biography")
	ErrNotFound    = errors.New("faculty member not found")
)

// KeywordExtractor produces research keywords from biography text. The LLM
// client satisfies this; tests substitute fakes.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, biography string) ([]string, error)
}

type Service struct {
	store     *sqlite.Client
	extractor KeywordExtractor
	hourlyMax int
}

func NewService(store *sqlite.Client, extractor KeywordExtractor, hourlyMax int) *Service {
	if hourlyMax <= 0 {
		hourlyMax = 3
	}
	return &Service{
		store:     store,
		extractor: extractor,
		hourlyMax: hourlyMax,
	}
}

// Generate runs one keyword-generation attempt for a faculty member.
//
// The whole attempt is a single transaction: the usage-audit row is written
// before the model is called, so a second request racing this one sees the
// reservation. Any failure after that point, including the model returning
// nothing, rolls the audit row back and the attempt costs no budget.
//
// The budget check counts prior committed audit rows in the trailing hour;
// once the hourly maximum is reached further attempts are rejected without
// writing anything.
func (s *Service) Generate(ctx context.Context, facultyID string) ([]string, error) {
	var generated []string

	err := s.store.WithTx(ctx, func(q sqlite.DBTX) error {
		now := time.Now()

		count, err := s.store.CountGenerationsSince(ctx, q, facultyID, now.Add(-time.Hour))
		if err != nil {
			return err
		}
		if count >= s.hourlyMax {
			return ErrRateLimited
		}

		biography, err := s.store.GetBiography(ctx, q, facultyID)
		if err != nil {
			if errors.Is(err, sqlite.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if biography == "" {
			return ErrNoBiography
		}

		rec := &models.GenerationRecord{
			GenerationID: uuid.New().String(),
			FacultyID:    facultyID,
			CreatedAt:    now,
		}
		if err := s.store.InsertGeneration(ctx, q, rec); err != nil {
			return err
		}

		keywords, err := s.extractor.ExtractKeywords(ctx, biography)
		if err != nil {
			return fmt.Errorf("keyword extraction failed: %w", err)
		}
		if len(keywords) == 0 {
			return fmt.Errorf("keyword extraction returned no keywords")
		}

		for _, kw := range keywords {
			keywordID, err := s.store.EnsureKeyword(ctx, q, kw)
			if err != nil {
				return err
			}
			if err := s.store.LinkResearchKeyword(ctx, q, facultyID, keywordID); err != nil {
				return err
			}
		}

		generated = keywords
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Generated research keywords",
		zap.String("faculty_id", facultyID),
		zap.Int("count", len(generated)),
	)
	return generated, nil
}
