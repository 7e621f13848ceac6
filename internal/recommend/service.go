// Package recommend computes faculty affinity and serves ranked
// collaborator recommendations.
package recommend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/metrics"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

// Filters narrows the recommendation read. ForFacultyID anchors the result
// to one member's collaborators; the remaining fields partially match the
// recommended side.
type Filters struct {
	ForFacultyID string
	FirstName    string
	LastName     string
	Department   string
	Institution  string
}

type Service struct {
	store *sqlite.Client
}

func NewService(store *sqlite.Client) *Service {
	return &Service{store: store}
}

// Refresh recomputes every affinity signal across the whole dataset. Each
// scan commits on its own, so a failure leaves earlier signals current and
// later ones stale rather than losing everything.
func (s *Service) Refresh(ctx context.Context) error {
	start := time.Now()

	scans := []struct {
		signal string
		run    func(context.Context) error
	}{
		{sqlite.SignalSharedDepartment, s.store.ScanSharedDepartments},
		{sqlite.SignalSharedInstitution, s.store.ScanSharedInstitutions},
		{sqlite.SignalSharedGrant, s.store.ScanSharedGrants},
		{sqlite.SignalSharedGrantKeyword, s.store.ScanSharedGrantKeywords},
		{sqlite.SignalSharedPublicationKeyword, s.store.ScanSharedPublicationKeywords},
		{sqlite.SignalSharedResearchKeyword, s.store.ScanSharedResearchKeywords},
	}

	for _, scan := range scans {
		scanStart := time.Now()
		err := scan.run(ctx)
		metrics.AffinityScanDuration.WithLabelValues(scan.signal).Observe(time.Since(scanStart).Seconds())
		if err != nil {
			logger.Error("Affinity scan failed",
				zap.String("signal", scan.signal),
				zap.Error(err),
			)
			return err
		}
	}

	logger.Info("Affinity scores refreshed",
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Recommend refreshes affinity scores and reads the ranked pairs matching
// the filters, highest combined score first.
func (s *Service) Recommend(ctx context.Context, f Filters) ([]models.Recommendation, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	return s.store.ReadRecommendations(ctx, sqlite.RecommendationQuery{
		ForFacultyID: f.ForFacultyID,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Department:   f.Department,
		Institution:  f.Institution,
	})
}
