// Package institution resolves institution names against the database,
// falling back to a bundled JSON reference file and lazily creating rows
// for institutions seen for the first time.
package institution

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

// referenceEntry mirrors one record of the institutions JSON file.
type referenceEntry struct {
	Name       string `json:"name"`
	StreetAddr string `json:"street_addr"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	Zip        string `json:"zip"`
	WebsiteURL string `json:"website_url"`
	Type       string `json:"type"`
}

type Service struct {
	store *sqlite.Client
	path  string

	mu        sync.Mutex
	reference map[string]referenceEntry
}

func NewService(store *sqlite.Client, referencePath string) *Service {
	return &Service{store: store, path: referencePath}
}

// GetOrCreate resolves an institution name to its row identifier. Lookup
// order: exact database match, then the JSON reference file for address
// details, then a bare row holding only the name. The new row is written
// through q so resolution can join a caller's transaction.
func (s *Service) GetOrCreate(ctx context.Context, q sqlite.DBTX, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("institution name is empty")
	}

	id, err := s.store.GetInstitutionIDByName(ctx, q, name)
	if err == nil {
		return id, nil
	}
	if err != sqlite.ErrNotFound {
		return "", err
	}

	inst := models.Institution{
		InstitutionID: uuid.New().String(),
		Name:          name,
	}
	if entry, ok := s.lookupReference(name); ok {
		inst.StreetAddr = entry.StreetAddr
		inst.City = entry.City
		inst.State = entry.State
		inst.Country = entry.Country
		inst.Zip = entry.Zip
		inst.WebsiteURL = entry.WebsiteURL
		inst.Type = entry.Type
	}

	if err := s.store.InsertInstitution(ctx, q, &inst); err != nil {
		return "", err
	}

	logger.Info("Created institution",
		zap.String("institution_id", inst.InstitutionID),
		zap.String("name", name),
	)
	return inst.InstitutionID, nil
}

// KnownNames lists the reference file's institution names, sorted. Serves
// the institution picker in the scraper UI.
func (s *Service) KnownNames() ([]string, error) {
	ref, err := s.loadReference()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ref))
	for _, entry := range ref {
		names = append(names, entry.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Service) lookupReference(name string) (referenceEntry, bool) {
	ref, err := s.loadReference()
	if err != nil {
		logger.Warn("Institution reference file unavailable", zap.Error(err))
		return referenceEntry{}, false
	}
	entry, ok := ref[strings.ToLower(name)]
	return entry, ok
}

// loadReference reads and caches the JSON reference file, keyed by
// lowercased name.
func (s *Service) loadReference() (map[string]referenceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reference != nil {
		return s.reference, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read institutions file: %w", err)
	}

	var entries []referenceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse institutions file: %w", err)
	}

	ref := make(map[string]referenceEntry, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		ref[strings.ToLower(e.Name)] = e
	}
	s.reference = ref
	return ref, nil
}
