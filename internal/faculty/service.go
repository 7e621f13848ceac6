// Package faculty owns the profile aggregate: the base record, its
// multi-valued attribute sets and the institution affiliation, written
// together in one unit of work.
package faculty

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/institution"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

var (
	ErrNotFound     = errors.New("faculty member not found")
	ErrMissingName  = errors.New("first name is required")
	ErrMissingInput = errors.New("profile is empty")
)

// ProfileInput carries everything a create or update may set. Attribute
// slices replace the stored sets wholesale; a nil slice still replaces,
// clearing the set.
type ProfileInput struct {
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Biography        string   `json:"biography"`
	ORCID            string   `json:"orcid"`
	GoogleScholarURL string   `json:"google_scholar_url"`
	ResearchGateURL  string   `json:"research_gate_url"`
	ScrapedFrom      string   `json:"scraped_from"`
	Emails           []string `json:"emails"`
	Phones           []string `json:"phones"`
	Departments      []string `json:"departments"`
	Titles           []string `json:"titles"`
	InstitutionName  string   `json:"institution_name"`
}

type Service struct {
	store        *sqlite.Client
	institutions *institution.Service
}

func NewService(store *sqlite.Client, institutions *institution.Service) *Service {
	return &Service{store: store, institutions: institutions}
}

// Create stores a new faculty profile and returns its identifier. The base
// row, all attribute sets and the institution link commit or roll back as
// one.
func (s *Service) Create(ctx context.Context, in ProfileInput) (string, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return "", ErrMissingName
	}

	facultyID := uuid.New().String()
	now := time.Now()

	err := s.store.WithTx(ctx, func(q sqlite.DBTX) error {
		f := &models.Faculty{
			FacultyID:        facultyID,
			FirstName:        strings.TrimSpace(in.FirstName),
			LastName:         in.LastName,
			Biography:        in.Biography,
			ORCID:            in.ORCID,
			GoogleScholarURL: in.GoogleScholarURL,
			ResearchGateURL:  in.ResearchGateURL,
			ScrapedFrom:      in.ScrapedFrom,
			CreatedAt:        now,
		}
		if err := s.store.InsertFaculty(ctx, q, f); err != nil {
			return err
		}
		if err := s.writeAttributes(ctx, q, facultyID, in); err != nil {
			return err
		}
		return s.linkInstitution(ctx, q, facultyID, in.InstitutionName, now)
	})
	if err != nil {
		return "", err
	}

	logger.Info("Created faculty profile",
		zap.String("faculty_id", facultyID),
		zap.String("scraped_from", in.ScrapedFrom),
	)
	return facultyID, nil
}

// Update replaces a faculty profile. Multi-valued attributes follow
// replace-all semantics: the stored sets become exactly what the input
// carries.
func (s *Service) Update(ctx context.Context, facultyID string, in ProfileInput) error {
	if strings.TrimSpace(in.FirstName) == "" {
		return ErrMissingName
	}

	err := s.store.WithTx(ctx, func(q sqlite.DBTX) error {
		f := &models.Faculty{
			FacultyID:        facultyID,
			FirstName:        strings.TrimSpace(in.FirstName),
			LastName:         in.LastName,
			Biography:        in.Biography,
			ORCID:            in.ORCID,
			GoogleScholarURL: in.GoogleScholarURL,
			ResearchGateURL:  in.ResearchGateURL,
		}
		if err := s.store.UpdateFaculty(ctx, q, f); err != nil {
			return err
		}
		if err := s.writeAttributes(ctx, q, facultyID, in); err != nil {
			return err
		}
		return s.linkInstitution(ctx, q, facultyID, in.InstitutionName, time.Now())
	})
	if errors.Is(err, sqlite.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) Get(ctx context.Context, facultyID string) (*models.FacultyProfile, error) {
	profile, err := s.store.GetFacultyProfile(ctx, s.store.DB(), facultyID)
	if errors.Is(err, sqlite.ErrNotFound) {
		return nil, ErrNotFound
	}
	return profile, err
}

func (s *Service) writeAttributes(ctx context.Context, q sqlite.DBTX, facultyID string, in ProfileInput) error {
	if err := s.store.ReplaceEmails(ctx, q, facultyID, in.Emails); err != nil {
		return err
	}
	if err := s.store.ReplacePhones(ctx, q, facultyID, in.Phones); err != nil {
		return err
	}
	if err := s.store.ReplaceDepartments(ctx, q, facultyID, in.Departments); err != nil {
		return err
	}
	return s.store.ReplaceTitles(ctx, q, facultyID, in.Titles)
}

// linkInstitution resolves the named institution, creating it on first
// reference, and records the affiliation unless one already exists.
func (s *Service) linkInstitution(ctx context.Context, q sqlite.DBTX, facultyID, name string, startDate time.Time) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	instID, err := s.institutions.GetOrCreate(ctx, q, name)
	if err != nil {
		return err
	}

	linked, err := s.store.FacultyInstitutionLinkExists(ctx, q, facultyID, instID)
	if err != nil {
		return err
	}
	if linked {
		return nil
	}
	return s.store.LinkFacultyInstitution(ctx, q, facultyID, instID, startDate)
}
