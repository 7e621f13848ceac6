// Package search serves faculty search, keyword-based reranking and
// keyword autocomplete.
package search

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/storage/models"
	"github.com/CDurepos/scholarsphere-sub000/internal/storage/sqlite"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

const (
	maxQueryTerms  = 4
	maxResults     = 50
	minPrefixChars = 2
	maxSuggestions = 50
)

type Service struct {
	store *sqlite.Client
}

func NewService(store *sqlite.Client) *Service {
	return &Service{store: store}
}

// SearchFaculty matches free-text query terms against names, departments
// and institutions. The query is a comma-separated term list, so a single
// term can hold spaces ("machine learning"). Each term is searched in
// every field, and a row must match every term somewhere. Queries beyond
// four terms are truncated.
func (s *Service) SearchFaculty(ctx context.Context, query string) ([]models.SearchResult, error) {
	terms := splitQueryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	var results []models.SearchResult
	for i, term := range terms {
		termResults, err := s.store.SearchFaculty(ctx, sqlite.SearchFilters{
			FirstName:   term,
			LastName:    term,
			Department:  term,
			Institution: term,
		})
		if err != nil {
			return nil, err
		}
		if i == 0 {
			results = termResults
		} else {
			results = intersect(results, termResults)
		}
		if len(results) == 0 {
			break
		}
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// SearchByFilters matches faculty against explicitly provided fields; a
// row qualifies when any provided field partially matches.
func (s *Service) SearchByFilters(ctx context.Context, filters sqlite.SearchFilters) ([]models.SearchResult, error) {
	results, err := s.store.SearchFaculty(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// SearchByKeywords matches faculty whose keyword sets overlap the given
// comma-separated keywords, most overlapping first.
func (s *Service) SearchByKeywords(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	terms := setToSlice(parseKeywordSet(keywords))
	if len(terms) == 0 {
		return nil, nil
	}

	results, err := s.store.SearchFacultyByKeywords(ctx, terms)
	if err != nil {
		return nil, err
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// Rerank reorders search results by keyword overlap. The score for each
// result is the number of requested keywords present in that faculty
// member's combined keyword set. Results with equal scores keep their
// incoming order.
func (s *Service) Rerank(ctx context.Context, results []models.SearchResult, keywords string) ([]models.SearchResult, error) {
	wanted := parseKeywordSet(keywords)
	if len(wanted) == 0 || len(results) == 0 {
		return results, nil
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.FacultyID
	}

	keywordSets, err := s.store.BatchFacultyKeywords(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].KeywordScore = overlap(wanted, keywordSets[results[i].FacultyID])
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].KeywordScore > results[j].KeywordScore
	})

	logger.Debug("Reranked search results",
		zap.Int("results", len(results)),
		zap.Int("keywords", len(wanted)),
	)
	return results, nil
}

// Autocomplete suggests stored keywords by prefix. Prefixes shorter than
// two characters return nothing; limit is clamped to [1, 50].
func (s *Service) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < minPrefixChars {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxSuggestions {
		limit = maxSuggestions
	}
	return s.store.SearchKeywordsByPrefix(ctx, prefix, limit)
}

// splitQueryTerms splits a comma-separated query into trimmed terms,
// dropping blanks and truncating to the filter-field count.
func splitQueryTerms(query string) []string {
	var terms []string
	for _, raw := range strings.Split(query, ",") {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}
		terms = append(terms, term)
		if len(terms) == maxQueryTerms {
			break
		}
	}
	return terms
}

// parseKeywordSet splits a comma-separated keyword string into a lowercase
// set, dropping blanks.
func parseKeywordSet(keywords string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, kw := range strings.Split(keywords, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			set[kw] = struct{}{}
		}
	}
	return set
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for kw := range set {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

func overlap(wanted map[string]struct{}, have map[string]struct{}) int {
	score := 0
	for kw := range wanted {
		if _, ok := have[kw]; ok {
			score++
		}
	}
	return score
}

// intersect keeps rows from a that also appear in b, preserving a's order.
func intersect(a, b []models.SearchResult) []models.SearchResult {
	inB := make(map[string]struct{}, len(b))
	for _, r := range b {
		inB[r.FacultyID] = struct{}{}
	}
	var out []models.SearchResult
	for _, r := range a {
		if _, ok := inB[r.FacultyID]; ok {
			out = append(out, r)
		}
	}
	return out
}
