// Package ingestion turns scraped faculty pages into stored profiles. The
// scraper submits raw HTML plus whatever structured fields it already
// parsed; the processor cleans the HTML, fills the gaps and writes the
// profile through the faculty service.
package ingestion

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/internal/faculty"
	"github.com/CDurepos/scholarsphere-sub000/internal/metrics"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
)

// ErrNoName means neither the scraper nor the HTML yielded a usable name.
var ErrNoName = errors.New("scraped profile has no name")

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-. ]?\d{3}[-. ]\d{4}`)
	spacePattern = regexp.MustCompile(`\s+`)
)

const maxBiographyLength = 8000

// ScrapedProfile is what the scraper submits for one faculty page.
// Structured fields win over anything re-derived from the HTML.
type ScrapedProfile struct {
	SourceURL       string   `json:"source_url"`
	HTML            string   `json:"html"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Biography       string   `json:"biography"`
	Emails          []string `json:"emails"`
	Phones          []string `json:"phones"`
	Departments     []string `json:"departments"`
	Titles          []string `json:"titles"`
	InstitutionName string   `json:"institution_name"`
	ORCID           string   `json:"orcid"`
}

type Processor struct {
	faculty *faculty.Service
}

func NewProcessor(facultyService *faculty.Service) *Processor {
	return &Processor{faculty: facultyService}
}

// Process ingests one scraped profile and returns the stored faculty
// identifier.
func (p *Processor) Process(ctx context.Context, scraped ScrapedProfile) (string, error) {
	logger.Info("Processing scraped profile", zap.String("source_url", scraped.SourceURL))

	in := faculty.ProfileInput{
		FirstName:       scraped.FirstName,
		LastName:        scraped.LastName,
		Biography:       scraped.Biography,
		ORCID:           scraped.ORCID,
		ScrapedFrom:     scraped.SourceURL,
		Emails:          scraped.Emails,
		Phones:          scraped.Phones,
		Departments:     scraped.Departments,
		Titles:          scraped.Titles,
		InstitutionName: scraped.InstitutionName,
	}

	if scraped.HTML != "" {
		p.fillFromHTML(&in, scraped.HTML)
	}

	if strings.TrimSpace(in.FirstName) == "" {
		metrics.ProfilesIngested.WithLabelValues("rejected").Inc()
		return "", ErrNoName
	}

	facultyID, err := p.faculty.Create(ctx, in)
	if err != nil {
		metrics.ProfilesIngested.WithLabelValues("error").Inc()
		return "", err
	}

	metrics.ProfilesIngested.WithLabelValues("success").Inc()
	logger.Info("Scraped profile stored",
		zap.String("faculty_id", facultyID),
		zap.String("source_url", scraped.SourceURL),
	)
	return facultyID, nil
}

// fillFromHTML derives missing fields from the raw page. Scraper-provided
// values are never overwritten.
func (p *Processor) fillFromHTML(in *faculty.ProfileInput, html string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("Failed to parse scraped HTML", zap.Error(err))
		return
	}

	doc.Find("script, style, nav, footer, header, aside").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	text := spacePattern.ReplaceAllString(doc.Find("body").Text(), " ")
	text = strings.TrimSpace(text)

	if in.FirstName == "" {
		first, last := splitName(extractName(doc))
		in.FirstName = first
		if in.LastName == "" {
			in.LastName = last
		}
	}

	if in.Biography == "" {
		in.Biography = extractBiography(doc, text)
	}

	if len(in.Emails) == 0 {
		in.Emails = dedupe(emailPattern.FindAllString(text, -1))
	}
	if len(in.Phones) == 0 {
		in.Phones = dedupe(phonePattern.FindAllString(text, -1))
	}
}

func extractName(doc *goquery.Document) string {
	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
		// Faculty pages commonly title as "Name | Department".
		if i := strings.IndexAny(name, "|-"); i > 0 {
			name = strings.TrimSpace(name[:i])
		}
	}
	return name
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

// extractBiography prefers the longest paragraph on the page, falling back
// to the whole body text.
func extractBiography(doc *goquery.Document, bodyText string) string {
	var longest string
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if len(t) > len(longest) {
			longest = t
		}
	})

	bio := longest
	if len(bio) < 100 {
		bio = bodyText
	}
	if len(bio) > maxBiographyLength {
		bio = bio[:maxBiographyLength]
	}
	return spacePattern.ReplaceAllString(bio, " ")
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
