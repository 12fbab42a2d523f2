// Package parser assembles structured listing records from real estate
// listing HTML. Extraction is layered best-effort: schema.org JSON-LD first,
// then DOM/regex heuristics for whatever is still missing, then locale
// resolution of the address and coordinate correction.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"house_scout/models"
)

// Geocoder resolves a street address to coordinates. Implementations must
// swallow timeouts and service errors and report not-found instead.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, ok bool)
}

// Parser turns listing page HTML into Listing records.
type Parser struct {
	geocoder Geocoder
}

// New creates a Parser. geocoder may be nil, in which case records without
// on-page coordinates keep them unset.
func New(geocoder Geocoder) *Parser {
	return &Parser{geocoder: geocoder}
}

// ParseFile reads an HTML file and assembles a listing from it. A nil
// listing with a nil error means the page had no extractable address and
// isn't a listing. Invalid UTF-8 in the file is replaced, not rejected.
func (p *Parser) ParseFile(ctx context.Context, path string) (*models.Listing, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	html := strings.ToValidUTF8(string(raw), "�")

	listing, err := p.Parse(ctx, html)
	if err != nil || listing == nil {
		return nil, err
	}

	listing.SourceFile = filepath.Base(path)
	listing.RawHTML = truncate(html, models.MaxRawHTMLLen)
	listing.ImportedAt = time.Now().UTC()
	return listing, nil
}

// Parse assembles a listing from HTML. The pipeline is linear: structured
// data seeds the record, heuristics fill the gaps, and no later stage ever
// overwrites an earlier one.
func (p *Parser) Parse(ctx context.Context, html string) (*models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	l := &models.Listing{}
	parseJSONLD(doc, l)

	if l.Address == "" {
		l.Address = extractAddress(doc, html)
	}
	if l.Address == "" {
		// No address, not a listing.
		return nil, nil
	}

	resolveLocale(l)

	// Structured-data coordinates already went through swap correction.
	coordsValidated := l.HasCoordinates()

	if l.Price == nil {
		l.Price = extractPrice(doc, html)
	}
	if l.Bedrooms == nil {
		l.Bedrooms = extractBedrooms(html)
	}
	if l.Bathrooms == nil {
		l.Bathrooms = extractBathrooms(html)
	}
	if l.SqFt == nil {
		l.SqFt = extractSqFt(html)
	}
	if l.LotSizeAcres == nil {
		l.LotSizeAcres = extractLotSize(html)
	}
	if l.YearBuilt == nil {
		l.YearBuilt = extractYearBuilt(html)
	}
	if l.PropertyType == nil {
		l.PropertyType = extractPropertyType(html)
	}
	if l.Description == nil {
		l.Description = extractDescription(doc)
	}
	if !l.HasCoordinates() {
		lat, lng := extractCoordinates(doc, html)
		if lat != nil && lng != nil {
			l.Latitude, l.Longitude = lat, lng
		}
	}
	if l.SourceURL == nil {
		l.SourceURL = extractSourceURL(doc)
	}
	if l.MLSID == nil {
		l.MLSID = extractMLSID(html)
	}
	if l.GarageSpaces == nil {
		l.GarageSpaces = extractGarageSpaces(html)
	}
	if l.PropertyTax == nil {
		l.PropertyTax = extractPropertyTax(html)
	}
	if l.HOAMonthly == nil {
		l.HOAMonthly = extractHOAMonthly(html)
	}
	// EstRepairPct stays unset; it is a per-user analysis override.

	if !coordsValidated && l.HasCoordinates() {
		lat, lng := ValidateCoordinates(*l.Latitude, *l.Longitude)
		l.Latitude, l.Longitude = &lat, &lng
	}

	if !l.HasCoordinates() && p.geocoder != nil {
		if lat, lng, ok := p.geocoder.Geocode(ctx, l.FullAddress()); ok {
			l.Latitude, l.Longitude = &lat, &lng
		}
	}

	return l, nil
}

// First-writer-wins field merge, shared by every extraction stage.

func fillStr(dst **string, v string) {
	if v == "" {
		return
	}
	if *dst != nil && **dst != "" {
		return
	}
	*dst = &v
}

func fillInt(dst **int, v int) {
	if *dst == nil {
		*dst = &v
	}
}

func fillFloat(dst **float64, v float64) {
	if *dst == nil {
		*dst = &v
	}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func cleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
