package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"house_scout/models"
)

// provinces maps full Canadian province names to their abbreviations.
var provinces = []struct {
	Name   string
	Abbrev string
}{
	{"british columbia", "BC"},
	{"ontario", "ON"},
	{"quebec", "QC"},
	{"alberta", "AB"},
	{"manitoba", "MB"},
	{"saskatchewan", "SK"},
	{"nova scotia", "NS"},
	{"new brunswick", "NB"},
	{"newfoundland and labrador", "NL"},
	{"prince edward island", "PE"},
	{"northwest territories", "NT"},
	{"yukon", "YT"},
	{"nunavut", "NU"},
}

// provinceAbbrev normalizes a full province name to its abbreviation.
// Anything unrecognized passes through unchanged.
func provinceAbbrev(region string) string {
	lower := strings.ToLower(region)
	for _, p := range provinces {
		if p.Name == lower {
			return p.Abbrev
		}
	}
	return region
}

var addressSelectors = []string{
	`[data-testid="home-details-summary-address"]`,
	`[data-testid="address"]`,
	`.property-address`,
	`.listing-address`,
	`.address`,
	`h1[class*="address"]`,
	`[class*="street-address"]`,
	`[itemprop="streetAddress"]`,
}

var (
	titleAddressRe  = regexp.MustCompile(`\d+\s+\w+`)
	addressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+\s+[\w\s]+(?:St|Street|Ave|Avenue|Rd|Road|Dr|Drive|Ln|Lane|Ct|Court|Blvd|Boulevard|Way|Pl|Place)[\w\s,]*\d{5})`),
		regexp.MustCompile(`(?i)(\d+\s+[\w\s]+,\s*[\w\s]+,\s*[A-Z]{2}\s*\d{5})`),
	}
)

// extractAddress finds the listing address via DOM selectors, the og:title
// meta tag, or street-suffix patterns over the raw HTML.
func extractAddress(doc *goquery.Document, html string) string {
	for _, selector := range addressSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := cleanText(sel.Text()); text != "" {
				return text
			}
		}
	}

	// Page titles often lead with the address.
	if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && content != "" {
		if titleAddressRe.MatchString(content) {
			head := strings.SplitN(content, "|", 2)[0]
			head = strings.SplitN(head, "-", 2)[0]
			return cleanText(head)
		}
	}

	for _, pattern := range addressPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			return cleanText(m[1])
		}
	}

	return ""
}

var (
	caAbbrevRe = regexp.MustCompile(`(?i),\s*([^,]+),\s*([A-Z]{2})\s*([A-Z]\d[A-Z]\s*\d[A-Z]\d)`)
	usZipRe    = regexp.MustCompile(`,\s*([^,]+),\s*([A-Z]{2})\s*(\d{5}(?:-\d{4})?)`)
	bareCityRe = regexp.MustCompile(`,\s*([^,]+),\s*([A-Z]{2})\s*$`)

	caFullNameRes = buildProvinceNamePatterns()
)

func buildProvinceNamePatterns() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(provinces))
	for i, p := range provinces {
		out[i] = regexp.MustCompile(`(?i),\s*([^,]+),\s*` + p.Name + `\s*([A-Z]\d[A-Z]\s*\d[A-Z]\d)`)
	}
	return out
}

// resolveLocale backfills city, region, postal code, and country from the
// free-text address, recognizing Canadian and US formats. Fields already
// set by structured data are never overwritten.
func resolveLocale(l *models.Listing) {
	if notEmpty(l.City) && notEmpty(l.Region) && notEmpty(l.PostalCode) {
		return
	}

	// Canadian with province abbreviation: ", Vancouver, BC V6B 1A1"
	if m := caAbbrevRe.FindStringSubmatch(l.Address); m != nil {
		fillStr(&l.City, strings.TrimSpace(m[1]))
		fillStr(&l.Region, strings.ToUpper(m[2]))
		fillStr(&l.PostalCode, normalizePostal(m[3]))
		fillStr(&l.Country, "CA")
		return
	}

	// Canadian with full province name: ", Vancouver, British Columbia V6B 1A1"
	for i, pattern := range caFullNameRes {
		if m := pattern.FindStringSubmatch(l.Address); m != nil {
			fillStr(&l.City, strings.TrimSpace(m[1]))
			fillStr(&l.Region, provinces[i].Abbrev)
			fillStr(&l.PostalCode, normalizePostal(m[2]))
			fillStr(&l.Country, "CA")
			return
		}
	}

	// US: ", Portland, OR 97201" or ZIP+4
	if m := usZipRe.FindStringSubmatch(l.Address); m != nil {
		fillStr(&l.City, strings.TrimSpace(m[1]))
		fillStr(&l.Region, m[2])
		fillStr(&l.PostalCode, m[3])
		fillStr(&l.Country, "US")
		return
	}

	// City and region with no postal code; country stays unknown.
	if m := bareCityRe.FindStringSubmatch(l.Address); m != nil {
		fillStr(&l.City, strings.TrimSpace(m[1]))
		fillStr(&l.Region, m[2])
	}
}

func normalizePostal(code string) string {
	return strings.ToUpper(strings.ReplaceAll(code, " ", ""))
}

func notEmpty(s *string) bool {
	return s != nil && *s != ""
}
