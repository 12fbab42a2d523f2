package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"house_scout/models"
)

// Each extractor below is independent and best-effort: DOM selectors are
// tried first where a site exposes one, then ordered regex patterns over the
// raw HTML. Candidates outside an extractor's plausibility window count as
// misses, not errors, and the next pattern gets a turn.

var priceSelectors = []string{
	`[data-testid="price"]`,
	`.price`,
	`.listing-price`,
	`[class*="price"]`,
	`[itemprop="price"]`,
}

var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*([\d,]+(?:\.\d{2})?)\s*(?:USD)?`),
	regexp.MustCompile(`Price[:\s]*\$?\s*([\d,]+)`),
}

var priceNumberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

func extractPrice(doc *goquery.Document, html string) *float64 {
	for _, selector := range priceSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if price, ok := parsePriceText(sel.Text()); ok {
				return &price
			}
		}
	}

	for _, pattern := range pricePatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			// Raw-text matches need a floor to weed out false positives
			// like photo dimensions or unit numbers.
			if price, ok := parsePriceText(m[1]); ok && price > 10000 {
				return &price
			}
		}
	}

	return nil
}

func parsePriceText(text string) (float64, bool) {
	text = strings.ReplaceAll(text, ",", "")
	text = strings.ReplaceAll(text, "$", "")
	m := priceNumberRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

var bedroomPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(?:bed|br|bedroom)s?`),
	regexp.MustCompile(`(?i)(?:bed|br|bedroom)s?[:\s]*(\d+)`),
}

func extractBedrooms(html string) *int {
	for _, pattern := range bedroomPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			if count, err := strconv.Atoi(m[1]); err == nil && count > 0 && count < 20 {
				return &count
			}
		}
	}
	return nil
}

var bathroomPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:bath|ba|bathroom)s?`),
	regexp.MustCompile(`(?i)(?:bath|ba|bathroom)s?[:\s]*(\d+(?:\.\d+)?)`),
}

func extractBathrooms(html string) *float64 {
	for _, pattern := range bathroomPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			if count, err := strconv.ParseFloat(m[1], 64); err == nil && count > 0 && count < 20 {
				return &count
			}
		}
	}
	return nil
}

var sqftPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([\d,]+)\s*(?:sq\.?\s*ft|sqft|square\s*feet)`),
	regexp.MustCompile(`(?i)(?:sq\.?\s*ft|sqft|square\s*feet)[:\s]*([\d,]+)`),
}

func extractSqFt(html string) *int {
	for _, pattern := range sqftPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			sqft, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
			if err == nil && sqft > 100 && sqft < 100000 {
				return &sqft
			}
		}
	}
	return nil
}

var lotSizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([\d.]+)\s*(?:acre|ac)s?`),
	regexp.MustCompile(`(?i)lot[:\s]*([\d.]+)\s*(?:acre|ac)?`),
}

func extractLotSize(html string) *float64 {
	for _, pattern := range lotSizePatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			if size, err := strconv.ParseFloat(m[1], 64); err == nil && size > 0 && size < 10000 {
				return &size
			}
		}
	}
	return nil
}

var yearBuiltPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:built|year\s*built|constructed)[:\s]*(\d{4})`),
	regexp.MustCompile(`(?i)(\d{4})\s*(?:built|construction)`),
}

func extractYearBuilt(html string) *int {
	for _, pattern := range yearBuiltPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			if year, err := strconv.Atoi(m[1]); err == nil && year > 1800 && year < 2030 {
				return &year
			}
		}
	}
	return nil
}

var propertyTypes = []string{
	"single family",
	"condo",
	"townhouse",
	"multi-family",
	"apartment",
	"land",
	"mobile home",
	"manufactured",
}

func extractPropertyType(html string) *string {
	lower := strings.ToLower(html)
	for _, propType := range propertyTypes {
		if strings.Contains(lower, propType) {
			title := titleCase(propType)
			return &title
		}
	}
	return nil
}

// titleCase capitalizes the first letter of every word, treating hyphens
// as word boundaries ("multi-family" -> "Multi-Family").
func titleCase(s string) string {
	out := []rune(s)
	boundary := true
	for i, r := range out {
		if boundary && r >= 'a' && r <= 'z' {
			out[i] = r - 'a' + 'A'
		}
		boundary = r == ' ' || r == '-'
	}
	return string(out)
}

var descriptionSelectors = []string{
	`[data-testid="description"]`,
	`.property-description`,
	`.listing-description`,
	`[class*="description"]`,
	`[itemprop="description"]`,
}

func extractDescription(doc *goquery.Document) *string {
	for _, selector := range descriptionSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			text := cleanText(sel.Text())
			// Anything shorter is usually a label, not the listing copy.
			if len(text) > 50 {
				text = truncate(text, models.MaxDescriptionLen)
				return &text
			}
		}
	}
	return nil
}

var coordinatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"latitude"[:\s]*([-\d.]+)[,\s]*"longitude"[:\s]*([-\d.]+)`),
	regexp.MustCompile(`"lat"[:\s]*([-\d.]+)[,\s]*"lng"[:\s]*([-\d.]+)`),
	regexp.MustCompile(`"lat"[:\s]*([-\d.]+)[,\s]*"lon"[:\s]*([-\d.]+)`),
}

func extractCoordinates(doc *goquery.Document, html string) (*float64, *float64) {
	var lat, lng *float64

	doc.Find(`[data-lat][data-lng]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		latAttr, _ := s.Attr("data-lat")
		lngAttr, _ := s.Attr("data-lng")
		latVal, latErr := strconv.ParseFloat(latAttr, 64)
		lngVal, lngErr := strconv.ParseFloat(lngAttr, 64)
		if latErr == nil && lngErr == nil {
			lat, lng = &latVal, &lngVal
			return false
		}
		return true
	})
	if lat != nil {
		return lat, lng
	}

	latMeta, latOK := doc.Find(`meta[property="place:location:latitude"]`).Attr("content")
	lngMeta, lngOK := doc.Find(`meta[property="place:location:longitude"]`).Attr("content")
	if latOK && lngOK {
		latVal, latErr := strconv.ParseFloat(latMeta, 64)
		lngVal, lngErr := strconv.ParseFloat(lngMeta, 64)
		if latErr == nil && lngErr == nil {
			return &latVal, &lngVal
		}
	}

	for _, pattern := range coordinatePatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			latVal, latErr := strconv.ParseFloat(m[1], 64)
			lngVal, lngErr := strconv.ParseFloat(m[2], 64)
			if latErr == nil && lngErr == nil &&
				latVal >= -90 && latVal <= 90 && lngVal >= -180 && lngVal <= 180 {
				return &latVal, &lngVal
			}
		}
	}

	return nil, nil
}

func extractSourceURL(doc *goquery.Document) *string {
	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok && href != "" {
		return &href
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).Attr("content"); ok && content != "" {
		return &content
	}
	return nil
}

var mlsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)MLS[#®\s]*[:\s]*([A-Z0-9-]+)`),
	regexp.MustCompile(`(?i)"sku"[:\s]*"([A-Z0-9-]+)"`),
	regexp.MustCompile(`(?i)(?:listing|property)[_\s-]*(?:id|number)[:\s]*([A-Z0-9-]+)`),
	regexp.MustCompile(`\b(R\d{7})\b`), // Canadian MLS format
}

func extractMLSID(html string) *string {
	for _, pattern := range mlsPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			id := strings.TrimSpace(m[1])
			if len(id) >= 5 {
				return &id
			}
		}
	}
	return nil
}

var garagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(?:car\s+)?garage`),
	regexp.MustCompile(`(?i)garage[:\s]*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*parking\s*(?:space|spot)s?`),
	regexp.MustCompile(`(?i)parking[:\s]*(\d+)`),
}

func extractGarageSpaces(html string) *int {
	for _, pattern := range garagePatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			if count, err := strconv.Atoi(m[1]); err == nil && count > 0 && count < 20 {
				return &count
			}
		}
	}
	return nil
}

var (
	// HouseSigma renders tax as a labeled span: Tax:</span>...$3,402 / 2025
	taxLabeledRe = regexp.MustCompile(`(?is)class="title"[^>]*>Tax:</span>.*?>\$?([\d,]+)(?:\s*/\s*\d{4})?`)

	taxAmountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:property\s*)?tax(?:es)?[:\s]*\$?\s*([\d,]+)(?:\s*/\s*(?:year|yr|annual))?`),
		regexp.MustCompile(`(?i)annual\s*(?:property\s*)?tax(?:es)?[:\s]*\$?\s*([\d,]+)`),
		regexp.MustCompile(`(?i)\$\s*([\d,]+)\s*/\s*(?:year|yr)\s*(?:property\s*)?tax`),
	}

	taxRatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:property\s*)?tax\s*rate[:\s]*([\d.]+)\s*%`),
		regexp.MustCompile(`(?i)([\d.]+)\s*%\s*(?:property\s*)?tax\s*rate`),
	}
)

// extractPropertyTax returns either an annual dollar amount or a decimal
// rate, depending on which pattern matched. Callers disambiguate against
// the home price (see analysis.TaxRate).
func extractPropertyTax(html string) *float64 {
	if m := taxLabeledRe.FindStringSubmatch(html); m != nil {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil && amount >= 100 && amount <= 100000 {
			return &amount
		}
	}

	for _, pattern := range taxAmountPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err == nil && amount >= 500 && amount <= 100000 {
				return &amount
			}
		}
	}

	for _, pattern := range taxRatePatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			pct, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			rate := pct / 100
			if rate >= 0.001 && rate <= 0.05 {
				return &rate
			}
		}
	}

	return nil
}

var (
	hoaLabeledRe = regexp.MustCompile(`(?is)class="title"[^>]*>Maintenance:</span>.*?>\$?([\d,]+)(?:/(?:month|mo))?`)

	hoaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:hoa|condo|strata)\s*(?:fees?|dues)?[:\s]*\$?\s*([\d,]+)(?:\s*/\s*(?:month|mo))?`),
		regexp.MustCompile(`(?i)\$\s*([\d,]+)\s*/\s*(?:month|mo)\s*(?:hoa|condo|strata)`),
		regexp.MustCompile(`(?i)(?:monthly\s*)?(?:hoa|condo|strata)\s*(?:fees?|dues)[:\s]*\$?\s*([\d,]+)`),
		regexp.MustCompile(`(?i)maintenance\s*fees?[:\s]*\$?\s*([\d,]+)(?:\s*/\s*(?:month|mo))?`),
	}
)

func extractHOAMonthly(html string) *float64 {
	if m := hoaLabeledRe.FindStringSubmatch(html); m != nil {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil && amount >= 50 && amount <= 10000 {
			return &amount
		}
	}

	for _, pattern := range hoaPatterns {
		if m := pattern.FindStringSubmatch(html); m != nil {
			amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err == nil && amount >= 50 && amount <= 5000 {
				return &amount
			}
		}
	}

	return nil
}
