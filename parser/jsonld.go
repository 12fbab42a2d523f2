package parser

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"house_scout/models"
)

const sqmToSqFt = 10.764

var residenceTypes = map[string]bool{
	"Residence":             true,
	"RealEstateListing":     true,
	"SingleFamilyResidence": true,
	"House":                 true,
	"Apartment":             true,
}

// parseJSONLD walks every schema.org JSON-LD block on the page and copies
// listing fields into l. Blocks that fail to decode are skipped; across
// blocks the first non-empty value for a field wins.
func parseJSONLD(doc *goquery.Document, l *models.Listing) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var block map[string]any
		if err := json.Unmarshal([]byte(raw), &block); err != nil {
			return
		}

		types := typeSet(block["@type"])
		for t := range types {
			if residenceTypes[t] {
				extractResidence(block, l)
				break
			}
		}
		if types["Product"] {
			extractProduct(block, l)
		}
	})
}

// typeSet normalizes @type, which may be a string or a list of strings.
func typeSet(v any) map[string]bool {
	out := map[string]bool{}
	switch t := v.(type) {
	case string:
		out[t] = true
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				out[s] = true
			}
		}
	}
	return out
}

func extractResidence(block map[string]any, l *models.Listing) {
	if v, ok := toInt(block["numberOfRooms"]); ok {
		fillInt(&l.NumRooms, v)
	}
	if v, ok := toInt(block["numberOfBedrooms"]); ok {
		fillInt(&l.Bedrooms, v)
	}
	if v, ok := toFloat(block["numberOfBathroomsTotal"]); ok {
		fillFloat(&l.Bathrooms, v)
	}

	if l.SqFt == nil {
		if sqft, ok := floorSizeSqFt(block["floorSize"]); ok {
			l.SqFt = models.IntPtr(sqft)
		}
	}

	if addr, ok := block["address"].(map[string]any); ok {
		extractPostalAddress(addr, l)
	}

	if geo, ok := block["geo"].(map[string]any); ok {
		lat, latOK := toFloat(geo["latitude"])
		lng, lngOK := toFloat(geo["longitude"])
		if latOK && lngOK {
			lat, lng = ValidateCoordinates(lat, lng)
			fillFloat(&l.Latitude, lat)
			fillFloat(&l.Longitude, lng)
		}
	}

	fillStr(&l.ImageURL, imageURL(block["image"]))
	fillStr(&l.VideoURL, videoURL(block["video"]))
	if desc := asString(block["description"]); desc != "" {
		fillStr(&l.Description, truncate(desc, models.MaxDescriptionLen))
	}
	fillStr(&l.SourceURL, asString(block["url"]))
}

// floorSizeSqFt converts a schema.org floorSize to square feet. FTK/SQF
// values (and unlabeled ones) pass through; MTK/SQM are square meters.
func floorSizeSqFt(v any) (int, bool) {
	switch fs := v.(type) {
	case map[string]any:
		value, ok := toFloat(fs["value"])
		if !ok {
			return 0, false
		}
		switch asString(fs["unitCode"]) {
		case "FTK", "SQF", "sqft", "":
			return int(value), true
		case "MTK", "SQM":
			return int(value * sqmToSqFt), true
		}
		return 0, false
	case float64:
		return int(fs), true
	}
	return 0, false
}

func extractPostalAddress(addr map[string]any, l *models.Listing) {
	street := asString(addr["streetAddress"])
	if street != "" && l.Address == "" {
		parts := []string{street}
		for _, key := range []string{"addressLocality", "addressRegion", "postalCode"} {
			if v := asString(addr[key]); v != "" {
				parts = append(parts, v)
			}
		}
		l.Address = strings.Join(parts, ", ")
	}

	fillStr(&l.City, asString(addr["addressLocality"]))
	if region := asString(addr["addressRegion"]); region != "" {
		fillStr(&l.Region, provinceAbbrev(region))
	}
	fillStr(&l.PostalCode, asString(addr["postalCode"]))
	fillStr(&l.Country, asString(addr["addressCountry"]))
}

func extractProduct(block map[string]any, l *models.Listing) {
	fillStr(&l.MLSID, asString(block["sku"]))

	offers := block["offers"]
	if list, ok := offers.([]any); ok {
		if len(list) == 0 {
			return
		}
		offers = list[0]
	}
	offer, ok := offers.(map[string]any)
	if !ok {
		return
	}

	if price, ok := toFloat(offer["price"]); ok {
		fillFloat(&l.Price, price)
	}
	fillStr(&l.Currency, asString(offer["priceCurrency"]))
}

// imageURL handles the three shapes image takes in the wild: a plain URL,
// a list of URLs or objects, or a single object with a url field.
func imageURL(v any) string {
	switch img := v.(type) {
	case string:
		return img
	case []any:
		if len(img) == 0 {
			return ""
		}
		if s, ok := img[0].(string); ok {
			return s
		}
		if obj, ok := img[0].(map[string]any); ok {
			return asString(obj["url"])
		}
	case map[string]any:
		return asString(img["url"])
	}
	return ""
}

func videoURL(v any) string {
	switch vid := v.(type) {
	case map[string]any:
		if url := asString(vid["contentUrl"]); url != "" {
			return url
		}
		return asString(vid["url"])
	case string:
		return vid
	}
	return ""
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(n, ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
