package parser

import "testing"

func TestExtractPrice_Selector(t *testing.T) {
	html := `<html><body><div class="price">$1,250,000</div></body></html>`
	price := extractPrice(mustDoc(t, html), html)
	if price == nil || *price != 1250000 {
		t.Fatalf("unexpected price %v", price)
	}
}

func TestExtractPrice_RawPattern(t *testing.T) {
	html := `<html><body><p>Asking $849,900 USD for this home</p></body></html>`
	price := extractPrice(mustDoc(t, html), html)
	if price == nil || *price != 849900 {
		t.Fatalf("unexpected price %v", price)
	}
}

func TestExtractPrice_RawPatternFloor(t *testing.T) {
	// Small dollar amounts in raw text are usually fees or photo captions,
	// not the listing price.
	html := `<html><body><p>Application fee $1,200</p></body></html>`
	if price := extractPrice(mustDoc(t, html), html); price != nil {
		t.Fatalf("expected no price, got %v", *price)
	}
}

func TestExtractBedrooms(t *testing.T) {
	beds := extractBedrooms(`<p>3 Beds | 2 Baths</p>`)
	if beds == nil || *beds != 3 {
		t.Fatalf("unexpected bedrooms %v", beds)
	}
}

func TestExtractBedrooms_OutOfBounds(t *testing.T) {
	if beds := extractBedrooms(`<p>25 beds</p>`); beds != nil {
		t.Fatalf("expected implausible count rejected, got %v", *beds)
	}
}

func TestExtractBathrooms_Fractional(t *testing.T) {
	baths := extractBathrooms(`<p>2.5 bathrooms</p>`)
	if baths == nil || *baths != 2.5 {
		t.Fatalf("unexpected bathrooms %v", baths)
	}
}

func TestExtractSqFt(t *testing.T) {
	sqft := extractSqFt(`<p>1,850 sq. ft. of living space</p>`)
	if sqft == nil || *sqft != 1850 {
		t.Fatalf("unexpected sqft %v", sqft)
	}
}

func TestExtractSqFt_OutOfBounds(t *testing.T) {
	if sqft := extractSqFt(`<p>55 sqft</p>`); sqft != nil {
		t.Fatalf("expected implausible sqft rejected, got %v", *sqft)
	}
}

func TestExtractLotSize(t *testing.T) {
	lot := extractLotSize(`<p>Sits on 0.25 acres</p>`)
	if lot == nil || *lot != 0.25 {
		t.Fatalf("unexpected lot size %v", lot)
	}
}

func TestExtractYearBuilt(t *testing.T) {
	year := extractYearBuilt(`<p>Built: 1995</p>`)
	if year == nil || *year != 1995 {
		t.Fatalf("unexpected year %v", year)
	}
}

func TestExtractYearBuilt_OutOfBounds(t *testing.T) {
	if year := extractYearBuilt(`<p>Built: 1750</p>`); year != nil {
		t.Fatalf("expected implausible year rejected, got %v", *year)
	}
}

func TestExtractPropertyType(t *testing.T) {
	pt := extractPropertyType(`<p>Charming Multi-family investment</p>`)
	if pt == nil || *pt != "Multi-Family" {
		t.Fatalf("unexpected property type %v", pt)
	}
}

func TestExtractPropertyType_TitleCase(t *testing.T) {
	pt := extractPropertyType(`<p>A classic single family residence</p>`)
	if pt == nil || *pt != "Single Family" {
		t.Fatalf("unexpected property type %v", pt)
	}
}

func TestExtractDescription(t *testing.T) {
	html := `<html><body><div class="property-description">
		This beautifully updated three bedroom home features a bright open
		floor plan and a large fenced backyard.
	</div></body></html>`
	desc := extractDescription(mustDoc(t, html))
	if desc == nil {
		t.Fatalf("expected description")
	}
	if *desc != "This beautifully updated three bedroom home features a bright open floor plan and a large fenced backyard." {
		t.Fatalf("unexpected description %q", *desc)
	}
}

func TestExtractDescription_TooShort(t *testing.T) {
	html := `<html><body><div class="property-description">Description</div></body></html>`
	if desc := extractDescription(mustDoc(t, html)); desc != nil {
		t.Fatalf("expected short label rejected, got %q", *desc)
	}
}

func TestExtractCoordinates_DataAttributes(t *testing.T) {
	html := `<html><body><div data-lat="49.2827" data-lng="-123.1207"></div></body></html>`
	lat, lng := extractCoordinates(mustDoc(t, html), html)
	if lat == nil || *lat != 49.2827 || lng == nil || *lng != -123.1207 {
		t.Fatalf("unexpected coordinates (%v, %v)", lat, lng)
	}
}

func TestExtractCoordinates_MetaTags(t *testing.T) {
	html := `<html><head>
		<meta property="place:location:latitude" content="45.4215">
		<meta property="place:location:longitude" content="-75.6972">
		</head><body></body></html>`
	lat, lng := extractCoordinates(mustDoc(t, html), html)
	if lat == nil || *lat != 45.4215 || lng == nil || *lng != -75.6972 {
		t.Fatalf("unexpected coordinates (%v, %v)", lat, lng)
	}
}

func TestExtractCoordinates_EmbeddedJSON(t *testing.T) {
	html := `<html><body><script>var map = {"lat": 49.7030265, "lng": -123.154841617};</script></body></html>`
	lat, lng := extractCoordinates(mustDoc(t, html), html)
	if lat == nil || *lat != 49.7030265 || lng == nil || *lng != -123.154841617 {
		t.Fatalf("unexpected coordinates (%v, %v)", lat, lng)
	}
}

func TestExtractSourceURL_Canonical(t *testing.T) {
	html := `<html><head><link rel="canonical" href="https://example.com/listing/42"></head><body></body></html>`
	url := extractSourceURL(mustDoc(t, html))
	if url == nil || *url != "https://example.com/listing/42" {
		t.Fatalf("unexpected url %v", url)
	}
}

func TestExtractMLSID(t *testing.T) {
	id := extractMLSID(`<p>MLS# W5551234</p>`)
	if id == nil || *id != "W5551234" {
		t.Fatalf("unexpected mls %v", id)
	}
}

func TestExtractMLSID_TooShort(t *testing.T) {
	if id := extractMLSID(`<p>MLS#: A123</p>`); id != nil {
		t.Fatalf("expected short id rejected, got %v", *id)
	}
}

func TestExtractMLSID_CanadianFormat(t *testing.T) {
	id := extractMLSID(`<p>Newly relisted R3065322 in Squamish</p>`)
	if id == nil || *id != "R3065322" {
		t.Fatalf("unexpected mls %v", id)
	}
}

func TestExtractGarageSpaces(t *testing.T) {
	spaces := extractGarageSpaces(`<p>2 car garage with storage</p>`)
	if spaces == nil || *spaces != 2 {
		t.Fatalf("unexpected garage spaces %v", spaces)
	}
}

func TestExtractPropertyTax_LabeledSpan(t *testing.T) {
	html := `<span class="title">Tax:</span><span class="value">$3,402 / 2025</span>`
	tax := extractPropertyTax(html)
	if tax == nil || *tax != 3402 {
		t.Fatalf("unexpected tax %v", tax)
	}
}

func TestExtractPropertyTax_Amount(t *testing.T) {
	tax := extractPropertyTax(`<p>Property tax: $4,200/year</p>`)
	if tax == nil || *tax != 4200 {
		t.Fatalf("unexpected tax %v", tax)
	}
}

func TestExtractPropertyTax_Rate(t *testing.T) {
	tax := extractPropertyTax(`<p>Tax rate: 1.2%</p>`)
	if tax == nil || *tax != 0.012 {
		t.Fatalf("unexpected tax rate %v", tax)
	}
}

func TestExtractPropertyTax_OutOfBounds(t *testing.T) {
	if tax := extractPropertyTax(`<p>Property tax: $120</p>`); tax != nil {
		t.Fatalf("expected implausible tax rejected, got %v", *tax)
	}
}

func TestExtractHOAMonthly_LabeledSpan(t *testing.T) {
	html := `<span class="title">Maintenance:</span><span class="value">$550/month</span>`
	hoa := extractHOAMonthly(html)
	if hoa == nil || *hoa != 550 {
		t.Fatalf("unexpected hoa %v", hoa)
	}
}

func TestExtractHOAMonthly_Generic(t *testing.T) {
	hoa := extractHOAMonthly(`<p>HOA fees: $320/month</p>`)
	if hoa == nil || *hoa != 320 {
		t.Fatalf("unexpected hoa %v", hoa)
	}
}

func TestExtractHOAMonthly_OutOfBounds(t *testing.T) {
	if hoa := extractHOAMonthly(`<p>Strata fee: $25</p>`); hoa != nil {
		t.Fatalf("expected implausible fee rejected, got %v", *hoa)
	}
}
