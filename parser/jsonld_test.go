package parser

import (
	"testing"

	"house_scout/models"
)

func TestParseJSONLD_Residence(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{
		"@type": "Residence",
		"numberOfRooms": 8,
		"numberOfBedrooms": 3,
		"numberOfBathroomsTotal": 2.5,
		"floorSize": {"value": 1850, "unitCode": "FTK"},
		"address": {
			"streetAddress": "123 Main St",
			"addressLocality": "Vancouver",
			"addressRegion": "British Columbia",
			"postalCode": "V6B 1A1",
			"addressCountry": "CA"
		},
		"geo": {"latitude": 49.2827, "longitude": -123.1207},
		"description": "A lovely home near the park.",
		"url": "https://example.com/listing/1"
	}
	</script></head><body></body></html>`

	l := &models.Listing{}
	parseJSONLD(mustDoc(t, html), l)

	if l.Address != "123 Main St, Vancouver, British Columbia, V6B 1A1" {
		t.Fatalf("unexpected address %q", l.Address)
	}
	if l.City == nil || *l.City != "Vancouver" {
		t.Fatalf("unexpected city %v", l.City)
	}
	if l.Region == nil || *l.Region != "BC" {
		t.Fatalf("expected region normalized to BC, got %v", l.Region)
	}
	if l.NumRooms == nil || *l.NumRooms != 8 {
		t.Fatalf("unexpected rooms %v", l.NumRooms)
	}
	if l.Bedrooms == nil || *l.Bedrooms != 3 {
		t.Fatalf("unexpected bedrooms %v", l.Bedrooms)
	}
	if l.Bathrooms == nil || *l.Bathrooms != 2.5 {
		t.Fatalf("unexpected bathrooms %v", l.Bathrooms)
	}
	if l.SqFt == nil || *l.SqFt != 1850 {
		t.Fatalf("unexpected sqft %v", l.SqFt)
	}
	if l.Latitude == nil || *l.Latitude != 49.2827 {
		t.Fatalf("unexpected latitude %v", l.Latitude)
	}
	if l.Description == nil || *l.Description != "A lovely home near the park." {
		t.Fatalf("unexpected description %v", l.Description)
	}
	if l.SourceURL == nil || *l.SourceURL != "https://example.com/listing/1" {
		t.Fatalf("unexpected source url %v", l.SourceURL)
	}
}

func TestParseJSONLD_FloorSizeSquareMeters(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type": "House", "floorSize": {"value": 100, "unitCode": "MTK"}}
	</script></head><body></body></html>`

	l := &models.Listing{}
	parseJSONLD(mustDoc(t, html), l)

	if l.SqFt == nil || *l.SqFt != 1076 {
		t.Fatalf("expected 100 sqm converted to 1076 sqft, got %v", l.SqFt)
	}
}

func TestParseJSONLD_TypeList(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{
		"@type": ["Product", "SingleFamilyResidence"],
		"sku": "R3065322",
		"numberOfBedrooms": 4,
		"offers": {"price": "1,150,000", "priceCurrency": "CAD"}
	}
	</script></head><body></body></html>`

	l := &models.Listing{}
	parseJSONLD(mustDoc(t, html), l)

	if l.MLSID == nil || *l.MLSID != "R3065322" {
		t.Fatalf("unexpected mls %v", l.MLSID)
	}
	if l.Bedrooms == nil || *l.Bedrooms != 4 {
		t.Fatalf("unexpected bedrooms %v", l.Bedrooms)
	}
	if l.Price == nil || *l.Price != 1150000 {
		t.Fatalf("unexpected price %v", l.Price)
	}
	if l.Currency == nil || *l.Currency != "CAD" {
		t.Fatalf("unexpected currency %v", l.Currency)
	}
}

func TestParseJSONLD_OffersList(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type": "Product", "sku": "W9912345", "offers": [{"price": 499000, "priceCurrency": "USD"}]}
	</script></head><body></body></html>`

	l := &models.Listing{}
	parseJSONLD(mustDoc(t, html), l)

	if l.Price == nil || *l.Price != 499000 {
		t.Fatalf("unexpected price %v", l.Price)
	}
}

func TestParseJSONLD_MalformedBlockSkipped(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">{not valid json</script>
	<script type="application/ld+json">{"@type": "Residence", "numberOfBedrooms": 2}</script>
	</head><body></body></html>`

	l := &models.Listing{}
	parseJSONLD(mustDoc(t, html), l)

	if l.Bedrooms == nil || *l.Bedrooms != 2 {
		t.Fatalf("good block after bad block not applied: %v", l.Bedrooms)
	}
}

func TestParseJSONLD_FirstValueWins(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">{"@type": "Residence", "numberOfBedrooms": 3}</script>
	<script type="application/ld+json">{"@type": "Residence", "numberOfBedrooms": 5}</script>
	</head><body></body></html>`

	l := &models.Listing{}
	parseJSONLD(mustDoc(t, html), l)

	if l.Bedrooms == nil || *l.Bedrooms != 3 {
		t.Fatalf("expected first block to win, got %v", l.Bedrooms)
	}
}

func TestParseJSONLD_SwappedGeoCorrected(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type": "Residence", "geo": {"latitude": -123.154841617, "longitude": 49.7030265}}
	</script></head><body></body></html>`

	l := &models.Listing{}
	parseJSONLD(mustDoc(t, html), l)

	if l.Latitude == nil || *l.Latitude != 49.7030265 {
		t.Fatalf("unexpected latitude %v", l.Latitude)
	}
	if l.Longitude == nil || *l.Longitude != -123.154841617 {
		t.Fatalf("unexpected longitude %v", l.Longitude)
	}
}
