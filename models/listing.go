package models

import (
	"time"
)

const (
	// MaxDescriptionLen bounds the stored listing description.
	MaxDescriptionLen = 2000
	// MaxRawHTMLLen bounds the raw page snapshot kept for audit.
	MaxRawHTMLLen = 50000
)

// Listing is an assembled home listing. It starts life as an accumulator
// during parsing - every field except Address is optional and filled in by
// whichever extraction stage finds it first - and is immutable once stored.
type Listing struct {
	ID      string  `json:"id" db:"id"`
	MLSID   *string `json:"mls_id" db:"mls_id"`
	Address string  `json:"address" db:"address"`

	City       *string  `json:"city" db:"city"`
	Region     *string  `json:"region" db:"region"` // state or province abbreviation
	PostalCode *string  `json:"postal_code" db:"postal_code"`
	Country    *string  `json:"country" db:"country"` // CA, US
	Latitude   *float64 `json:"latitude" db:"latitude"`
	Longitude  *float64 `json:"longitude" db:"longitude"`

	Price        *float64 `json:"price" db:"price"`
	Currency     *string  `json:"currency" db:"currency"`
	Bedrooms     *int     `json:"bedrooms" db:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms" db:"bathrooms"`
	SqFt         *int     `json:"sqft" db:"sqft"`
	LotSizeAcres *float64 `json:"lot_size_acres" db:"lot_size_acres"`
	YearBuilt    *int     `json:"year_built" db:"year_built"`
	PropertyType *string  `json:"property_type" db:"property_type"`
	NumRooms     *int     `json:"num_rooms" db:"num_rooms"`
	GarageSpaces *int     `json:"garage_spaces" db:"garage_spaces"`

	// PropertyTax is either an annual dollar amount or a decimal rate,
	// depending on which pattern matched on the page. Values > 1 are
	// dollar amounts; analysis.TaxRate resolves the ambiguity.
	PropertyTax  *float64 `json:"property_tax" db:"property_tax"`
	HOAMonthly   *float64 `json:"hoa_monthly" db:"hoa_monthly"`
	EstRepairPct *float64 `json:"estimated_repair_pct" db:"estimated_repair_pct"`

	ImageURL    *string `json:"image_url" db:"image_url"`
	VideoURL    *string `json:"video_url" db:"video_url"`
	Description *string `json:"description" db:"description"`
	SourceURL   *string `json:"source_url" db:"source_url"`
	SourceFile  string  `json:"source_file" db:"source_file"`
	RawHTML     string  `json:"-" db:"raw_html"`

	ImportedAt time.Time `json:"imported_at" db:"imported_at"`
}

// FullAddress joins the address with any known location parts, for geocoding.
func (l *Listing) FullAddress() string {
	out := l.Address
	for _, part := range []*string{l.City, l.Region, l.PostalCode} {
		if part != nil && *part != "" {
			out += ", " + *part
		}
	}
	return out
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

func StrPtr(v string) *string     { return &v }
func IntPtr(v int) *int           { return &v }
func FloatPtr(v float64) *float64 { return &v }
