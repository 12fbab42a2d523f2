package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"house_scout/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		mls_id TEXT,
		address TEXT NOT NULL,
		city TEXT,
		region TEXT,
		postal_code TEXT,
		country TEXT,
		latitude REAL,
		longitude REAL,
		price REAL,
		currency TEXT,
		bedrooms INTEGER,
		bathrooms REAL,
		sqft INTEGER,
		lot_size_acres REAL,
		year_built INTEGER,
		property_type TEXT,
		num_rooms INTEGER,
		garage_spaces INTEGER,
		property_tax REAL,
		hoa_monthly REAL,
		estimated_repair_pct REAL,
		image_url TEXT,
		video_url TEXT,
		description TEXT,
		source_url TEXT,
		source_file TEXT,
		raw_html TEXT,
		imported_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_listings_mls ON listings(mls_id);
	CREATE INDEX IF NOT EXISTS idx_listings_address ON listings(address);
	CREATE INDEX IF NOT EXISTS idx_listings_imported ON listings(imported_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

const listingColumns = `id, mls_id, address, city, region, postal_code, country,
	latitude, longitude, price, currency, bedrooms, bathrooms, sqft,
	lot_size_acres, year_built, property_type, num_rooms, garage_spaces,
	property_tax, hoa_monthly, estimated_repair_pct, image_url, video_url,
	description, source_url, source_file, raw_html, imported_at`

func (s *SQLiteStore) AddListing(ctx context.Context, l *models.Listing) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.MLSID, l.Address, l.City, l.Region, l.PostalCode, l.Country,
		l.Latitude, l.Longitude, l.Price, l.Currency, l.Bedrooms, l.Bathrooms, l.SqFt,
		l.LotSizeAcres, l.YearBuilt, l.PropertyType, l.NumRooms, l.GarageSpaces,
		l.PropertyTax, l.HOAMonthly, l.EstRepairPct, l.ImageURL, l.VideoURL,
		l.Description, l.SourceURL, l.SourceFile, l.RawHTML, l.ImportedAt)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListingExists(ctx context.Context, mlsID, address string) (bool, error) {
	if mlsID != "" {
		var one int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM listings WHERE mls_id = ? LIMIT 1`, mlsID).Scan(&one)
		if err == nil {
			return true, nil
		}
		if err != sql.ErrNoRows {
			return false, err
		}
	}

	if address == "" {
		return false, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM listings WHERE address = ? LIMIT 1`, address).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) GetAllListings(ctx context.Context) ([]models.Listing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+listingColumns+` FROM listings ORDER BY imported_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := scanListing(rows.Scan, &l); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *SQLiteStore) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)

	var l models.Listing
	err := scanListing(row.Scan, &l)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// scanListing reads a full listing row. NULL columns land as nil pointers.
func scanListing(scan func(...any) error, l *models.Listing) error {
	var rawHTML sql.NullString
	err := scan(&l.ID, &l.MLSID, &l.Address, &l.City, &l.Region, &l.PostalCode, &l.Country,
		&l.Latitude, &l.Longitude, &l.Price, &l.Currency, &l.Bedrooms, &l.Bathrooms, &l.SqFt,
		&l.LotSizeAcres, &l.YearBuilt, &l.PropertyType, &l.NumRooms, &l.GarageSpaces,
		&l.PropertyTax, &l.HOAMonthly, &l.EstRepairPct, &l.ImageURL, &l.VideoURL,
		&l.Description, &l.SourceURL, &l.SourceFile, &rawHTML, &l.ImportedAt)
	if err != nil {
		return err
	}
	l.RawHTML = rawHTML.String
	return nil
}
