package database

import "fmt"

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			number TEXT UNIQUE NOT NULL,
			address TEXT,
			city TEXT,
			property_type TEXT DEFAULT 'other',
			price INTEGER,
			latitude REAL,
			longitude REAL,
			zone_codes TEXT DEFAULT '',
			geocoding_attempted BOOLEAN DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create properties table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS buyers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			buyer_number TEXT NOT NULL,
			email TEXT,
			desired_zones TEXT DEFAULT '',
			desired_property_types TEXT DEFAULT '',
			price_range_house TEXT DEFAULT '',
			price_range_apartment TEXT DEFAULT '',
			price_range_land TEXT DEFAULT '',
			price_range_other TEXT DEFAULT '',
			status TEXT DEFAULT '',
			distribution_flag TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create buyers table: %v", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS zone_references (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT UNIQUE NOT NULL,
			name TEXT,
			center_lat REAL,
			center_lng REAL,
			radius_km REAL,
			city_name TEXT,
			active BOOLEAN DEFAULT 1,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create zone_references table: %v", err)
	}

	// Older databases predate the derived zone_codes column.
	_, err = d.db.Exec(`
		ALTER TABLE properties
		ADD COLUMN zone_codes TEXT DEFAULT '';
	`)
	if err != nil && err.Error() != "duplicate column name: zone_codes" {
		return err
	}

	// Create spatial index on coordinates
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_coordinates
		ON properties(latitude, longitude);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_buyers_email
		ON buyers(email);
	`)
	if err != nil {
		return err
	}

	return nil
}
