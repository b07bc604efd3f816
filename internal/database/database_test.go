package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Database {
	db, err := NewDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetProperty(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDB().Exec(`
		INSERT INTO properties (id, number, address, city, property_type, price, latitude, longitude, zone_codes)
		VALUES (1, 'AA1234', '福岡市博多区博多駅前1-1-1', '福岡市', 'house', 20000000, 33.5902, 130.4017, '⑨')
	`)
	require.NoError(t, err)

	p, err := db.GetProperty(1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "AA1234", p.Number)
	assert.Equal(t, "福岡市", p.City)
	require.NotNil(t, p.Price)
	assert.Equal(t, 20000000, *p.Price)
	require.NotNil(t, p.Coordinate())
	assert.Equal(t, "⑨", p.ZoneCodes)
}

func TestGetProperty_NullColumns(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDB().Exec(`INSERT INTO properties (id, number) VALUES (2, 'AA2')`)
	require.NoError(t, err)

	p, err := db.GetProperty(2)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Nil(t, p.Price)
	assert.Nil(t, p.Latitude)
	assert.Nil(t, p.Coordinate())
	assert.Equal(t, "", p.ZoneCodes)
}

func TestGetProperty_NotFound(t *testing.T) {
	db := setupTestDB(t)

	p, err := db.GetProperty(999)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestListBuyers(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDB().Exec(`
		INSERT INTO buyers (buyer_number, email, desired_zones, desired_property_types, price_range_house, status, distribution_flag)
		VALUES
			('B001', 'a@example.com', '⑨⑩', '戸建', '1000万円～3000万円', '追客中', '要'),
			('B002', NULL, NULL, NULL, NULL, NULL, NULL)
	`)
	require.NoError(t, err)

	records, err := db.ListBuyers()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "B001", records[0].BuyerNumber)
	assert.Equal(t, "⑨⑩", records[0].DesiredZones)
	assert.Equal(t, "追客中", records[0].StatusCode)

	// NULL columns come back as empty strings
	assert.Equal(t, "B002", records[1].BuyerNumber)
	assert.Equal(t, "", records[1].Email)
	assert.Equal(t, "", records[1].DistributionFlag)
}

func TestListZoneReferences(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDB().Exec(`
		INSERT INTO zone_references (symbol, name, center_lat, center_lng, radius_km, city_name, active)
		VALUES
			('⑨', '博多駅周辺', 33.5902, 130.4017, 5.0, '', 1),
			('①', '福岡市全域', NULL, NULL, NULL, '福岡市', 1),
			('②', '休止エリア', NULL, NULL, NULL, '糟屋郡', 0)
	`)
	require.NoError(t, err)

	refs, err := db.ListZoneReferences()
	require.NoError(t, err)
	require.Len(t, refs, 3)

	assert.Equal(t, "⑨", refs[0].Symbol)
	require.NotNil(t, refs[0].RadiusKm)
	assert.Equal(t, 5.0, *refs[0].RadiusKm)

	assert.Nil(t, refs[1].RadiusKm)
	assert.Equal(t, "福岡市", refs[1].CityName)

	assert.False(t, refs[2].Active)
}

func TestUpdatePropertyZones(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDB().Exec(`INSERT INTO properties (id, number, zone_codes) VALUES (1, 'AA1', '①')`)
	require.NoError(t, err)

	require.NoError(t, db.UpdatePropertyZones(1, "⑨⑩"))

	p, err := db.GetProperty(1)
	require.NoError(t, err)
	assert.Equal(t, "⑨⑩", p.ZoneCodes)
}
