package matching

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/pipeline"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/zone"
)

// MockDataStore is a mock implementation of the DataStore interface
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) GetProperty(id int64) (*models.Property, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockDataStore) ListBuyers() ([]models.RawBuyerRecord, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawBuyerRecord), args.Error(1)
}

// MockSource is a mock implementation of the zone.ReferenceSource interface
type MockSource struct {
	mock.Mock
}

func (m *MockSource) ListZoneReferences() ([]models.ZoneReference, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ZoneReference), args.Error(1)
}

func ptrFloat(v float64) *float64 {
	return &v
}

func ptrInt(v int) *int {
	return &v
}

func loadedZoneStore(t *testing.T, refs []models.ZoneReference) *zone.Store {
	source := new(MockSource)
	source.On("ListZoneReferences").Return(refs, nil)
	store := zone.NewStore(source, logrus.New())
	assert.NoError(t, store.Reload())
	return store
}

func TestRun_RecomputesZonesAndMatches(t *testing.T) {
	// Zone 9 covers a 5 km radius around Fukuoka station; the property sits
	// at the center. The stale zone_codes value on the record is discarded.
	refs := []models.ZoneReference{
		{Symbol: "⑨", Name: "博多駅周辺", CenterLat: ptrFloat(33.5902), CenterLng: ptrFloat(130.4017),
			RadiusKm: ptrFloat(5.0), Active: true},
	}

	property := &models.Property{
		ID:           42,
		Number:       "AA1234",
		City:         "福岡市",
		PropertyType: models.PropertyTypeHouse,
		Price:        ptrInt(20000000),
		Latitude:     ptrFloat(33.5902),
		Longitude:    ptrFloat(130.4017),
		ZoneCodes:    "①②③", // stale, must be recomputed
	}

	records := []models.RawBuyerRecord{
		{BuyerNumber: "B001", Email: "a@example.com", DesiredZones: "⑨⑩", DesiredPropertyTypes: "戸建",
			PriceRangeHouse: "1000万円～3000万円", StatusCode: "追客中", DistributionFlag: "要"},
		{BuyerNumber: "B002", Email: "b@example.com", DesiredZones: "⑩",
			StatusCode: "追客中", DistributionFlag: "要"},
	}

	store := new(MockDataStore)
	store.On("GetProperty", int64(42)).Return(property, nil)
	store.On("ListBuyers").Return(records, nil)

	runner := NewRunner(store, loadedZoneStore(t, refs), pipeline.New(logrus.New()), logrus.New())
	result, err := runner.Run(42)

	assert.NoError(t, err)
	assert.Equal(t, "⑨", result.ZoneCodes)
	assert.Equal(t, "⑨", property.ZoneCodes)
	assert.Len(t, result.Matched, 1)
	assert.Equal(t, "a@example.com", result.Matched[0].Email)
	assert.Equal(t, 1, result.StageRejects[models.StageZone])
	store.AssertExpectations(t)
}

func TestRun_PropertyNotFound(t *testing.T) {
	store := new(MockDataStore)
	store.On("GetProperty", int64(7)).Return(nil, nil)

	runner := NewRunner(store, loadedZoneStore(t, nil), pipeline.New(logrus.New()), logrus.New())
	result, err := runner.Run(7)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestRun_StoreErrors(t *testing.T) {
	boom := errors.New("database locked")

	t.Run("Property fetch fails", func(t *testing.T) {
		store := new(MockDataStore)
		store.On("GetProperty", int64(1)).Return(nil, boom)

		runner := NewRunner(store, loadedZoneStore(t, nil), pipeline.New(logrus.New()), logrus.New())
		_, err := runner.Run(1)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Buyer listing fails", func(t *testing.T) {
		store := new(MockDataStore)
		store.On("GetProperty", int64(1)).Return(&models.Property{ID: 1, Number: "AA1"}, nil)
		store.On("ListBuyers").Return(nil, boom)

		runner := NewRunner(store, loadedZoneStore(t, nil), pipeline.New(logrus.New()), logrus.New())
		_, err := runner.Run(1)
		assert.ErrorIs(t, err, boom)
	})
}

func TestRun_UngeocodedPropertyStillEvaluatesCityZones(t *testing.T) {
	refs := []models.ZoneReference{
		{Symbol: "①", Name: "福岡市全域", CityName: "福岡市", Active: true},
	}

	property := &models.Property{
		ID:           9,
		Number:       "AA9999",
		City:         "福岡市",
		PropertyType: models.PropertyTypeLand,
	}

	records := []models.RawBuyerRecord{
		{BuyerNumber: "B010", Email: "land@example.com", DesiredZones: "①", DesiredPropertyTypes: "土地",
			StatusCode: "追客中", DistributionFlag: "メール"},
	}

	store := new(MockDataStore)
	store.On("GetProperty", int64(9)).Return(property, nil)
	store.On("ListBuyers").Return(records, nil)

	runner := NewRunner(store, loadedZoneStore(t, refs), pipeline.New(logrus.New()), logrus.New())
	result, err := runner.Run(9)

	assert.NoError(t, err)
	assert.Equal(t, "①", result.ZoneCodes)
	assert.Len(t, result.Matched, 1)
}
