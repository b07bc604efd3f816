package geocoding

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

// Geocoder resolves an address or a shared map link to a coordinate.
// Results are cached on disk; a missing result is returned as nil, not an
// error, since an ungeocodable property is a data-quality signal rather
// than a failure.
type Geocoder struct {
	logger    *logrus.Logger
	cacheDir  string
	cache     map[string][]float64
	cacheLock sync.RWMutex
	client    *http.Client
}

func NewGeocoder(logger *logrus.Logger, cacheDir string) *Geocoder {
	// Create cache directory if it doesn't exist
	os.MkdirAll(cacheDir, 0755)

	g := &Geocoder{
		logger:   logger,
		cacheDir: cacheDir,
		cache:    make(map[string][]float64),
		client:   &http.Client{Timeout: 10 * time.Second},
	}

	// Load cache from file
	g.loadCache()

	return g
}

func (g *Geocoder) loadCache() {
	cacheFile := filepath.Join(g.cacheDir, "geocode_cache.json")
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		g.logger.Warnf("Could not load geocode cache: %v", err)
		return
	}

	err = json.Unmarshal(data, &g.cache)
	if err != nil {
		g.logger.Errorf("Failed to parse geocode cache: %v", err)
		return
	}

	g.logger.Infof("Loaded %d cached addresses", len(g.cache))
}

func (g *Geocoder) saveCache() {
	g.cacheLock.RLock()
	defer g.cacheLock.RUnlock()

	cacheFile := filepath.Join(g.cacheDir, "geocode_cache.json")
	data, err := json.Marshal(g.cache)
	if err != nil {
		g.logger.Errorf("Failed to marshal geocode cache: %v", err)
		return
	}

	err = os.WriteFile(cacheFile, data, 0644)
	if err != nil {
		g.logger.Errorf("Failed to save geocode cache: %v", err)
		return
	}

	g.logger.Info("Saved geocode cache to disk")
}

// Shared map links embed the coordinate directly ("...@35.6812,139.7671,15z...");
// those never need a network call.
var mapLinkCoord = regexp.MustCompile(`@(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)

// Resolve turns an address or map link into a coordinate. A nil result with
// a nil error means the input could not be resolved.
func (g *Geocoder) Resolve(addressOrLink string) (*models.Coordinate, error) {
	if coord := parseMapLink(addressOrLink); coord != nil {
		g.logger.WithFields(logrus.Fields{
			"latitude":  coord.Latitude,
			"longitude": coord.Longitude,
			"source":    "map_link",
		}).Info("Extracted coordinates from map link")
		return coord, nil
	}
	return g.geocodeAddress(addressOrLink)
}

func parseMapLink(link string) *models.Coordinate {
	m := mapLinkCoord.FindStringSubmatch(link)
	if m == nil {
		return nil
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}
	return &models.Coordinate{Latitude: lat, Longitude: lng}
}

type nominatimResponse []struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *Geocoder) geocodeAddress(address string) (*models.Coordinate, error) {
	// Check cache first
	g.cacheLock.RLock()
	if coords, ok := g.cache[address]; ok {
		g.cacheLock.RUnlock()
		if len(coords) == 2 {
			g.logger.WithFields(logrus.Fields{
				"address":   address,
				"latitude":  coords[0],
				"longitude": coords[1],
				"source":    "cache",
			}).Info("Found coordinates in cache")
			return &models.Coordinate{Latitude: coords[0], Longitude: coords[1]}, nil
		}
		return nil, fmt.Errorf("invalid cached coordinates")
	}
	g.cacheLock.RUnlock()

	g.logger.WithField("address", address).Info("Geocoding address with Nominatim")

	// Respect Nominatim's usage policy
	time.Sleep(time.Second)

	// Build the query
	params := url.Values{
		"q":              []string{address},
		"format":         []string{"json"},
		"limit":          []string{"1"},
		"countrycodes":   []string{"jp"},
		"addressdetails": []string{"1"},
	}

	// Make the request
	req, err := http.NewRequest("GET", "https://nominatim.openstreetmap.org/search", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", "Sateituikyaku Distribution Server/1.0")
	req.Header.Set("Accept-Language", "ja-JP,ja;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.WithError(err).WithField("address", address).Error("Geocoding request failed")
		return nil, fmt.Errorf("geocoding request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.logger.WithError(err).WithField("address", address).Error("Failed to read response")
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	var result nominatimResponse
	if err := json.Unmarshal(body, &result); err != nil {
		g.logger.WithError(err).WithField("address", address).Error("Failed to parse response")
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	if len(result) == 0 {
		g.logger.WithField("address", address).Warn("No results found")
		return nil, nil
	}

	var lat, lng float64
	fmt.Sscanf(result[0].Lat, "%f", &lat)
	fmt.Sscanf(result[0].Lon, "%f", &lng)

	g.logger.WithFields(logrus.Fields{
		"address":   address,
		"latitude":  lat,
		"longitude": lng,
		"source":    "nominatim",
	}).Info("Successfully geocoded address")

	// Cache the result
	g.cacheLock.Lock()
	g.cache[address] = []float64{lat, lng}
	g.cacheLock.Unlock()

	// Save cache periodically
	go g.saveCache()

	return &models.Coordinate{Latitude: lat, Longitude: lng}, nil
}
