package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog(t *testing.T) {
	t.Setenv("CDN_HOST", "cdn.example.com")

	data := []byte(`
cars:
  - make: Porsche
    model: 911 GT3
    year: 2023
    specifications:
      engine: 4.0L flat-six
      horsepower: 502
      top_speed: 318
    pricing:
      daily: 1200
      weekly: 7000
    images:
      - https://${CDN_HOST}/gt3.jpg
  - make: Ferrari
    model: 296 GTB
    year: 2024
    available: false
    pricing:
      daily: 1800
`)

	catalog, err := ParseCatalog(data)
	require.NoError(t, err)
	require.Len(t, catalog.Cars, 2)

	gt3 := catalog.Cars[0].ToCar()
	assert.Equal(t, "Porsche", gt3.Make)
	assert.Equal(t, 502, gt3.Specifications.Horsepower)
	assert.Equal(t, 318, gt3.Specifications.TopSpeed)
	assert.Equal(t, 1200.0, gt3.Pricing.Daily)
	assert.True(t, gt3.Available)
	assert.Equal(t, []string{"https://cdn.example.com/gt3.jpg"}, gt3.Images)

	assert.False(t, catalog.Cars[1].ToCar().Available)
}

func TestParseCatalogRequiresMakeAndModel(t *testing.T) {
	_, err := ParseCatalog([]byte("cars:\n  - year: 2020\n"))
	assert.ErrorContains(t, err, "make and model are required")
}

func TestConfigDefault(t *testing.T) {
	t.Setenv("RENTALS_TEST_PORT", "")
	assert.Equal(t, "8080", ConfigDefault("RENTALS_TEST_PORT", "8080"))

	t.Setenv("RENTALS_TEST_PORT", "9090")
	assert.Equal(t, "9090", ConfigDefault("RENTALS_TEST_PORT", "8080"))
}
