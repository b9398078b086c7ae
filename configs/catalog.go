package config

import (
	"fmt"
	"os"

	"github.com/anjiri1684/supercar_rentals/models"
	"gopkg.in/yaml.v3"
)

type CatalogCar struct {
	Make           string                   `yaml:"make"`
	Model          string                   `yaml:"model"`
	Year           int                      `yaml:"year"`
	Specifications models.CarSpecifications `yaml:"specifications"`
	Pricing        models.CarPricing        `yaml:"pricing"`
	Images         []string                 `yaml:"images"`
	Available      *bool                    `yaml:"available"`
}

type Catalog struct {
	Cars []CatalogCar `yaml:"cars"`
}

// LoadCatalog reads a YAML car catalog. ${VAR} references are expanded from
// the environment before parsing.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	var catalog Catalog
	if err := yaml.Unmarshal(expanded, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, car := range catalog.Cars {
		if car.Make == "" || car.Model == "" {
			return nil, fmt.Errorf("catalog entry %d: make and model are required", i)
		}
	}
	return &catalog, nil
}

func (c CatalogCar) ToCar() models.Car {
	available := true
	if c.Available != nil {
		available = *c.Available
	}
	return models.Car{
		Make:           c.Make,
		Model:          c.Model,
		Year:           c.Year,
		Specifications: c.Specifications,
		Pricing:        c.Pricing,
		Images:         c.Images,
		Available:      available,
	}
}
