package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	config "github.com/anjiri1684/supercar_rentals/configs"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
)

type CarInput struct {
	Make           string
	Model          string
	Year           int
	Specifications models.CarSpecifications
	Images         []string
	Available      *bool
	Pricing        models.CarPricing
}

// CarService manages inventory. It never writes the derived rating fields.
type CarService struct {
	store database.Store
}

func NewCarService(store database.Store) *CarService {
	return &CarService{store: store}
}

func (in CarInput) validate() error {
	if strings.TrimSpace(in.Make) == "" || strings.TrimSpace(in.Model) == "" {
		return apperrors.Validation("make and model are required")
	}
	if in.Year < 1886 {
		return apperrors.Validation("year is invalid")
	}
	if in.Pricing.Daily <= 0 {
		return apperrors.Validation("pricing.daily must be positive")
	}
	return nil
}

func (in CarInput) apply(car *models.Car) {
	car.Make = strings.TrimSpace(in.Make)
	car.Model = strings.TrimSpace(in.Model)
	car.Year = in.Year
	car.Specifications = in.Specifications
	car.Images = in.Images
	car.Pricing = in.Pricing
	if in.Available != nil {
		car.Available = *in.Available
	}
}

func (s *CarService) Create(ctx context.Context, in CarInput) (*models.Car, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	car := &models.Car{ID: uuid.New(), Available: true}
	in.apply(car)
	if err := s.store.CreateCar(ctx, car); err != nil {
		return nil, apperrors.Unexpected("Failed to create car", err)
	}
	return car, nil
}

func (s *CarService) Update(ctx context.Context, id uuid.UUID, in CarInput) (*models.Car, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	car, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(car)
	if err := s.store.UpdateCarDetails(ctx, car); err != nil {
		return nil, apperrors.Unexpected("Failed to update car", err)
	}
	return car, nil
}

func (s *CarService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteCar(ctx, id); err != nil {
		return apperrors.Unexpected("Failed to delete car", err)
	}
	return nil
}

func (s *CarService) FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	car, err := s.store.FindCarByID(ctx, id)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load car", err)
	}
	if car == nil {
		return nil, apperrors.NotFound("Car not found")
	}
	return car, nil
}

func (s *CarService) List(ctx context.Context, filter database.CarFilter) ([]models.Car, error) {
	cars, err := s.store.ListCars(ctx, filter)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to list cars", err)
	}
	if cars == nil {
		cars = []models.Car{}
	}
	return cars, nil
}

func (s *CarService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.Car, error) {
	car, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetCarAvailability(ctx, id, available); err != nil {
		return nil, apperrors.Unexpected("Failed to update car availability", err)
	}
	car.Available = available
	return car, nil
}

// SeedCatalog inserts the catalog cars that are not in inventory yet,
// matching on make, model and year. It returns how many were created.
func (s *CarService) SeedCatalog(ctx context.Context, catalog *config.Catalog) (int, error) {
	existing, err := s.List(ctx, database.CarFilter{})
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, car := range existing {
		seen[catalogKey(car.Make, car.Model, car.Year)] = true
	}

	created := 0
	for _, entry := range catalog.Cars {
		if seen[catalogKey(entry.Make, entry.Model, entry.Year)] {
			continue
		}
		car := entry.ToCar()
		car.ID = uuid.New()
		if err := s.store.CreateCar(ctx, &car); err != nil {
			return created, apperrors.Unexpected("Failed to seed car", err)
		}
		seen[catalogKey(car.Make, car.Model, car.Year)] = true
		created++
	}
	log.Printf("✅ Seeded %d car(s) from catalog", created)
	return created, nil
}

func catalogKey(carMake, model string, year int) string {
	return fmt.Sprintf("%s|%s|%d", strings.ToLower(carMake), strings.ToLower(model), year)
}
