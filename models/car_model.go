package models

import (
	"time"

	"github.com/google/uuid"
)

type CarSpecifications struct {
	Engine       string  `gorm:"size:100" json:"engine" yaml:"engine"`
	Horsepower   int     `json:"horsepower" yaml:"horsepower"`
	Torque       int     `json:"torque" yaml:"torque"`
	Acceleration float64 `json:"acceleration" yaml:"acceleration"`
	TopSpeed     int     `json:"topSpeed" yaml:"top_speed"`
	Transmission string  `gorm:"size:50" json:"transmission" yaml:"transmission"`
	Drivetrain   string  `gorm:"size:50" json:"drivetrain" yaml:"drivetrain"`
	FuelType     string  `gorm:"size:50" json:"fuelType" yaml:"fuel_type"`
	Seats        int     `json:"seats" yaml:"seats"`
	Length       float64 `json:"length" yaml:"length"`
	Width        float64 `json:"width" yaml:"width"`
	Height       float64 `json:"height" yaml:"height"`
	Weight       float64 `json:"weight" yaml:"weight"`
}

type CarPricing struct {
	Hourly  float64 `gorm:"type:numeric(10,2)" json:"hourly" yaml:"hourly"`
	Daily   float64 `gorm:"type:numeric(10,2);not null" json:"daily" yaml:"daily"`
	Weekly  float64 `gorm:"type:numeric(10,2)" json:"weekly" yaml:"weekly"`
	Monthly float64 `gorm:"type:numeric(10,2)" json:"monthly" yaml:"monthly"`
}

type Car struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Make           string            `gorm:"size:100;not null;index" json:"make"`
	Model          string            `gorm:"size:100;not null" json:"model"`
	Year           int               `gorm:"not null" json:"year"`
	Specifications CarSpecifications `gorm:"embedded;embeddedPrefix:spec_" json:"specifications"`
	Images         []string          `gorm:"serializer:json" json:"images"`
	Available      bool              `gorm:"not null;default:true" json:"available"`
	Pricing        CarPricing        `gorm:"embedded;embeddedPrefix:price_" json:"pricing"`

	// Written only by the rating aggregator.
	AverageRating float64 `gorm:"not null;default:0" json:"averageRating"`
	TotalReviews  int     `gorm:"not null;default:0" json:"totalReviews"`

	BookingIDs []uuid.UUID `gorm:"serializer:json" json:"bookingIds"`
	CommentIDs []uuid.UUID `gorm:"serializer:json" json:"commentIds"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
