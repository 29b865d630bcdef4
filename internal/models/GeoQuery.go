package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DateLayout is the ISO 8601 calendar date accepted for query bounds.
	DateLayout = "2006-01-02"
	// MaxRangeDays bounds end_date - start_date.
	MaxRangeDays = 31
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// GeoQuery is a request for daily observations at a point over a date range.
type GeoQuery struct {
	Latitude  float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64   `json:"longitude" validate:"gte=-180,lte=180"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

// ParseGeoQuery builds a validated query from ISO date strings.
func ParseGeoQuery(lat, lon float64, startDate, endDate string) (GeoQuery, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return GeoQuery{}, fmt.Errorf("%w: start_date must be in ISO format (YYYY-MM-DD), got: %q", ErrValidation, startDate)
	}

	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return GeoQuery{}, fmt.Errorf("%w: end_date must be in ISO format (YYYY-MM-DD), got: %q", ErrValidation, endDate)
	}

	q := GeoQuery{
		Latitude:  lat,
		Longitude: lon,
		StartDate: start,
		EndDate:   end,
	}

	return q, q.Validate()
}

// Validate checks coordinate bounds, date order and the maximum range.
func (q GeoQuery) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describeValidation(err))
	}

	if days := q.Days(); days > MaxRangeDays {
		return fmt.Errorf("%w: date range cannot exceed %d days, got %d days", ErrValidation, MaxRangeDays, days)
	}

	return nil
}

// Days returns the whole number of days between start and end.
func (q GeoQuery) Days() int {
	return int(q.EndDate.Sub(q.StartDate).Hours() / 24)
}

func (q GeoQuery) RequestParams() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f from: %s to: %s",
		q.Latitude, q.Longitude, q.StartDate.Format(DateLayout), q.EndDate.Format(DateLayout))
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "latitude":
			msgs = append(msgs, "latitude must be between -90 and 90")
		case "longitude":
			msgs = append(msgs, "longitude must be between -180 and 180")
		case "end_date":
			if fe.Tag() == "gtefield" {
				msgs = append(msgs, "start_date must be less than or equal to end_date")
				continue
			}
			msgs = append(msgs, "end_date is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}

	return strings.Join(msgs, "; ")
}
