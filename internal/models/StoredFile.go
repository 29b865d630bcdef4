package models

import "time"

// StoredFile describes a published payload in the weather store.
type StoredFile struct {
	Name         string    `json:"filename" example:"weather_35_6762_139_6503_20240101_20240107.json"`
	Size         int64     `json:"size" example:"1024"`
	LastModified time.Time `json:"last_modified" example:"2024-01-08T10:00:00Z"`
}
