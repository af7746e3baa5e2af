package models

import "time"

type UserMeasurement struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	MeasuredOn time.Time `json:"measured_on"`
	Arms       *float64  `json:"arms"`
	Waist      *float64  `json:"waist"`
	Thighs     *float64  `json:"thighs"`
	Weight     *float64  `json:"weight"`
	Height     *float64  `json:"height"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
