package models

import "time"

type Exercise struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	TargetMuscle *string   `json:"target_muscle"`
	Equipment    *string   `json:"equipment"`
	Difficulty   *string   `json:"difficulty"`
	Instructions *string   `json:"instructions"`
	VideoURL     *string   `json:"video_url"`
	ImageURL     *string   `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
