package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	ExportFormatJSON = "json"
	ExportFormatYAML = "yaml"
)

// RoutineExport is the printable shape of a routine composition.
type RoutineExport struct {
	ExportedAt  string                  `json:"exported_at" yaml:"exported_at"`
	ID          int64                   `json:"id" yaml:"id"`
	Name        string                  `json:"name" yaml:"name"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Exercises   []RoutineExerciseExport `json:"exercises" yaml:"exercises"`
}

type RoutineExerciseExport struct {
	Name       string      `json:"name" yaml:"name"`
	Category   string      `json:"category,omitempty" yaml:"category,omitempty"`
	WeightType string      `json:"weight_type" yaml:"weight_type"`
	Sets       []SetExport `json:"sets" yaml:"sets"`
}

type SetExport struct {
	Number int      `json:"set_number" yaml:"set_number"`
	Weight *float64 `json:"suggested_weight,omitempty" yaml:"suggested_weight,omitempty"`
	Reps   *int     `json:"suggested_reps,omitempty" yaml:"suggested_reps,omitempty"`
}

func BuildRoutineExport(detail *models.RoutineDetail, exportedAt time.Time) RoutineExport {
	out := RoutineExport{
		ExportedAt: exportedAt.UTC().Format(time.RFC3339),
		ID:         detail.ID,
		Name:       detail.Name,
		Exercises:  make([]RoutineExerciseExport, 0, len(detail.Exercises)),
	}
	if detail.Description != nil {
		out.Description = *detail.Description
	}

	for _, group := range detail.Exercises {
		item := RoutineExerciseExport{
			Name:       fmt.Sprintf("exercise #%d", group.ExerciseID),
			WeightType: group.WeightType,
			Sets:       make([]SetExport, 0, len(group.Sets)),
		}
		if group.Exercise != nil {
			item.Name = group.Exercise.Name
			if group.Exercise.Category != nil {
				item.Category = *group.Exercise.Category
			}
		}
		for _, set := range group.Sets {
			item.Sets = append(item.Sets, SetExport{
				Number: set.SetNumber,
				Weight: set.SuggestedWeight,
				Reps:   set.SuggestedReps,
			})
		}
		out.Exercises = append(out.Exercises, item)
	}

	return out
}

// EncodeRoutineExport renders export in the requested format.
func EncodeRoutineExport(export RoutineExport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case ExportFormatJSON:
		return json.MarshalIndent(export, "", "  ")
	case ExportFormatYAML:
		return yaml.Marshal(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (use json or yaml)", ErrInvalidInput, format)
	}
}
