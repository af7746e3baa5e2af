package handlers

import (
	"net/mail"
	"strings"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
)

const minPasswordLength = 8

var allowedGenders = map[string]struct{}{
	"male":   {},
	"female": {},
	"other":  {},
}

var allowedMediaKinds = map[string]struct{}{
	services.MediaKindImage: {},
	services.MediaKindVideo: {},
}

func validateEmail(raw string) (string, string) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", "Invalid email format"
	}
	return strings.ToLower(parsed.Address), ""
}

func validateRegisterRequest(req registerRequest) string {
	if _, msg := validateEmail(req.Email); msg != "" {
		return msg
	}
	if len(req.Password) < minPasswordLength {
		return "Password must be at least 8 characters"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return "first_name is required"
	}
	return ""
}

func validateCreateUserRequest(req createUserRequest) string {
	if _, msg := validateEmail(req.Email); msg != "" {
		return msg
	}
	if len(req.Password) < minPasswordLength {
		return "Password must be at least 8 characters"
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		return "role must be one of: user, coach, admin"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return "first_name is required"
	}
	return validateProfileFields(req.profileFields)
}

func validateUpdateUserRequest(req updateUserRequest) string {
	if req.Role != nil && !models.ValidRole(*req.Role) {
		return "role must be one of: user, coach, admin"
	}
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		return "first_name must not be empty"
	}
	return validateProfileFields(req.profileFields)
}

func validateUpdateProfileRequest(req updateProfileRequest) string {
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		return "first_name must not be empty"
	}
	return validateProfileFields(req.profileFields)
}

func validateProfileFields(fields profileFields) string {
	if fields.Age != nil && *fields.Age <= 0 {
		return "age must be greater than 0"
	}
	if fields.Gender != nil {
		if _, ok := allowedGenders[strings.ToLower(strings.TrimSpace(*fields.Gender))]; !ok {
			return "gender must be one of: male, female, other"
		}
	}
	if _, err := parseDate(fields.StartDate); err != nil {
		return "start_date must be formatted as YYYY-MM-DD"
	}
	return ""
}

func validateExerciseRequest(req exerciseRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	return ""
}

func validateUpdateExerciseRequest(req updateExerciseRequest) string {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return "name must not be empty"
	}
	return ""
}

func validateMediaKind(kind string) string {
	if _, ok := allowedMediaKinds[kind]; !ok {
		return "kind must be one of: image, video"
	}
	return ""
}

func validateRoutineRequest(req routineRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	return ""
}

func validateUpdateRoutineRequest(req updateRoutineRequest) string {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return "name must not be empty"
	}
	return ""
}

func validateRoutineExerciseRequest(req routineExerciseRequest) string {
	if req.ExerciseID <= 0 {
		return "exercise_id must be a positive integer"
	}
	return validateWeightType(req.WeightType, true)
}

func validateWeightType(weightType string, optional bool) string {
	if weightType == "" && optional {
		return ""
	}
	if !models.ValidWeightType(weightType) {
		return "weight_type must be one of: kilos, pounds, pesas"
	}
	return ""
}

func validateSetRequest(req setRequest) string {
	if req.SuggestedWeight != nil && *req.SuggestedWeight < 0 {
		return "suggested_weight must be 0 or greater"
	}
	if req.SuggestedReps != nil && *req.SuggestedReps <= 0 {
		return "suggested_reps must be greater than 0"
	}
	return ""
}

func validateMeasurementRequest(req measurementRequest) string {
	if _, err := parseDate(req.MeasuredOn); err != nil {
		return "measured_on must be formatted as YYYY-MM-DD"
	}
	values := map[string]*float64{
		"arms":   req.Arms,
		"waist":  req.Waist,
		"thighs": req.Thighs,
		"weight": req.Weight,
		"height": req.Height,
	}
	for _, name := range []string{"arms", "waist", "thighs", "weight", "height"} {
		if value := values[name]; value != nil && *value <= 0 {
			return name + " must be greater than 0"
		}
	}
	return ""
}

func validateCompleteSetRequest(req completeSetRequest) string {
	if req.RoutineExerciseID <= 0 {
		return "routine_exercise_id must be a positive integer"
	}
	if req.SetNumber <= 0 {
		return "set_number must be a positive integer"
	}
	if req.Weight != nil && *req.Weight < 0 {
		return "weight must be 0 or greater"
	}
	if req.Reps != nil && *req.Reps < 0 {
		return "reps must be 0 or greater"
	}
	return ""
}
