package services

import (
	"strings"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// MatchesQuery reports whether any field contains the trimmed query, ignoring case.
// An empty query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// FilterByQuery keeps the items whose fields match query, preserving order.
func FilterByQuery[T any](items []T, query string, fields func(T) []string) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if MatchesQuery(query, fields(item)...) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

type ListOptions struct {
	Query string
	Page  int
	Limit int
}

func (o ListOptions) normalized() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultPageLimit
	}
	if o.Limit > MaxPageLimit {
		o.Limit = MaxPageLimit
	}
	return o
}

// Paginate slices an already filtered list.
func Paginate[T any](items []T, page, limit int) ([]T, models.PaginationMeta) {
	opts := ListOptions{Page: page, Limit: limit}.normalized()
	total := len(items)

	totalPages := 0
	if total > 0 {
		totalPages = (total + opts.Limit - 1) / opts.Limit
	}
	meta := models.PaginationMeta{
		Page:       opts.Page,
		Limit:      opts.Limit,
		Total:      total,
		TotalPages: totalPages,
	}

	start := (opts.Page - 1) * opts.Limit
	if start >= total {
		return []T{}, meta
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return items[start:end], meta
}

func profileSearchFields(p models.Profile) []string {
	fields := []string{p.FirstName, p.LastName}
	if p.NationalID != nil {
		fields = append(fields, *p.NationalID)
	}
	return fields
}

func routineSearchFields(r models.Routine) []string {
	fields := []string{r.Name}
	if r.Description != nil {
		fields = append(fields, *r.Description)
	}
	return fields
}

func exerciseSearchFields(e models.Exercise) []string {
	fields := []string{e.Name}
	if e.TargetMuscle != nil {
		fields = append(fields, *e.TargetMuscle)
	}
	return fields
}
