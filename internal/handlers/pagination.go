package handlers

import (
	"strconv"
	"strings"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

// parseListOptions reads q, page and limit. Out of range values fall back to the
// defaults instead of failing the request.
func parseListOptions(c *fiber.Ctx) services.ListOptions {
	limit := parsePositiveInt(c.Query("limit"), services.DefaultPageLimit)
	if limit > services.MaxPageLimit {
		limit = services.MaxPageLimit
	}
	return services.ListOptions{
		Query: strings.TrimSpace(c.Query("q")),
		Page:  parsePositiveInt(c.Query("page"), 1),
		Limit: limit,
	}
}

func parsePositiveInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseBoolQuery(raw string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && value
}
