package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/crew-scheduling-api/internal/errors"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// queryDate parses a yyyy-MM-dd query parameter. A missing parameter yields
// the zero date. A malformed one is answered 400 and ok is false.
func queryDate(c *gin.Context, name string) (models.Date, bool) {
	raw := c.Query(name)
	if raw == "" {
		return models.Date{}, true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid "+name, gin.H{"field": name, "expected": "yyyy-MM-dd"})
		return models.Date{}, false
	}
	return d, true
}

// optionalRange reads start_date and end_date, either of which may be absent.
func optionalRange(c *gin.Context) (from, to *models.Date, ok bool) {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return nil, nil, false
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return nil, nil, false
	}
	if !start.IsZero() {
		from = &start
	}
	if !end.IsZero() {
		to = &end
	}
	return from, to, true
}

// queryList reads a parameter given either repeated or comma separated.
func queryList(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryInt(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &n, true
}
