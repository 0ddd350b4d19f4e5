package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spark-api/internal/middleware"
	"github.com/noah-isme/spark-api/internal/models"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
	"github.com/noah-isme/spark-api/pkg/response"
)

const dateLayout = "2006-01-02"

// pathParam returns a trimmed, required path parameter.
func pathParam(c *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" is required"))
		return "", false
	}
	return value, true
}

// dateQuery parses an optional YYYY-MM-DD query value in loc.
func dateQuery(c *gin.Context, name string, loc *time.Location) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, true
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+", expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	return parsed, true
}

// calendarRange reads from/to. A bare "to" date is inclusive of that day.
func calendarRange(c *gin.Context, loc *time.Location) (models.CalendarRange, bool) {
	from, ok := dateQuery(c, "from", loc)
	if !ok {
		return models.CalendarRange{}, false
	}
	to, ok := dateQuery(c, "to", loc)
	if !ok {
		return models.CalendarRange{}, false
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must not be after to"))
		return models.CalendarRange{}, false
	}
	return models.CalendarRange{From: from, To: to}, true
}

// mutationMeta merges the result revision into the request meta.
func mutationMeta(c *gin.Context, result models.MutationResult) map[string]interface{} {
	middleware.SetRevision(c, result.Revision)
	return middleware.ExtractMeta(c)
}
