package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
)

// Event listing page bounds. Pages are numbered from 1.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func normalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

func normalizeSize(size int) int {
	if size < 1 || size > MaxPageSize {
		return DefaultPageSize
	}
	return size
}

// CalculateOffsetLimit turns a page request into the squirrel OFFSET and LIMIT of the event query
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	limit = normalizeSize(size)
	offset = uint64(normalizePage(page)-1) * uint64(limit)
	return offset, limit
}

// NewPaginationInfo describes the page of events being returned. An empty listing still
// has one page, and a page past the end is reported as the last one.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	size = normalizeSize(size)

	totalPages := 1
	if totalItems > 0 {
		totalPages = int((totalItems + int64(size) - 1) / int64(size))
	}

	return dto.PaginationInfo{
		CurrentPage: min(normalizePage(page), totalPages),
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams reads ?page= and ?size=, replacing missing or invalid values with defaults
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = DefaultPage
	}
	size, err = strconv.Atoi(c.Query("size"))
	if err != nil {
		size = DefaultPageSize
	}
	return normalizePage(page), normalizeSize(size)
}
