package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// pageParams reads ?page and ?size query values, clamping both to sane
// bounds. Pages are 1-based.
func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return page, size
}

// pageEnvelope is the uniform response shape for paginated listings.
func pageEnvelope(items any, count int64, page, size int) gin.H {
	return gin.H{
		"count": count,
		"page":  page,
		"size":  size,
		"items": items,
	}
}
