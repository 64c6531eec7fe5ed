package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zahrashop/backend/internal/i18n"
)

// requestLanguage resolves the response language: the lang query parameter
// wins, then the first Accept-Language tag, then the default.
func requestLanguage(c *gin.Context) i18n.Language {
	if q := c.Query("lang"); q != "" {
		return i18n.Parse(q)
	}
	if header := c.GetHeader("Accept-Language"); header != "" {
		first, _, _ := strings.Cut(header, ",")
		first, _, _ = strings.Cut(first, ";")
		base, _, _ := strings.Cut(strings.TrimSpace(first), "-")
		return i18n.Parse(base)
	}
	return i18n.Default
}
