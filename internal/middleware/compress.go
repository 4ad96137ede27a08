package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compress gzips responses at the fastest level. The scrape endpoint negotiates
// its own encoding and is left alone.
func Compress() gin.HandlerFunc {
	return gzip.Gzip(gzip.BestSpeed, gzip.WithExcludedPaths([]string{"/metrics"}))
}
