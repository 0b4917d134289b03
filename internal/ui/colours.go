// Package ui holds terminal colours used when printing route tables and request logs.
package ui

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	// Standard colors
	Black   = "\033[30m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m" // Reset to default color
)

var MethodColors = map[string]string{
	"GET":     Green,
	"POST":    Blue,
	"PUT":     Cyan,
	"DELETE":  Yellow,
	"PATCH":   Magenta,
	"OPTIONS": Gray,
}

// Method pads and colours an HTTP method for console output
func Method(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := MethodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// LogRoute prints one line of a route table
func LogRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", Method(method), path)
}

// LogRoutes prints "METHOD /path" patterns as registered on a router
func LogRoutes(routes []string) {
	for _, route := range routes {
		var method, path string
		if _, err := fmt.Sscanf(route, "%s %s", &method, &path); err != nil {
			LogRoute("", route)
			continue
		}
		LogRoute(method, path)
	}
}
