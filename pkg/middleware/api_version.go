package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIVersion represents the API version information
type APIVersion struct {
	Version           string
	LatestVersion     string
	DeprecationDate   string // Empty if not deprecated
	SunsetDate        string
	DeprecationNotice string
	// StripeAPIVersion is the provider API version the service was built against.
	StripeAPIVersion string
}

// CurrentAPIVersion holds the current API version info
var CurrentAPIVersion = APIVersion{
	Version:       "1.0.0",
	LatestVersion: "1.0.0",
}

// APIVersionMiddleware adds API version headers to all responses
func APIVersionMiddleware(version APIVersion) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version.Version)
			h.Set("X-API-Latest-Version", version.LatestVersion)
			if version.StripeAPIVersion != "" {
				h.Set("X-Stripe-API-Version", version.StripeAPIVersion)
			}

			if version.DeprecationDate != "" {
				h.Set("X-API-Deprecation-Date", version.DeprecationDate)
				h.Set("Deprecation", "true")

				if version.SunsetDate != "" {
					h.Set("Sunset", version.SunsetDate)
				}
				if version.DeprecationNotice != "" {
					h.Set("X-API-Deprecation-Notice", version.DeprecationNotice)
				}
			}

			return next(c)
		}
	}
}

// VersionInfo returns version information for API responses
func VersionInfo(version APIVersion) map[string]interface{} {
	info := map[string]interface{}{
		"version":        version.Version,
		"latest_version": version.LatestVersion,
	}
	if version.StripeAPIVersion != "" {
		info["stripe_api_version"] = version.StripeAPIVersion
	}

	if version.DeprecationDate != "" {
		info["deprecated"] = true
		info["deprecation_date"] = version.DeprecationDate
		if version.SunsetDate != "" {
			info["sunset_date"] = version.SunsetDate
		}
		if version.DeprecationNotice != "" {
			info["deprecation_notice"] = version.DeprecationNotice
		}
	}

	return info
}
