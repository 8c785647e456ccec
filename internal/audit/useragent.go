package audit

import (
	"strings"

	ua "github.com/mssola/user_agent"
	"github.com/ukydev/ac-service-backend/internal/models"
)

var tabletIndicators = []string{"ipad", "tablet", "kindle", "playbook", "nexus 7", "nexus 9", "nexus 10", "sm-t"}

// ParseUserAgent derives device information from a User-Agent header
func ParseUserAgent(userAgent string) models.DeviceInfo {
	if strings.TrimSpace(userAgent) == "" {
		return models.DeviceInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)
	name, version := parser.Browser()
	browser := name
	if browser == "" {
		browser = "Unknown"
	} else if version != "" {
		browser = name + " " + version
	}

	os := parser.OS()
	if os == "" {
		os = "Unknown"
	}

	return models.DeviceInfo{
		DeviceType: deviceType(parser),
		OS:         os,
		Browser:    browser,
		IsBot:      parser.Bot(),
	}
}

func deviceType(parser *ua.UserAgent) string {
	if parser.Bot() {
		return "bot"
	}
	lower := strings.ToLower(parser.UA())
	for _, indicator := range tabletIndicators {
		if strings.Contains(lower, indicator) {
			return "tablet"
		}
	}
	if parser.Mobile() {
		return "mobile"
	}
	return "desktop"
}
