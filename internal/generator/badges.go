package generator

import (
	"net/url"
	"strings"
	"time"

	"pyreadme/internal/config"
)

// badgeOrder is the fixed order badges are rendered in, whatever the
// order of badges.types in the configuration.
var badgeOrder = []string{"status", "version", "coverage", "last_update"}

func buildBadges(b config.Badges, now time.Time) []string {
	if !b.Show {
		return nil
	}
	enabled := make(map[string]bool, len(b.Types))
	for _, t := range b.Types {
		enabled[t] = true
	}

	var badges []string
	for _, kind := range badgeOrder {
		if !enabled[kind] {
			continue
		}
		switch kind {
		case "status":
			badges = append(badges, "![Status](https://img.shields.io/badge/status-active-success)")
		case "version":
			badges = append(badges, "![Version](https://img.shields.io/badge/version-"+shieldsEscape(b.Version)+"-blue)")
		case "coverage":
			badges = append(badges, "![Coverage](https://img.shields.io/badge/coverage-"+shieldsEscape(b.Coverage)+"-yellowgreen)")
		case "last_update":
			badges = append(badges, "![LastUpdate](https://img.shields.io/badge/last_update-"+shieldsEscape(now.Format("2006-01-02"))+"-informational)")
		}
	}
	return badges
}

// shieldsEscape encodes a static badge segment: dashes and underscores are
// doubled, spaces become underscores and the rest is path-escaped.
func shieldsEscape(s string) string {
	s = strings.ReplaceAll(s, "-", "--")
	s = strings.ReplaceAll(s, "_", "__")
	s = strings.ReplaceAll(s, " ", "_")
	return url.PathEscape(s)
}
