package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// FirstMatch picks the winning mapping rule for a shape: the first
// active rule (caller supplies rules already ordered by sort_order, id)
// whose shape restriction allows the pool. Kept as an exported pure
// function so the "first in list order" tie-break stays pinned by tests
// instead of buried in SQL.
func FirstMatch(rules []MappingRule, shape string) (MappingRule, bool) {
	for _, r := range rules {
		if !r.Active {
			continue
		}
		if r.AppliesToShape(shape) {
			return r, true
		}
	}
	return MappingRule{}, false
}

// Legacy catalog rows carry their matching intent only in the Czech
// display name ("Hloubka 1,5 m", "Ostré rohy", "Schody přes šířku").
// DecodeAddonTrigger recovers that intent once, at catalog-authoring or
// import time; generation then consults only the explicit trigger.

var reDepthName = regexp.MustCompile(`(?i)hloubka\s+(\d+(?:[.,]\d+)?)\s*m`)

var stairsNames = map[string]string{
	"schody přes šířku":    "pres_sirku",
	"trojúhelníkové schody": "trojuhelnikove",
	"románské schody":      "romanske",
}

// DecodeAddonTrigger infers (kind, value) from an addon display name.
// Names with no recognized pattern yield ("", "") — manual addons that
// are never auto-attached.
func DecodeAddonTrigger(name string) (kind, value string) {
	lower := strings.ToLower(strings.TrimSpace(name))

	if m := reDepthName.FindStringSubmatch(lower); m != nil {
		return TriggerDepth, strings.ReplaceAll(m[1], ",", ".")
	}
	if strings.Contains(lower, "ostré rohy") || strings.Contains(lower, "ostre rohy") {
		return TriggerSharpCorners, ""
	}
	for n, v := range stairsNames {
		if strings.Contains(lower, n) {
			return TriggerStairs, v
		}
	}
	return "", ""
}

// MatchesConfiguration reports whether the addon's trigger fires for
// the given pool facts. Manual addons (no trigger) never match.
func (a SetAddon) MatchesConfiguration(shape string, depth float64, stairs string) bool {
	switch a.TriggerKind {
	case TriggerDepth:
		want, err := strconv.ParseFloat(a.TriggerValue, 64)
		if err != nil {
			return false
		}
		return depth == want
	case TriggerSharpCorners:
		return shape == "rectangle_sharp"
	case TriggerStairs:
		return stairs != "" && stairs == a.TriggerValue
	}
	return false
}
