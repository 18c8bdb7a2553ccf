package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstMatchOrderAndShapes(t *testing.T) {
	rules := []MappingRule{
		{ID: "r1", ProductID: "p1", Shapes: `["circle"]`, Active: true},
		{ID: "r2", ProductID: "p2", Active: true}, // no restriction
		{ID: "r3", ProductID: "p3", Active: true},
	}

	got, ok := FirstMatch(rules, "rectangle")
	assert.True(t, ok)
	assert.Equal(t, "r2", got.ID, "first applicable rule in list order wins")

	got, ok = FirstMatch(rules, "circle")
	assert.True(t, ok)
	assert.Equal(t, "r1", got.ID)
}

func TestFirstMatchSkipsInactive(t *testing.T) {
	rules := []MappingRule{
		{ID: "r1", ProductID: "p1", Active: false},
		{ID: "r2", ProductID: "p2", Active: true},
	}
	got, ok := FirstMatch(rules, "rectangle")
	assert.True(t, ok)
	assert.Equal(t, "r2", got.ID)

	_, ok = FirstMatch([]MappingRule{{ID: "r1", Active: false}}, "rectangle")
	assert.False(t, ok)
}

func TestFirstMatchBrokenShapeJSONMatchesAll(t *testing.T) {
	rules := []MappingRule{{ID: "r1", ProductID: "p1", Shapes: `{broken`, Active: true}}
	_, ok := FirstMatch(rules, "rectangle")
	assert.True(t, ok, "unparseable restriction behaves as unrestricted")
}

func TestDecodeAddonTrigger(t *testing.T) {
	cases := []struct {
		name  string
		kind  string
		value string
	}{
		{"Hloubka 1,2 m", TriggerDepth, "1.2"},
		{"hloubka 1.5 m", TriggerDepth, "1.5"},
		{"Ostré rohy", TriggerSharpCorners, ""},
		{"Příplatek ostre rohy", TriggerSharpCorners, ""},
		{"Schody přes šířku", TriggerStairs, "pres_sirku"},
		{"Trojúhelníkové schody", TriggerStairs, "trojuhelnikove"},
		{"Románské schody", TriggerStairs, "romanske"},
		{"Kotvení do svahu", "", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		kind, value := DecodeAddonTrigger(tc.name)
		assert.Equal(t, tc.kind, kind, "name %q", tc.name)
		assert.Equal(t, tc.value, value, "name %q", tc.name)
	}
}

func TestMatchesConfiguration(t *testing.T) {
	depth := SetAddon{TriggerKind: TriggerDepth, TriggerValue: "1.5"}
	assert.True(t, depth.MatchesConfiguration("rectangle", 1.5, ""))
	assert.False(t, depth.MatchesConfiguration("rectangle", 1.2, ""))

	sharp := SetAddon{TriggerKind: TriggerSharpCorners}
	assert.True(t, sharp.MatchesConfiguration("rectangle_sharp", 1.5, ""))
	assert.False(t, sharp.MatchesConfiguration("rectangle", 1.5, ""))

	stairs := SetAddon{TriggerKind: TriggerStairs, TriggerValue: "pres_sirku"}
	assert.True(t, stairs.MatchesConfiguration("rectangle", 1.5, "pres_sirku"))
	assert.False(t, stairs.MatchesConfiguration("rectangle", 1.5, "trojuhelnikove"))
	assert.False(t, stairs.MatchesConfiguration("rectangle", 1.5, ""))

	manual := SetAddon{Name: "Kotvení do svahu"}
	assert.False(t, manual.MatchesConfiguration("rectangle_sharp", 1.5, "pres_sirku"))
}
