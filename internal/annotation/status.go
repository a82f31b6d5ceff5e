package annotation

import "strings"

// statusOrder ranks tag families for the player status dot. Spatial tags share one colour.
var statusOrder = []struct {
	ids   []TagID
	color string
}{
	{[]TagID{TagForwardRun}, ColorRed},
	{[]TagID{TagPress}, ColorOrange},
	{[]TagID{TagDropBack}, ColorBlue},
	{[]TagID{TagSupport}, ColorYellow},
	{[]TagID{TagHalfSpace, TagOverload, TagPocket, TagWingChannel, TagZone14, TagBox}, ColorPurple},
}

// StatusColor picks the marker colour for a player from its tags. Tags outside the
// taxonomy are ignored; an untagged player is green.
func StatusColor(tags []string) string {
	present := make(map[TagID]bool, len(tags))
	for _, t := range tags {
		if id, ok := Lookup(t); ok {
			present[id] = true
		}
	}
	for _, s := range statusOrder {
		for _, id := range s.ids {
			if present[id] {
				return s.color
			}
		}
	}
	return ColorGreen
}

var arrowClasses = []struct {
	class string
	match []string
}{
	{"red", []string{"red", ColorRed}},
	{"blue", []string{"blue", ColorBlue}},
	{"yellow", []string{"yellow", ColorYellow}},
	{"green", []string{"green", ColorGreen}},
}

// ArrowClass maps a line colour to the arrowhead marker drawn at its end. When several
// classes match, the later one in red, blue, yellow, green order wins.
// Colours outside the palette get no arrowhead ("").
func ArrowClass(color string) string {
	c := strings.ToLower(color)
	class := ""
	for _, a := range arrowClasses {
		for _, m := range a.match {
			if strings.Contains(c, m) {
				class = a.class
			}
		}
	}
	return class
}
