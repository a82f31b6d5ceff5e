// Package annotation turns player tags into derived tactical lines and zones.
package annotation

import "strings"

// TagID is a member of the closed tag taxonomy
type TagID string

// Movement tags produce a two-point line from the player
const (
	TagForwardRun TagID = "forward_run"
	TagPress      TagID = "press"
	TagDropBack   TagID = "drop_back"
	TagSupport    TagID = "support"
)

// Spatial tags produce a zone rectangle
const (
	TagHalfSpace   TagID = "half_space"
	TagOverload    TagID = "overload"
	TagPocket      TagID = "pocket"
	TagWingChannel TagID = "wing_channel"
	TagZone14      TagID = "zone14"
	TagBox         TagID = "box"
)

// Group is the family a tag belongs to
type Group int

const (
	GroupNone Group = iota
	GroupMovement
	GroupSpatial
)

type taxonomyEntry struct {
	id      TagID
	group   Group
	aliases []string
}

// taxonomy is ordered: movement groups first, then spatial groups. An alias claimed by an
// earlier entry is never reassigned.
var taxonomy = []taxonomyEntry{
	{TagForwardRun, GroupMovement, []string{"run", "forward run", "sprint", "attack", "counter", "counter attack", "dummy run", "前插", "前插跑动", "跑位", "反击", "快速反击", "佯攻", "佯攻跑位"}},
	{TagPress, GroupMovement, []string{"high press", "pressing", "mark", "marking", "逼抢", "高位逼抢", "压迫"}},
	{TagDropBack, GroupMovement, []string{"drop", "drop deep", "defend", "low block", "cover", "回撤", "防守", "低位防守"}},
	{TagSupport, GroupMovement, []string{"hold", "support run", "link up", "支援", "接应", "回撤接应"}},
	{TagHalfSpace, GroupSpatial, []string{"half-space", "halfspace", "肋部", "肋部空间"}},
	{TagOverload, GroupSpatial, []string{"overload", "局部过载", "过载"}},
	{TagPocket, GroupSpatial, []string{"pocket", "receiving pocket", "接球口袋", "口袋"}},
	{TagWingChannel, GroupSpatial, []string{"channel", "wing", "wide channel", "边路", "边路通道"}},
	{TagZone14, GroupSpatial, []string{"zone 14", "14区"}},
	{TagBox, GroupSpatial, []string{"penalty box", "禁区"}},
}

var (
	aliasTable = buildAliasTable()
	groupTable = buildGroupTable()
)

func buildAliasTable() map[string]TagID {
	table := make(map[string]TagID)
	for _, e := range taxonomy {
		claim := func(alias string) {
			key := normalize(alias)
			if _, taken := table[key]; !taken {
				table[key] = e.id
			}
		}
		claim(string(e.id))
		for _, a := range e.aliases {
			claim(a)
		}
	}
	return table
}

func buildGroupTable() map[TagID]Group {
	table := make(map[TagID]Group, len(taxonomy))
	for _, e := range taxonomy {
		table[e.id] = e.group
	}
	return table
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Lookup resolves a free-form tag label to its TagID
func Lookup(tag string) (TagID, bool) {
	id, ok := aliasTable[normalize(tag)]
	return id, ok
}

// GroupOf returns the group of id, or GroupNone for unknown ids
func GroupOf(id TagID) Group {
	return groupTable[id]
}

// IDs lists the taxonomy in declaration order
func IDs() []TagID {
	out := make([]TagID, len(taxonomy))
	for i, e := range taxonomy {
		out[i] = e.id
	}
	return out
}
