package formation

// Slot is one outfield position of a preset, written for the team attacking rightward
type Slot struct {
	Role string
	X, Y float64
}

// Preset is a named list of 10 outfield slots; the goalkeeper is never part of it
type Preset struct {
	Name  string
	Slots []Slot
}

// presets in display order
var presets = []Preset{
	{"4-4-2 (Flat)", []Slot{
		{"LB", 15, 15}, {"LCB", 12, 38}, {"RCB", 12, 62}, {"RB", 15, 85},
		{"LM", 32, 15}, {"LCM", 32, 38}, {"RCM", 32, 62}, {"RM", 32, 85},
		{"LS", 45, 38}, {"RS", 45, 62},
	}},
	{"4-4-2 (Diamond)", []Slot{
		{"LB", 15, 15}, {"LCB", 12, 38}, {"RCB", 12, 62}, {"RB", 15, 85},
		{"CDM", 25, 50}, {"LM", 35, 20}, {"RM", 35, 80}, {"CAM", 42, 50},
		{"LS", 48, 40}, {"RS", 48, 60},
	}},
	{"4-2-3-1", []Slot{
		{"LB", 15, 15}, {"LCB", 12, 38}, {"RCB", 12, 62}, {"RB", 15, 85},
		{"LDM", 25, 35}, {"RDM", 25, 65},
		{"LAM", 40, 15}, {"CAM", 40, 50}, {"RAM", 40, 85},
		{"ST", 48, 50},
	}},
	{"4-1-2-3", []Slot{
		{"LB", 15, 15}, {"LCB", 12, 38}, {"RCB", 12, 62}, {"RB", 15, 85},
		{"CDM", 22, 50}, {"LCM", 32, 35}, {"RCM", 32, 65},
		{"LW", 45, 15}, {"ST", 48, 50}, {"RW", 45, 85},
	}},
	{"3-4-3", []Slot{
		{"LCB", 15, 25}, {"CB", 12, 50}, {"RCB", 15, 75},
		{"LM", 30, 10}, {"LCM", 30, 40}, {"RCM", 30, 60}, {"RM", 30, 90},
		{"LW", 45, 20}, {"ST", 48, 50}, {"RW", 45, 80},
	}},
	{"3-5-2", []Slot{
		{"LCB", 15, 25}, {"CB", 12, 50}, {"RCB", 15, 75},
		{"LWB", 30, 10}, {"CDM", 25, 50}, {"LCM", 35, 35}, {"RCM", 35, 65}, {"RWB", 30, 90},
		{"LS", 48, 40}, {"RS", 48, 60},
	}},
	{"5-2-3", []Slot{
		{"LWB", 20, 10}, {"LCB", 15, 30}, {"CB", 12, 50}, {"RCB", 15, 70}, {"RWB", 20, 90},
		{"LCM", 35, 40}, {"RCM", 35, 60},
		{"LW", 48, 20}, {"ST", 48, 50}, {"RW", 48, 80},
	}},
	{"5-3-2", []Slot{
		{"LWB", 20, 10}, {"LCB", 15, 30}, {"CB", 12, 50}, {"RCB", 15, 70}, {"RWB", 20, 90},
		{"LCM", 32, 30}, {"CM", 32, 50}, {"RCM", 32, 70},
		{"LS", 45, 40}, {"RS", 45, 60},
	}},
}
