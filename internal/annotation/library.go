package annotation

// Category groups tags in the tag selection surface
type Category string

const (
	CategoryStrategic Category = "strategic"
	CategorySpatial   Category = "spatial"
	CategoryAction    Category = "action"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryStrategic, CategorySpatial, CategoryAction:
		return true
	}
	return false
}

// Section is one category of the library with its tags in display order
type Section struct {
	Category Category `json:"category"`
	Tags     []string `json:"tags"`
}

// Library returns the default tag library offered to the host
func Library() []Section {
	return []Section{
		{CategoryStrategic, []string{"高位逼抢", "低位防守", "快速反击", "组织进攻"}},
		{CategorySpatial, []string{"肋部空间", "局部过载", "接球口袋", "边路通道"}},
		{CategoryAction, []string{"关键传球", "拦截", "佯攻跑位", "1v1对抗", "前插跑动", "回撤接应", "压迫", "支援"}},
	}
}
