package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&BoardInfo{},
	&BoardSession{},
	&LogicNode{},
	&SnapshotLine{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// BoardInfo describes the club or analyst owning the instance
type BoardInfo struct {
	gorm.Model
	ClubName    string `json:"clubName" gorm:"size:127"`
	Description string `json:"description" gorm:"size:255"`
	Website     string `json:"website" gorm:"size:255"`
}

func (*BoardInfo) TableName() string {
	return "board_infos"
}

////////////////////////
// TIMELINE MODELS
////////////////////////

// BoardSession groups the logic nodes committed during one analysis session
type BoardSession struct {
	gorm.Model
	Name      string      `json:"name" gorm:"size:127"`
	Tag       string      `json:"tag" gorm:"size:127"`
	StartedAt time.Time   `json:"startedAt" gorm:"type:timestamptz"`
	Nodes     []LogicNode `json:"nodes" gorm:"foreignKey:SessionID"`
}

func (*BoardSession) TableName() string {
	return "board_sessions"
}

// LogicNode is a committed board snapshot. Players and zones are kept as JSON documents;
// lines are also broken out into SnapshotLine rows so their geometry can be queried.
type LogicNode struct {
	ID            uint           `json:"id" gorm:"primarykey;autoIncrement"`
	SessionID     uint           `json:"sessionId" gorm:"index:idx_logicnode_session_id"`
	Session       BoardSession   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:SessionID;"`
	NodeID        string         `json:"nodeId" gorm:"size:64;uniqueIndex:idx_logicnode_node_id"`
	Label         string         `json:"label" gorm:"size:127"`
	Timestamp     float64        `json:"timestamp" gorm:"index:idx_logicnode_timestamp"` // video clock seconds
	CreatedAt     time.Time      `json:"createdAt"`
	Players       datatypes.JSON `json:"players"`
	Lines         datatypes.JSON `json:"lines"` // null when the capture had no line state
	Zones         datatypes.JSON `json:"zones"` // null when the capture had no zone state
	SnapshotLines []SnapshotLine `json:"-" gorm:"foreignKey:LogicNodeID;constraint:OnDelete:CASCADE;"`
}

func (*LogicNode) TableName() string {
	return "logic_nodes"
}

// SnapshotLine is one tactical line of a logic node
type SnapshotLine struct {
	ID          uint   `json:"id" gorm:"primarykey;autoIncrement"`
	LogicNodeID uint   `json:"logicNodeId" gorm:"index:idx_snapshotline_logicnode_id"`
	LineID      string `json:"lineId" gorm:"size:64"`
	Position    int    `json:"position"` // order within the node
	Color       string `json:"color" gorm:"size:32"`
	Dashed      bool   `json:"isDashed"`
	OwnerID     string `json:"ownerId" gorm:"size:64"`
	Path        Path   `json:"path"`
}

func (*SnapshotLine) TableName() string {
	return "snapshot_lines"
}

// Path is a line geometry stored as WKB. On postgres the column is a PostGIS geometry.
type Path struct {
	geom.LineString
}

// GormDBDataType picks the column type per dialect
func (Path) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "geometry(LineString)"
	default:
		return "blob"
	}
}
