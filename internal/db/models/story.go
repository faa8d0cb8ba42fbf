package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Story is the root record of one generated branching narrative. Nodes hang
// off it by StoryID; edges between nodes live inside each node's options.
type Story struct {
	gorm.Model
	Title     string    `json:"title" gorm:"not null"`
	SessionID string    `json:"session_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Nodes []StoryNode `json:"-" gorm:"foreignKey:StoryID"`
}

// StoryNode is one point in a narrative. Exactly one node per story carries
// the root flag; ending nodes have no outgoing options with a node reference.
type StoryNode struct {
	gorm.Model
	StoryID         uint         `json:"story_id" gorm:"not null;index"`
	Content         string       `json:"content" gorm:"not null;type:text"`
	IsRoot          bool         `json:"is_root" gorm:"not null;default:false;index"`
	IsEnding        bool         `json:"is_ending" gorm:"not null;default:false"`
	IsWinningEnding bool         `json:"is_winning_ending" gorm:"not null;default:false"`
	Options         StoryOptions `json:"options" gorm:"type:jsonb"`
}

// StoryOption is a labeled edge to a child node. NodeID is nil only on
// options of a true ending node.
type StoryOption struct {
	Text   string `json:"text"`
	NodeID *uint  `json:"node_id,omitempty"`
}

// StoryOptions is the jsonb column holding a node's outgoing edges
type StoryOptions []StoryOption

// Value implements driver.Valuer so gorm can write the options as jsonb
func (o StoryOptions) Value() (driver.Value, error) {
	if o == nil {
		return json.Marshal(StoryOptions{})
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner so gorm can read the options back from jsonb
func (o *StoryOptions) Scan(value interface{}) error {
	if value == nil {
		*o = StoryOptions{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for story options: %T", value)
	}
	return json.Unmarshal(data, o)
}

// Validate ensures that the node data is valid
func (n *StoryNode) Validate() error {
	if n.Content == "" {
		return fmt.Errorf("node content cannot be empty")
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a new node
func (n *StoryNode) BeforeCreate(_ *gorm.DB) error {
	return n.Validate()
}
