package models

// Menu is a navigation tree node seeded from fixtures.
type Menu struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Path        *string `json:"path,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Description *string `json:"description,omitempty"`

	ParentID *uint `json:"parent_id,omitempty"`
	Parent   *Menu `gorm:"foreignKey:ParentID" json:"-"`
}

// TableName overrides the table name
func (Menu) TableName() string {
	return "menus"
}
