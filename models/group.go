package models

// Group is a named bucket of questions. A survey inherits every question in its group.
type Group struct {
	Base
	Name string `gorm:"column:group_name;size:255;not null;index" json:"group"`
}

func (Group) TableName() string {
	return "group"
}
