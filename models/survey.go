package models

import "time"

type Survey struct {
	Base
	GroupID     string     `gorm:"column:group_id;size:36;not null;index" json:"-"`
	Group       Group      `gorm:"foreignKey:GroupID;references:UUID" json:"group"`
	UserID      string     `gorm:"column:user_id;type:text;not null;index" json:"user_id"`
	UserType    string     `gorm:"column:user_type;size:32;not null" json:"user_type"`
	Completed   *time.Time `gorm:"column:completed" json:"completed,omitempty"`
	CompletedTZ *int       `gorm:"column:completed_tz" json:"completed_tz,omitempty"`
	Declined    *time.Time `gorm:"column:declined" json:"declined,omitempty"`
	DeclinedTZ  *int       `gorm:"column:declined_tz" json:"declined_tz,omitempty"`
}

func (Survey) TableName() string {
	return "survey"
}

// OwnedBy reports whether the survey was issued to the given user.
func (s *Survey) OwnedBy(userType, userID string) bool {
	return userID != "" && s.UserID == userID && s.UserType == userType
}
