package models

// EmergencyContact only ever exists as a member of one user's contact
// list; rows are removed along with their owner.
type EmergencyContact struct {
	BaseModel
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	UserID uint   `json:"user_id" gorm:"not null"`
}
