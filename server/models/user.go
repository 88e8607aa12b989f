package models

import (
	"fmt"

	"gorm.io/gorm"
)

// updatableFields is the set of user fields a client may change through
// the update endpoint; everything else in an update payload is dropped.
var updatableFields = []string{"name", "email", "bio"}

type User struct {
	BaseModel
	Name              string             `json:"name"`
	Email             string             `json:"email" gorm:"not null"`
	Bio               string             `json:"bio,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (user *User) AddEmergencyContact(contact *EmergencyContact) error {
	contact.UserID = user.ID
	if err := db.Create(contact).Error; err != nil {
		return err
	}

	user.EmergencyContacts = append(user.EmergencyContacts, *contact)
	return nil
}

// ReplaceEmergencyContacts writes the given list back as the user's entire
// contact set. Contacts that already have ids keep them (and their
// timestamps); the previous set is discarded. Two concurrent replacements
// race at whole-list granularity, last write wins.
func (user *User) ReplaceEmergencyContacts(contacts []EmergencyContact) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", user.ID).Delete(&EmergencyContact{}).Error
		if err != nil {
			return err
		}

		for i := range contacts {
			contacts[i].UserID = user.ID
			if err := tx.Create(&contacts[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	user.EmergencyContacts = contacts
	return nil
}

// FindUserBy looks a user up by a single column ("id" or "email"), with
// the emergency contact list preloaded in insertion order. The list is
// never nil, so it marshals as an empty array rather than null.
func FindUserBy(field string, value interface{}) (*User, error) {
	user := User{}
	err := db.
		Preload("EmergencyContacts", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("emergency_contacts.id ASC")
		}).
		First(&user, fmt.Sprintf("%v = ?", field), value).Error
	if err != nil {
		return nil, err
	}

	if user.EmergencyContacts == nil {
		user.EmergencyContacts = []EmergencyContact{}
	}

	return &user, nil
}

func CreateUser(user *User) error {
	if user.EmergencyContacts == nil {
		user.EmergencyContacts = []EmergencyContact{}
	}

	return db.Create(user).Error
}

// UpdateUser applies the given fields to the user's record and returns the
// updated record. A not-found error is returned if the id doesn't exist.
// An empty field map is a no-op read.
func UpdateUser(id interface{}, data map[string]interface{}) (*User, error) {
	if _, err := FindUserBy("id", id); err != nil {
		return nil, err
	}

	if len(data) > 0 {
		err := db.Model(&User{}).Where("id = ?", id).Select(updatableFields).Updates(data).Error
		if err != nil {
			return nil, err
		}
	}

	return FindUserBy("id", id)
}
