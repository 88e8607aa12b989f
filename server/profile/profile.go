package profile

import (
	"time"

	"github.com/haven-app/haven/server/models"
)

// Aggregator composes a user record with derived context for the
// profile endpoint.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

type Profile struct {
	User    *models.User   `json:"user"`
	Context ProfileContext `json:"context"`
}

type ProfileContext struct {
	ContactCount        int    `json:"contactCount"`
	HasEmergencyContact bool   `json:"hasEmergencyContact"`
	MemberSince         string `json:"memberSince"`
	AccountAgeDays      int    `json:"accountAgeDays"`
}

func (a *Aggregator) GetProfile(id interface{}) (*Profile, error) {
	user, err := models.FindUserBy("id", id)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User: user,
		Context: ProfileContext{
			ContactCount:        len(user.EmergencyContacts),
			HasEmergencyContact: len(user.EmergencyContacts) > 0,
			MemberSince:         user.CreatedAt.Format(time.RFC3339),
			AccountAgeDays:      int(time.Since(user.CreatedAt).Hours() / 24),
		},
	}, nil
}
