package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/haven-app/haven/server/models"
	"gorm.io/gorm"
)

type createUserParams struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

type createUserPayload struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type addContactParams struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

type contactListPayload struct {
	Message  string                    `json:"message"`
	Contacts []models.EmergencyContact `json:"contacts"`
}

// createUserHandler creates a user, unless one with the given email
// already exists, in which case the existing record is returned as-is.
// The email check and the insert are two separate store calls; identical
// concurrent requests can still race.
func createUserHandler(rw http.ResponseWriter, r *http.Request) {
	params := createUserParams{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil || validate.Struct(params) != nil {
		writeResponse(rw, errorPayload{Error: "Name and email are required"}, http.StatusBadRequest)
		return
	}

	existing, err := models.FindUserBy("email", params.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		writeUpstreamError(rw, "Failed to create user", err)
		return
	}

	if existing != nil {
		writeResponse(rw, existing, http.StatusOK)
		return
	}

	user := models.User{Name: params.Name, Email: params.Email}
	if err := models.CreateUser(&user); err != nil {
		writeUpstreamError(rw, "Failed to create user", err)
		return
	}

	writeResponse(rw, createUserPayload{UserID: user.ID, Name: user.Name, Email: user.Email}, http.StatusCreated)
}

func findUserByEmailHandler(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	user, err := models.FindUserBy("email", vars["email"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, errorPayload{Error: "User not found"}, http.StatusNotFound)
		return
	}

	if err != nil {
		writeUpstreamError(rw, "Failed to fetch user", err)
		return
	}

	writeResponse(rw, user, http.StatusOK)
}

func findUserHandler(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	user, err := models.FindUserBy("id", vars["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, errorPayload{Error: "User not found"}, http.StatusNotFound)
		return
	}

	if err != nil {
		writeUpstreamError(rw, "Failed to fetch user", err)
		return
	}

	writeResponse(rw, user, http.StatusOK)
}

// updateUserHandler applies a partial update; unknown fields in the
// payload are dropped rather than rejected.
func updateUserHandler(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	data := make(map[string]interface{})

	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeUpstreamError(rw, "Failed to update user", err)
		return
	}

	removeUnknownFields(data, map[string]bool{"name": true, "email": true, "bio": true})

	user, err := models.UpdateUser(vars["id"], data)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, errorPayload{Error: "User not found"}, http.StatusNotFound)
		return
	}

	if err != nil {
		writeUpstreamError(rw, "Failed to update user", err)
		return
	}

	writeResponse(rw, user, http.StatusOK)
}

func addContactHandler(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	params := addContactParams{}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil || validate.Struct(params) != nil {
		writeResponse(rw, errorPayload{Error: "Name and phone are required"}, http.StatusBadRequest)
		return
	}

	user, err := models.FindUserBy("id", vars["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, errorPayload{Error: "User not found"}, http.StatusNotFound)
		return
	}

	if err != nil {
		writeUpstreamError(rw, "Failed to add contact", err)
		return
	}

	contact := models.EmergencyContact{Name: params.Name, Phone: params.Phone}
	if err := user.AddEmergencyContact(&contact); err != nil {
		writeUpstreamError(rw, "Failed to add contact", err)
		return
	}

	writeResponse(rw, contactListPayload{Message: "Contact added", Contacts: user.EmergencyContacts}, http.StatusOK)
}

// findProfileHandler passes the aggregate through as-is; there is no
// not-found translation on this route, any aggregator error is a 500.
func findProfileHandler(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	userProfile, err := profileAggregator.GetProfile(vars["id"])
	if err != nil {
		writeUpstreamError(rw, "Failed to fetch profile", err)
		return
	}

	writeResponse(rw, userProfile, http.StatusOK)
}

// updateContactHandler merges the provided fields over the matching
// contact & persists the user's entire contact list back through the
// whole-list replacement path.
func updateContactHandler(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	data := make(map[string]interface{})

	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeUpstreamError(rw, "Failed to update contact", err)
		return
	}

	user, err := models.FindUserBy("id", vars["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, errorPayload{Error: "User not found"}, http.StatusNotFound)
		return
	}

	if err != nil {
		writeUpstreamError(rw, "Failed to update contact", err)
		return
	}

	contactIndex := indexOfContact(user.EmergencyContacts, vars["contactId"])
	if contactIndex == -1 {
		writeResponse(rw, errorPayload{Error: "Contact not found"}, http.StatusNotFound)
		return
	}

	removeUnknownFields(data, map[string]bool{"name": true, "phone": true})

	contact := &user.EmergencyContacts[contactIndex]
	if name, ok := data["name"]; ok {
		contact.Name = fmt.Sprintf("%v", name)
	}
	if phone, ok := data["phone"]; ok {
		contact.Phone = fmt.Sprintf("%v", phone)
	}

	if err := user.ReplaceEmergencyContacts(user.EmergencyContacts); err != nil {
		writeUpstreamError(rw, "Failed to update contact", err)
		return
	}

	writeResponse(rw, contact, http.StatusOK)
}

// deleteContactHandler filters the contact out of the list & persists the
// remainder through the same whole-list replacement path.
func deleteContactHandler(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	user, err := models.FindUserBy("id", vars["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, errorPayload{Error: "User not found"}, http.StatusNotFound)
		return
	}

	if err != nil {
		writeUpstreamError(rw, "Failed to delete contact", err)
		return
	}

	contactIndex := indexOfContact(user.EmergencyContacts, vars["contactId"])
	if contactIndex == -1 {
		writeResponse(rw, errorPayload{Error: "Contact not found"}, http.StatusNotFound)
		return
	}

	filtered := append([]models.EmergencyContact{}, user.EmergencyContacts[:contactIndex]...)
	filtered = append(filtered, user.EmergencyContacts[contactIndex+1:]...)

	if err := user.ReplaceEmergencyContacts(filtered); err != nil {
		writeUpstreamError(rw, "Failed to delete contact", err)
		return
	}

	writeResponse(rw, contactListPayload{Message: "Contact deleted", Contacts: filtered}, http.StatusOK)
}

// indexOfContact scans the ordered list for the first contact matching
// the path's contactId; ids are normalized to integers at this boundary.
func indexOfContact(contacts []models.EmergencyContact, contactID string) int {
	id, err := strconv.ParseUint(contactID, 10, 64)
	if err != nil {
		return -1
	}

	for i, contact := range contacts {
		if uint64(contact.ID) == id {
			return i
		}
	}

	return -1
}
