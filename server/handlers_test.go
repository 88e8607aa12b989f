package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haven-app/haven/server/models"
	"github.com/haven-app/haven/server/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	models.InitializeTestDb()
	profileAggregator = profile.NewAggregator()

	testServer := httptest.NewServer(newRouter())
	t.Cleanup(testServer.Close)

	return testServer
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.Nil(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req, err := http.NewRequest(method, url, &reqBody)
	require.Nil(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	defer resp.Body.Close()

	decoded := map[string]interface{}{}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp, decoded
}

func createTestUser(t *testing.T, baseURL, name, email string) string {
	t.Helper()

	resp, body := doJSON(t, "POST", baseURL+"/api/users", map[string]string{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return fmt.Sprintf("%v", int(body["userId"].(float64)))
}

func addTestContact(t *testing.T, baseURL, userID, name, phone string) string {
	t.Helper()

	resp, body := doJSON(t, "POST", baseURL+"/api/users/"+userID+"/contacts",
		map[string]string{"name": name, "phone": phone})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	contacts := body["contacts"].([]interface{})
	last := contacts[len(contacts)-1].(map[string]interface{})

	return fmt.Sprintf("%v", int(last["id"].(float64)))
}

func TestCreateUser(t *testing.T) {
	testServer := setupTestServer(t)

	resp, body := doJSON(t, "POST", testServer.URL+"/api/users", map[string]string{"name": "A", "email": "a@x.com"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "A", body["name"])
	assert.Equal(t, "a@x.com", body["email"])
	firstID := body["userId"].(float64)

	// same email again returns the existing record instead of creating
	resp, body = doJSON(t, "POST", testServer.URL+"/api/users", map[string]string{"name": "A", "email": "a@x.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, firstID, body["id"].(float64))
}

func TestCreateUserMissingFields(t *testing.T) {
	testServer := setupTestServer(t)

	resp, body := doJSON(t, "POST", testServer.URL+"/api/users", map[string]string{"name": "A"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Name and email are required", body["error"])

	resp, _ = doJSON(t, "POST", testServer.URL+"/api/users", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFindUser(t *testing.T) {
	testServer := setupTestServer(t)
	userID := createTestUser(t, testServer.URL, "B", "b@x.com")

	resp, body := doJSON(t, "GET", testServer.URL+"/api/users/"+userID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "B", body["name"])
	assert.NotNil(t, body["emergencyContacts"], "contact list should marshal as an array")

	resp, body = doJSON(t, "GET", testServer.URL+"/api/users/email/b@x.com", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "B", body["name"])

	resp, body = doJSON(t, "GET", testServer.URL+"/api/users/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["error"])

	resp, _ = doJSON(t, "GET", testServer.URL+"/api/users/email/nobody@x.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateUser(t *testing.T) {
	testServer := setupTestServer(t)
	userID := createTestUser(t, testServer.URL, "C", "c@x.com")

	resp, body := doJSON(t, "PUT", testServer.URL+"/api/users/"+userID,
		map[string]string{"name": "C2", "bio": "hello", "role": "ignored"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "C2", body["name"])
	assert.Equal(t, "hello", body["bio"])
	assert.Equal(t, "c@x.com", body["email"])
	assert.Nil(t, body["role"])

	resp, _ = doJSON(t, "PUT", testServer.URL+"/api/users/9999", map[string]string{"name": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddContact(t *testing.T) {
	testServer := setupTestServer(t)
	userID := createTestUser(t, testServer.URL, "D", "d@x.com")

	resp, body := doJSON(t, "POST", testServer.URL+"/api/users/"+userID+"/contacts",
		map[string]string{"name": "B", "phone": "123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Contact added", body["message"])
	assert.Len(t, body["contacts"].([]interface{}), 1)

	resp, body = doJSON(t, "POST", testServer.URL+"/api/users/"+userID+"/contacts",
		map[string]string{"name": "B"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Name and phone are required", body["error"])

	resp, _ = doJSON(t, "POST", testServer.URL+"/api/users/9999/contacts",
		map[string]string{"name": "B", "phone": "123"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateContact(t *testing.T) {
	testServer := setupTestServer(t)
	userID := createTestUser(t, testServer.URL, "E", "e@x.com")
	contactID := addTestContact(t, testServer.URL, userID, "B", "123")

	resp, body := doJSON(t, "PATCH", testServer.URL+"/api/users/"+userID+"/contacts/"+contactID,
		map[string]string{"phone": "456"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "B", body["name"], "fields not in the update should be preserved")
	assert.Equal(t, "456", body["phone"])

	// the merged contact is what got persisted
	resp, body = doJSON(t, "GET", testServer.URL+"/api/users/"+userID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	contacts := body["emergencyContacts"].([]interface{})
	require.Len(t, contacts, 1)
	assert.Equal(t, "456", contacts[0].(map[string]interface{})["phone"])

	resp, body = doJSON(t, "PATCH", testServer.URL+"/api/users/"+userID+"/contacts/9999",
		map[string]string{"phone": "456"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Contact not found", body["error"])

	resp, body = doJSON(t, "PATCH", testServer.URL+"/api/users/9999/contacts/"+contactID,
		map[string]string{"phone": "456"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["error"])
}

func TestDeleteContact(t *testing.T) {
	testServer := setupTestServer(t)
	userID := createTestUser(t, testServer.URL, "F", "f@x.com")
	addTestContact(t, testServer.URL, userID, "one", "111")
	second := addTestContact(t, testServer.URL, userID, "two", "222")
	addTestContact(t, testServer.URL, userID, "three", "333")

	resp, body := doJSON(t, "DELETE", testServer.URL+"/api/users/"+userID+"/contacts/"+second, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Contact deleted", body["message"])

	contacts := body["contacts"].([]interface{})
	require.Len(t, contacts, 2)
	assert.Equal(t, "one", contacts[0].(map[string]interface{})["name"], "relative order preserved")
	assert.Equal(t, "three", contacts[1].(map[string]interface{})["name"])

	// unknown contact id leaves the list unchanged
	resp, body = doJSON(t, "DELETE", testServer.URL+"/api/users/"+userID+"/contacts/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Contact not found", body["error"])

	resp, body = doJSON(t, "GET", testServer.URL+"/api/users/"+userID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["emergencyContacts"].([]interface{}), 2)
}

func TestFindProfile(t *testing.T) {
	testServer := setupTestServer(t)
	userID := createTestUser(t, testServer.URL, "G", "g@x.com")
	addTestContact(t, testServer.URL, userID, "B", "123")

	resp, body := doJSON(t, "GET", testServer.URL+"/api/users/"+userID+"/profile", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	profileContext := body["context"].(map[string]interface{})
	assert.Equal(t, float64(1), profileContext["contactCount"])
	assert.Equal(t, true, profileContext["hasEmergencyContact"])

	// no not-found translation on this route
	resp, _ = doJSON(t, "GET", testServer.URL+"/api/users/9999/profile", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
