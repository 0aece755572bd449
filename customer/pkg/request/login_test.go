package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginMasksPassword(t *testing.T) {
	expectedMap := map[string]string{"username": "jordan", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Username: "jordan", Password: "opensesame"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "opensesame", loginReq.Password)
}

func TestRegisterMasksPasswords(t *testing.T) {
	registerReq := Register{
		Name:            "Jordan Avery",
		Phone:           "555-0101",
		Address:         "9 Elm Street",
		Username:        "jordan",
		Password:        "opensesame",
		ConfirmPassword: "opensesame",
	}

	actual, err := json.Marshal(registerReq)
	assert.NoError(t, err)

	decoded := map[string]string{}
	assert.NoError(t, json.Unmarshal(actual, &decoded))
	assert.Equal(t, "***", decoded["password"])
	assert.Equal(t, "***", decoded["confirmPassword"])
	assert.Equal(t, "jordan", decoded["username"])
	assert.EqualValues(t, "opensesame", registerReq.Password)
}
