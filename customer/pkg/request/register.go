package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Register struct {
	Name            string `validate:"required"                 json:"name"`
	Phone           string `validate:"required"                 json:"phone"`
	Address         string `validate:"required"                 json:"address"`
	City            string `                                    json:"city"`
	State           string `                                    json:"state"`
	ZipCode         string `                                    json:"zipCode"`
	Username        string `validate:"required"                 json:"username"`
	Password        string `validate:"required,min=8"           json:"password"`
	ConfirmPassword string `validate:"required,eqfield=Password" json:"confirmPassword"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("username", r.Username).Str("name", r.Name)
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	r.ConfirmPassword = "***"
	type R Register
	return json.Marshal(R(r))
}

type UpdateContact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}
