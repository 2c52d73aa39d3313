package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Signup struct {
	Name     string `validate:"required,max=150"       json:"name"`
	Email    string `validate:"required,email,max=255" json:"email"`
	Password string `validate:"required,min=6"         json:"password"`
}

func (s Signup) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", s.Email).Str("name", s.Name)
}

func (s Signup) MarshalJSON() ([]byte, error) {
	s.Password = "***"
	type S Signup
	return json.Marshal(S(s))
}
