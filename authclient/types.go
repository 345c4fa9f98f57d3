package authclient

import (
	"encoding/json"

	"github.com/jrsteele09/go-classroom/session"
)

// SignInRequest is the body of POST /auth/signin
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest is the body of POST /auth/signup
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response is the envelope every auth endpoint answers with
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    ResponseData `json:"data"`
	Error   string       `json:"error,omitempty"`
}

// ResponseData carries the session on sign-in (and on sign-up when the
// service signs the new user straight in). Raw keeps the whole data object.
type ResponseData struct {
	Session *session.Record `json:"session,omitempty"`
	UserID  string          `json:"user_id,omitempty"`
	Email   string          `json:"email,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

func (d *ResponseData) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	type plain ResponseData
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = ResponseData(p)
	d.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// errorBody is the subset of a failed response used to build a RequestError
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
