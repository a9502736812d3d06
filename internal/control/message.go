package control

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vitistack/authproxy/internal/credentials"
)

var ErrInvalidMessage = errors.New("control message is not valid JSON")

const (
	msgClear     = "clear"
	msgAuthCheck = "authCheck"
)

// Message is one of Clear, AuthCheck or SetAccountType.
type Message interface {
	message()
}

// Clear voids the credential pair and the account role.
type Clear struct{}

// AuthCheck asks for the current AuthStatus.
type AuthCheck struct{}

// SetAccountType replaces the account role. An empty role resets it.
type SetAccountType struct {
	Role credentials.Role
}

func (Clear) message()          {}
func (AuthCheck) message()      {}
func (SetAccountType) message() {}

// AuthStatus is the reply to AuthCheck.
type AuthStatus struct {
	Authenticated bool             `json:"authenticated"`
	AccountType   credentials.Role `json:"accountType"`
}

// MarshalJSON writes an unset account type as null.
func (s AuthStatus) MarshalJSON() ([]byte, error) {
	var accountType *string
	if s.AccountType != "" {
		role := string(s.AccountType)
		accountType = &role
	}
	return json.Marshal(struct {
		Authenticated bool    `json:"authenticated"`
		AccountType   *string `json:"accountType"`
	}{s.Authenticated, accountType})
}

// Decode parses a raw control payload: "clear", "authCheck" or {"accountType": <role>}.
// Valid JSON of any other shape decodes to a nil Message, which callers ignore.
func Decode(raw []byte) (Message, error) {
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, ErrInvalidMessage
	}

	switch raw[0] {
	case '"':
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, errors.Join(ErrInvalidMessage, err)
		}
		switch name {
		case msgClear:
			return Clear{}, nil
		case msgAuthCheck:
			return AuthCheck{}, nil
		}
		return nil, nil

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, errors.Join(ErrInvalidMessage, err)
		}
		value, ok := fields["accountType"]
		if !ok {
			return nil, nil
		}
		var role *string
		if err := json.Unmarshal(value, &role); err != nil {
			// a non string account type is not a message we know
			return nil, nil
		}
		if role == nil {
			return SetAccountType{}, nil
		}
		return SetAccountType{Role: credentials.Role(*role)}, nil
	}

	return nil, nil
}

func describe(msg Message) string {
	switch m := msg.(type) {
	case Clear:
		return msgClear
	case AuthCheck:
		return msgAuthCheck
	case SetAccountType:
		return fmt.Sprintf("accountType=%q", string(m.Role))
	}
	return "unknown"
}
