package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
)

type hookBody struct {
	ID    string   `json:"id" validate:"required"`
	Users []string `json:"users" validate:"dive,required,email"`
}

func decode(t *testing.T, body string) (hookBody, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest hookBody
	return dest, DecodeJSONBody(req, &dest)
}

func TestDecodeJSONBodySuccess(t *testing.T) {
	dest, err := decode(t, `{"id":"q1","users":["a@acme.com"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.ID != "q1" || len(dest.Users) != 1 {
		t.Fatalf("unexpected decode %+v", dest)
	}
}

func TestDecodeJSONBodyValidation(t *testing.T) {
	cases := map[string]string{
		"unknown field":  `{"id":"q1","extra":true}`,
		"malformed":      `{"id":`,
		"trailing data":  `{"id":"q1"}{"id":"q2"}`,
		"missing id":     `{"users":[]}`,
		"invalid email":  `{"id":"q1","users":["nope"]}`,
		"empty document": ``,
	}
	for name, body := range cases {
		_, err := decode(t, body)
		if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestValidationDetailsUseJSONNames(t *testing.T) {
	_, err := decode(t, `{"users":[]}`)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error")
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["id"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}
