package validators

import (
	"bytes"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/farmdirectmeat/farmshare-backend/pkg/errors"
)

type sampleBody struct {
	Email   string `json:"email" validate:"required,email"`
	Portion string `json:"portion" validate:"required,oneof=1/8 1/4 1/2 3/4 whole"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"email":"a@b.com","portion":"1/4"}`))
	var dest sampleBody
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Portion != "1/4" {
		t.Fatalf("unexpected portion %q", dest.Portion)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"email":"a@b.com","portion":"1/4","extra":true}`))
	var dest sampleBody
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"email":"nope","portion":"half"}`))
	var dest sampleBody
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["portion"] == "" {
		t.Fatal("expected portion message")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 0); got != "hello" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}
