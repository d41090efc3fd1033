package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-admin/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Feature: catalog-admin, Property 12: Product bodies need title, category, unit and prices
func TestProperty_ProductRequiredFields(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required product fields are rejected", prop.ForAll(
		func(withTitle, withCategory, withUnit, withPrice bool) bool {
			data := map[string]interface{}{
				"origin_price": 20,
				"is_enabled":   1,
				"imagesUrl":    []string{},
			}
			if withTitle {
				data["title"] = "Widget"
			}
			if withCategory {
				data["category"] = "tools"
			}
			if withUnit {
				data["unit"] = "pcs"
			}
			if withPrice {
				data["price"] = 10
			}

			body, _ := json.Marshal(map[string]interface{}{"data": data})
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(body))

			var envelope domain.ProductEnvelope
			err := DecodeAndValidate(req, &envelope)

			if withTitle && withCategory && withUnit && withPrice {
				return err == nil
			}
			return err != nil && len(FormatValidationErrors(err)) > 0
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestValidationRejectsTooManyImages(t *testing.T) {
	body := `{"data":{"title":"a","category":"b","unit":"c","origin_price":1,"price":1,"is_enabled":0,
		"imagesUrl":["1","2","3","4","5","6"]}}`
	req := httptest.NewRequest("POST", "/test", strings.NewReader(body))

	var envelope domain.ProductEnvelope
	err := DecodeAndValidate(req, &envelope)
	errs := FormatValidationErrors(err)
	if len(errs) != 1 || !strings.HasSuffix(errs[0].Field, "ImagesURL") {
		t.Fatalf("expected one ImagesURL error, got %v (%v)", errs, err)
	}
}

func TestSignInCredentialsValidation(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"username":"not-an-email","password":"x"}`))

	var creds domain.Credentials
	err := DecodeAndValidate(req, &creds)
	errs := FormatValidationErrors(err)
	if len(errs) != 1 || errs[0].Message != "Invalid email format" {
		t.Fatalf("expected an email error, got %v", errs)
	}
}

func TestFormatValidationErrorsIgnoresDecodeErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(`{`))

	var creds domain.Credentials
	err := DecodeAndValidate(req, &creds)
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if errs := FormatValidationErrors(err); errs != nil {
		t.Errorf("expected no validation errors, got %v", errs)
	}
}
