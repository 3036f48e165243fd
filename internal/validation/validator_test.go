// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name      string `validate:"required,min=2"`
	Email     string `validate:"omitempty,email"`
	Phone     string `validate:"omitempty,phone"`
	Verified  string `validate:"omitempty,caldate"`
	Continent string `validate:"omitempty,oneof=africa asia europe north-america oceania south-america"`
}

func TestValidateStructPasses(t *testing.T) {
	req := sampleRequest{
		Name:      "Bitcoin Beach",
		Email:     "hello@example.com",
		Phone:     "+4915112345678",
		Verified:  "2024-06-01",
		Continent: "south-america",
	}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
	}{
		{"missing name", sampleRequest{}, "Name"},
		{"short name", sampleRequest{Name: "x"}, "Name"},
		{"bad email", sampleRequest{Name: "ok", Email: "not-an-email"}, "Email"},
		{"bad phone", sampleRequest{Name: "ok", Phone: "abc"}, "Phone"},
		{"phone too short", sampleRequest{Name: "ok", Phone: "+12345"}, "Phone"},
		{"bad date", sampleRequest{Name: "ok", Verified: "01/06/2024"}, "Verified"},
		{"impossible date", sampleRequest{Name: "ok", Verified: "2024-13-40"}, "Verified"},
		{"bad continent", sampleRequest{Name: "ok", Continent: "atlantis"}, "Continent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			found := false
			for _, fe := range err.Errors() {
				if fe.Field() == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected failure on field %s, got %v", tt.wantField, err)
			}
		})
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	err := ValidateStruct(&sampleRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Name is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Name" {
		t.Errorf("Details[field] = %v", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Name: "ok", Email: "bad", Phone: "bad"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("len(fields) = %d, want 2", len(fields))
	}
}
