package jbind_test

import (
	"testing"

	"github.com/zoobzio/jbind"
)

func TestNamingStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy jbind.NamingStrategy
		in       string
		want     string
	}{
		{"identity", jbind.IdentityNaming, "UserName", "UserName"},
		{"upper camel", jbind.UpperCamelNaming, "UserName", "UserName"},
		{"upper camel spaced", jbind.UpperCamelSpacedNaming, "FirstName", "First Name"},
		{"lower camel", jbind.LowerCamelNaming, "UserID", "userID"},
		{"lower underscore", jbind.LowerCaseWithSeparator("_"), "CreatedAt", "created_at"},
		{"lower dash", jbind.LowerCaseWithSeparator("-"), "CreatedAt", "created-at"},
		{"lower dot", jbind.LowerCaseWithSeparator("."), "CreatedAt", "created.at"},
		{"upper underscore", jbind.UpperCaseWithSeparator("_"), "CreatedAt", "CREATED_AT"},
		{"camel to underscore", jbind.CamelToUnderscore, "UserName", "User_Name"},
		{"acronym run stays joined", jbind.LowerCaseWithSeparator("_"), "HTTPStatus", "httpstatus"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.strategy(tc.in); got != tc.want {
				t.Errorf("%s(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
			}
		})
	}
}

func TestUnderscoreToCamel(t *testing.T) {
	if got := jbind.UnderscoreToCamel("user_name"); got != "UserName" {
		t.Errorf("UnderscoreToCamel = %q", got)
	}
	if got := jbind.UnderscoreToCamel("__x"); got != "X" {
		t.Errorf("UnderscoreToCamel = %q", got)
	}
}
