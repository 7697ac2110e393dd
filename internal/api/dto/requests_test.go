package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestRegisterUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterUserRequest
		wantErr bool
	}{
		{"valid", RegisterUserRequest{DisplayName: "Adaeze"}, false},
		{"valid with hedera account", RegisterUserRequest{DisplayName: "Adaeze", HederaAccountID: strPtr("0.0.1234")}, false},
		{"name too short", RegisterUserRequest{DisplayName: "a"}, true},
		{"name too long", RegisterUserRequest{DisplayName: strings.Repeat("x", 51)}, true},
		{"name only whitespace", RegisterUserRequest{DisplayName: "   "}, true},
		{"malformed hedera account", RegisterUserRequest{DisplayName: "Adaeze", HederaAccountID: strPtr("1234")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateProfileRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateProfileRequest
		wantErr bool
	}{
		{"empty patch", UpdateProfileRequest{}, false},
		{"valid name", UpdateProfileRequest{DisplayName: strPtr("Kwame")}, false},
		{"name too short", UpdateProfileRequest{DisplayName: strPtr("k")}, true},
		{"bio too long", UpdateProfileRequest{Bio: strPtr(strings.Repeat("x", 1001))}, true},
		{"malformed hedera account", UpdateProfileRequest{HederaAccountID: strPtr("0.0.")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListingUpdateRequest_Validate(t *testing.T) {
	listed := true
	delisted := false

	tests := []struct {
		name    string
		req     ListingUpdateRequest
		wantErr bool
	}{
		{"list with price", ListingUpdateRequest{Listed: &listed, PriceTinybar: 100}, false},
		{"delist without price", ListingUpdateRequest{Listed: &delisted}, false},
		{"list without price", ListingUpdateRequest{Listed: &listed}, true},
		{"negative price", ListingUpdateRequest{Listed: &listed, PriceTinybar: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerificationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     VerificationRequest
		wantErr bool
	}{
		{"valid", VerificationRequest{PortfolioURL: "https://example.com", Statement: strings.Repeat("x", 40)}, false},
		{"statement too short", VerificationRequest{PortfolioURL: "https://example.com", Statement: "too short"}, true},
		{"statement too long", VerificationRequest{PortfolioURL: "https://example.com", Statement: strings.Repeat("x", 2001)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPriceUpdateRequest_Validate(t *testing.T) {
	assert.NoError(t, (&PriceUpdateRequest{PriceTinybar: 100}).Validate())
	assert.Error(t, (&PriceUpdateRequest{PriceTinybar: 0}).Validate())
	assert.Error(t, (&PriceUpdateRequest{PriceTinybar: -5}).Validate())
}
