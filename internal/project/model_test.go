package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateServices(t *testing.T) {
	cases := []struct {
		name     string
		services []QuoteService
		wantErr  string
	}{
		{"empty list", nil, ""},
		{"valid", []QuoteService{{Name: "3D Modeling", Rate: 300}, {Name: "Rendering", Rate: 200}}, ""},
		{"missing name", []QuoteService{{Name: "", Rate: 300}}, "service 1: name is required"},
		{"zero rate", []QuoteService{{Name: "Rendering", Rate: 0}}, "service 1: rate must be positive"},
		{"negative rate", []QuoteService{{Name: "Rendering", Rate: -50}}, "service 1: rate must be positive"},
		{"second item bad", []QuoteService{{Name: "Modeling", Rate: 100}, {Name: "", Rate: 50}}, "service 2: name is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateServices(tc.services)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, err.Error())
			}
		})
	}
}

func TestServicesTotal(t *testing.T) {
	assert.Equal(t, float64(0), ServicesTotal(nil))
	assert.Equal(t, 550.5, ServicesTotal([]QuoteService{
		{Name: "Modeling", Rate: 300},
		{Name: "Rendering", Rate: 250.5},
	}))
}

func TestNextAgreementStatus(t *testing.T) {
	cases := []struct {
		name           string
		role           string
		clientAccepted bool
		artistAccepted bool
		want           string
	}{
		{"client first", "client", false, false, AgreementClientAccepted},
		{"artist first", "artist", false, false, AgreementArtistAccepted},
		{"client completes", "client", false, true, AgreementSigned},
		{"artist completes", "artist", true, false, AgreementSigned},
		{"client re-accepts", "client", true, false, AgreementClientAccepted},
		{"artist re-accepts", "artist", false, true, AgreementArtistAccepted},
		{"client re-accepts signed", "client", true, true, AgreementSigned},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextAgreementStatus(tc.role, tc.clientAccepted, tc.artistAccepted)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextAgreementStatusUnknownRole(t *testing.T) {
	_, err := NextAgreementStatus("admin", false, false)
	assert.Error(t, err)
}

func TestBuildAgreementTerms(t *testing.T) {
	terms := BuildAgreementTerms("Villa Exterior", 500, 14)
	assert.Contains(t, terms, "Project: Villa Exterior")
	assert.Contains(t, terms, "Selected Quote: $500.00")
	assert.Contains(t, terms, "Timeline: 14 days")
	assert.Contains(t, terms, "mediate payments")
}
