package valueobjects_test

import (
	"testing"

	"github.com/Haleralex/quefilme/internal/domain/valueobjects"
)

func TestNewIMDbID(t *testing.T) {
	id, err := valueobjects.NewIMDbID("  tt0317248 ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id.String() != "tt0317248" {
		t.Errorf("String() = %q, want tt0317248", id.String())
	}

	for _, raw := range []string{"", "   ", "\t\n"} {
		if _, err := valueobjects.NewIMDbID(raw); err != valueobjects.ErrInvalidIMDbID {
			t.Errorf("NewIMDbID(%q) error = %v, want ErrInvalidIMDbID", raw, err)
		}
	}
}

func TestExtractIMDbID(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "plain", reply: "Tenet - tt1234567", want: "tt1234567"},
		{name: "portuguese title", reply: "Cidade de Deus - tt0317248", want: "tt0317248"},
		{name: "special characters", reply: "Tenet!!! - tt7654321###", want: "tt7654321"},
		{name: "trailing newline", reply: "Interestelar - tt0816692\n", want: "tt0816692"},
		{name: "title with separator", reply: "Mission Impossible - Fallout - tt4912910", want: "tt4912910"},
		{name: "trailing year", reply: "Tenet - tt6723592 (2020)", want: "tt6723592"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := valueobjects.ExtractIMDbID(tt.reply)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if id.String() != tt.want {
				t.Errorf("ExtractIMDbID(%q) = %q, want %q", tt.reply, id.String(), tt.want)
			}
		})
	}
}

func TestExtractIMDbID_Invalid(t *testing.T) {
	for _, reply := range []string{"This is an invalid format", "", "Tenet -", "Tenet - ###"} {
		t.Run(reply, func(t *testing.T) {
			if _, err := valueobjects.ExtractIMDbID(reply); err == nil {
				t.Errorf("Expected error for %q", reply)
			}
		})
	}
}
