package command

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     Command
		wantErr  bool
		wantPath string
	}{
		{
			name:     "virtual input",
			raw:      "virtual_input:abc-123:on",
			want:     VirtualInput{UUID: "abc-123", Value: "on"},
			wantPath: "dev/sps/io/abc-123/on",
		},
		{
			name:     "scene path",
			raw:      "dev/sps/io/x/on",
			want:     Scene{Raw: "dev/sps/io/x/on"},
			wantPath: "dev/sps/io/x/on",
		},
		{
			name:     "scene path with leading slash",
			raw:      "/dev/sps/io/x/off",
			want:     Scene{Raw: "/dev/sps/io/x/off"},
			wantPath: "dev/sps/io/x/off",
		},
		{
			name:     "arbitrary scene string accepted verbatim",
			raw:      "jdev/cfg/api",
			want:     Scene{Raw: "jdev/cfg/api"},
			wantPath: "jdev/cfg/api",
		},
		{
			name:    "virtual input missing value segment",
			raw:     "virtual_input:bad",
			wantErr: true,
		},
		{
			name:    "virtual input with extra delimiter",
			raw:     "virtual_input:uuid:va:lue",
			wantErr: true,
		},
		{
			name:    "virtual input empty uuid",
			raw:     "virtual_input::on",
			wantErr: true,
		},
		{
			name:    "virtual input empty value",
			raw:     "virtual_input:uuid:",
			wantErr: true,
		},
		{
			name:    "empty command",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			raw:     "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.raw, got)
				}
				var malformed *MalformedError
				if !errors.As(err, &malformed) {
					t.Errorf("Parse(%q) error = %T, want *MalformedError", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
			if got.Path() != tt.wantPath {
				t.Errorf("Path() = %q, want %q", got.Path(), tt.wantPath)
			}
		})
	}
}
