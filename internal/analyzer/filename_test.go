package analyzer

import (
	"errors"
	"testing"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		path    string
		want    Name
		wantErr bool
	}{
		{
			path: "data/QGuides/2024Fall/123456_2024Fall_David_J._Malan.html",
			want: Name{FasID: "123456", Semester: "2024Fall", Professor: "David_J._Malan"},
		},
		{
			path: "123456_2023Spring_Smith.html.br",
			want: Name{FasID: "123456", Semester: "2023Spring", Professor: "Smith"},
		},
		{
			path: "123456_2023Spring_.html",
			want: Name{FasID: "123456", Semester: "2023Spring", Professor: ""},
		},
		{
			path:    "123456_2024Fall.html",
			wantErr: true,
		},
		{
			path:    "report.html",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ParseFilename(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedFilename) {
					t.Errorf("ParseFilename(%q) error = %v, want ErrMalformedFilename", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFilename(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("ParseFilename(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsReport(t *testing.T) {
	tests := map[string]bool{
		"a_b_c.html":    true,
		"a_b_c.html.br": true,
		"a_b_c.htm":     false,
		"notes.txt":     false,
		"a_b_c.br":      false,
	}
	for path, want := range tests {
		if got := IsReport(path); got != want {
			t.Errorf("IsReport(%q) = %v, want %v", path, got, want)
		}
	}
}
