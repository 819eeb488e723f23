package interpolate

import "testing"

func TestExpand(t *testing.T) {
	reserved := Variables{"prefix": "/usr/local", "Build_Dir": "/chariot/build"}
	user := Variables{"jobs": "4"}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "no tokens returned identical",
			input: "plain text with no embeds",
			want:  "plain text with no embeds",
		},
		{
			name:  "required reserved token",
			input: "cd @(prefix)/bin",
			want:  "cd /usr/local/bin",
		},
		{
			name:  "case insensitive lookup",
			input: "@(BUILD_DIR)",
			want:  "/chariot/build",
		},
		{
			name:  "falls through to user table",
			input: "-j@(jobs)",
			want:  "-j4",
		},
		{
			name:  "optional present keeps value without marker",
			input: "@(jobs?)",
			want:  "4",
		},
		{
			name:  "optional absent deletes token",
			input: "make@(missing?)install",
			want:  "makeinstall",
		},
		{
			name:    "required absent fails",
			input:   "@(missing)",
			wantErr: true,
		},
		{
			name:    "unterminated token fails",
			input:   "@(prefix",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.input, reserved, user)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expand(%q) = nil error, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expand(%q) returned unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandDeterministic(t *testing.T) {
	vars := Variables{"a": "1"}
	first, err := Expand("@(a)-@(a)", vars, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Expand("@(a)-@(a)", vars, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("Expand is not deterministic: got %q then %q", first, second)
	}
}

func TestValidateUserVariables(t *testing.T) {
	if err := ValidateUserVariables(Variables{"PREFIX": "/x"}); err == nil {
		t.Errorf("ValidateUserVariables did not reject reserved name PREFIX")
	}
	if err := ValidateUserVariables(Variables{"debug": "1"}); err != nil {
		t.Errorf("ValidateUserVariables rejected non-reserved name: %v", err)
	}
}
