package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTeamCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abcde", "ABCDE"},
		{" AbCdE ", "ABCDE"},
		{"ABCDE", "ABCDE"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := TeamCode(tt.input)
			if got != tt.want {
				t.Errorf("TeamCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDepartment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"cs", "CS"},
		{" ecs ", "ECS"},
		{"IT", "IT"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Department(tt.input)
			if got != tt.want {
				t.Errorf("Department(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	if got := Text("  spaced out  "); got != "spaced out" {
		t.Errorf("Text = %q, want %q", got, "spaced out")
	}
	if got := Text("   "); got != "" {
		t.Errorf("Text on whitespace = %q, want empty", got)
	}
}
