package manifest

import (
	"strings"
	"testing"
)

func TestValidateFile_ValidManifests(t *testing.T) {
	for _, file := range []string{"valid-exec.plugin.yaml", "valid-minimal.plugin.yaml"} {
		t.Run(file, func(t *testing.T) {
			result, err := ValidateFile(testPath(file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) error: %v", file, err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got invalid with %d issues:", len(result.Issues))
				for _, issue := range result.Issues {
					t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
			}
		})
	}
}

func TestValidateFile_InvalidManifests(t *testing.T) {
	tests := []struct {
		file    string
		keyword string
	}{
		{"invalid-missing-name.plugin.yaml", "required"},
		{"invalid-bad-name-pattern.plugin.yaml", "pattern"},
		{"invalid-empty-command.plugin.yaml", "minItems"},
		{"invalid-bad-timeout.plugin.yaml", "pattern"},
		{"invalid-unknown-field.plugin.yaml", "additionalProperties"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateFile(testPath(tt.file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Fatalf("expected %s to be invalid", tt.file)
			}
			found := false
			for _, issue := range result.Issues {
				if issue.Keyword == tt.keyword {
					found = true
				}
			}
			if !found {
				t.Errorf("no %q issue in %v", tt.keyword, result.Issues)
			}
		})
	}
}

func TestValidateFile_InvalidYAML(t *testing.T) {
	_, err := ValidateFile(testPath("invalid-not-yaml.plugin.yaml"))
	if err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}

func TestValidateFile_NotFound(t *testing.T) {
	_, err := ValidateFile(testPath("nonexistent.plugin.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestValidate_IssuePaths(t *testing.T) {
	result, err := Validate([]byte("name: ok\ncommand: [\"\"]\n"))
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if result.Valid {
		t.Fatal("expected empty command element to be rejected")
	}
	if got := result.Issues[0].Path; got != "/command/0" {
		t.Errorf("Path = %q, want /command/0", got)
	}
	if !strings.Contains(result.Summary(), "/command/0: ") {
		t.Errorf("Summary() = %q, want path prefix", result.Summary())
	}
}
