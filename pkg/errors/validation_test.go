package errors

import "testing"

func TestValidateSolverName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"idle", false},
		{"layout_gen", false},
		{"new_goto2", false},
		{"", true},
		{"Idle", true},
		{"2opt", true},
		{"../bin", true},
		{"with space", true},
	}
	for _, tt := range tests {
		err := ValidateSolverName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSolverName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidName) {
			t.Errorf("ValidateSolverName(%q) code = %v, want %v", tt.name, GetCode(err), ErrCodeInvalidName)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug    string
		wantErr bool
	}{
		{"layout123456789", false},
		{"layout_idle1", false},
		{"my layout", false},
		{"", true},
		{"a/b", true},
		{"..", true},
		{"a\\b", true},
		{"tab\x01", true},
	}
	for _, tt := range tests {
		if err := ValidateSlug(tt.slug); (err != nil) != tt.wantErr {
			t.Errorf("ValidateSlug(%q) error = %v, wantErr %v", tt.slug, err, tt.wantErr)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	var v ValidationErrors
	if err := v.Err(); err != nil {
		t.Fatalf("empty Err() = %v, want nil", err)
	}
	v.Add("rows", "required")
	v.Add("step_x", "must be positive, got %d", -1)
	err := v.Err()
	if !Is(err, ErrCodeInvalidInput) {
		t.Fatalf("Err() code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
	}
	want := "rows: required; step_x: must be positive, got -1"
	if got := UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidLayout, ErrCodeInvalidParam,
		ErrCodeInvalidNetMode, ErrCodeInvalidName, ErrCodeNotFound, ErrCodeFileNotFound,
		ErrCodeSolverNotFound, ErrCodeSolverFailed, ErrCodeValidationFailed,
		ErrCodeInternal, ErrCodeUnsupported,
	}
	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("duplicate error code: %s", c)
		}
		seen[c] = true
	}
}
