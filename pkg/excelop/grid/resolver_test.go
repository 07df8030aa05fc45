package grid

import (
	"errors"
	"testing"
)

func TestResolveColumn(t *testing.T) {
	headers := []string{"姓名", "部门", "销售额", "Score_1", "Total Score"}

	tests := []struct {
		requested string
		wantIdx   int
		wantName  string
	}{
		{"姓名", 1, "姓名"},               // exact
		{"Score.1", 4, "Score_1"},      // pandas-style suffix swap
		{"total score", 5, "Total Score"}, // case-insensitive
		{"销售", 3, "销售额"},              // substring
		{"Total Score Percent", 5, "Total Score"}, // reverse substring
	}
	for _, tt := range tests {
		idx, name, err := ResolveColumn(headers, tt.requested)
		if err != nil {
			t.Errorf("ResolveColumn(%q) error: %v", tt.requested, err)
			continue
		}
		if idx != tt.wantIdx || name != tt.wantName {
			t.Errorf("ResolveColumn(%q) = (%d, %q), want (%d, %q)",
				tt.requested, idx, name, tt.wantIdx, tt.wantName)
		}
	}
}

func TestResolveColumnNotFound(t *testing.T) {
	headers := []string{"Name", "Department", "Salary"}

	_, _, err := ResolveColumn(headers, "Salry")
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
	var cnf *ColumnNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("expected ColumnNotFoundError, got %T", err)
	}
	if len(cnf.Suggestions) == 0 {
		t.Errorf("expected fuzzy suggestions for %q, got none", "Salry")
	}
}

func TestResolveColumnNoSuggestions(t *testing.T) {
	headers := []string{"Alpha", "Beta"}

	_, _, err := ResolveColumn(headers, "zzzz")
	var cnf *ColumnNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("expected ColumnNotFoundError, got %v", err)
	}
	if len(cnf.Available) != 2 {
		t.Errorf("Available = %v, want both headers", cnf.Available)
	}
}
