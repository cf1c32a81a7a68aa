package validate

import (
	"strings"
	"testing"
)

func TestValidateAcceptsNormalInput(t *testing.T) {
	v := New()

	for _, input := range []string{"config", "1", "help", "generate some code", "use starter"} {
		result := v.Validate(input, "main")
		if !result.Valid {
			t.Errorf("Validate(%q) rejected valid input: %v", input, result.Errors)
		}
	}
}

func TestValidateRejectsOversizedInput(t *testing.T) {
	v := New()

	result := v.Validate(strings.Repeat("a", 1500), "main")
	if result.Valid {
		t.Fatal("expected oversized input to be rejected")
	}
	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "too long") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 'too long' error, got %v", result.Errors)
	}
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	v := New()

	// 900 two-byte runes: 1800 bytes, but well under the character limit.
	result := v.Validate(strings.Repeat("é", 900), "main")
	if !result.Valid {
		t.Errorf("multibyte input under the limit was rejected: %v", result.Errors)
	}

	if result := v.Validate(strings.Repeat("é", 1001), "main"); result.Valid {
		t.Error("expected input over the character limit to be rejected")
	}
}

func TestValidateRejectsDangerousPatterns(t *testing.T) {
	v := New()

	dangerous := []string{
		"../etc/passwd",
		"<script>alert(1)</script>",
		"javascript:void(0)",
		"eval(payload)",
		"$(rm -rf /)",
		"echo `whoami`",
	}

	for _, input := range dangerous {
		result := v.Validate(input, "main")
		if result.Valid {
			t.Errorf("Validate(%q) accepted dangerous input", input)
		}
	}
}

func TestValidateAccumulatesViolations(t *testing.T) {
	v := New()

	// Oversized input that also contains two deny patterns.
	input := strings.Repeat("x", 1100) + "$(cmd) `tick`"
	result := v.Validate(input, "main")
	if result.Valid {
		t.Fatal("expected rejection")
	}
	if len(result.Errors) < 3 {
		t.Errorf("expected accumulated errors, got %v", result.Errors)
	}
}

func TestValidateTemplateRules(t *testing.T) {
	v := New()

	tests := []struct {
		input     string
		wantValid bool
		wantWarn  bool
	}{
		{"use", false, false},
		{"edit", false, false},
		{"delete", false, false},
		{"preview", false, false},
		{"use starter", true, false},
		{"create ab", true, true},
		{"create my-template", true, false},
		{"list", true, false},
	}

	for _, tt := range tests {
		result := v.Validate(tt.input, "templates")
		if result.Valid != tt.wantValid {
			t.Errorf("Validate(%q, templates).Valid = %v, want %v (%v)",
				tt.input, result.Valid, tt.wantValid, result.Errors)
		}
		if (len(result.Warnings) > 0) != tt.wantWarn {
			t.Errorf("Validate(%q, templates) warnings = %v, want warning=%v",
				tt.input, result.Warnings, tt.wantWarn)
		}
	}
}

func TestTemplateRulesDoNotApplyElsewhere(t *testing.T) {
	v := New()

	if result := v.Validate("use", "main"); !result.Valid {
		t.Errorf("templates-level rule leaked into main level: %v", result.Errors)
	}
}

func TestSuggestTypo(t *testing.T) {
	v := New()

	got := v.Suggest("conifg", "main")
	found := false
	for _, s := range got {
		if s == "config" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggest(conifg, main) = %v, want to contain config", got)
	}
}

func TestSuggestNumericOutOfRange(t *testing.T) {
	v := New()

	got := v.Suggest("9", "main")
	if len(got) == 0 {
		t.Fatal("expected numeric shortcut hints for out-of-range number")
	}
	if !strings.Contains(got[0], "1 (") {
		t.Errorf("Suggest(9, main) = %v, want numbered hints", got)
	}
	if len(got) > 5 {
		t.Errorf("Suggest returned %d items, cap is 5", len(got))
	}
}

func TestSuggestCap(t *testing.T) {
	v := New()

	if got := v.Suggest("e", "templates"); len(got) > 5 {
		t.Errorf("Suggest returned %d items, cap is 5", len(got))
	}
}

func TestVocabularyIncludesGlobals(t *testing.T) {
	vocab := Vocabulary("templates")
	for _, global := range []string{"help", "back", "home", "clear", "quit"} {
		found := false
		for _, v := range vocab {
			if v == global {
				found = true
			}
		}
		if !found {
			t.Errorf("Vocabulary(templates) missing global command %q", global)
		}
	}
}
