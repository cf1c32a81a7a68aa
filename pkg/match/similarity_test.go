package match

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"config", "config", 0},
		{"conifg", "config", 2},
		{"hepl", "help", 2},
		{"templates", "template", 1},
	}

	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "config", "generate code"} {
		if got := Similarity(s, s); got != 1.0 {
			t.Errorf("Similarity(%q, %q) = %f, want 1.0", s, s, got)
		}
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"conifg", "config"},
		{"", "abc"},
		{"templates", "template"},
		{"xyz", "generate"},
	}

	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %f but reversed = %f", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("Similarity(%q, %q) = %f, out of [0,1]", p[0], p[1], ab)
		}
	}
}

func TestSimilarityBothEmpty(t *testing.T) {
	if got := Similarity("", ""); got != 1.0 {
		t.Errorf("Similarity of two empty strings = %f, want 1.0", got)
	}
}

func TestRank(t *testing.T) {
	vocab := []string{"config", "templates", "generate", "advanced", "help"}

	got := Rank("conifg", vocab, 0.5, 3)
	if len(got) == 0 || got[0] != "config" {
		t.Fatalf("Rank(conifg) = %v, want config first", got)
	}

	// Nothing in the vocabulary is close to this.
	if got := Rank("zzzzzzzz", vocab, 0.5, 3); len(got) != 0 {
		t.Errorf("Rank(zzzzzzzz) = %v, want empty", got)
	}
}

func TestRankLimitAndOrder(t *testing.T) {
	vocab := []string{"edit", "exit", "list", "quit"}

	got := Rank("eit", vocab, 0.4, 2)
	if len(got) > 2 {
		t.Fatalf("Rank returned %d results, want at most 2", len(got))
	}
	// edit and exit score identically against "eit"; declaration order wins.
	if len(got) == 2 && (got[0] != "edit" || got[1] != "exit") {
		t.Errorf("Rank tie-break = %v, want [edit exit]", got)
	}
}

func TestRankDeduplicates(t *testing.T) {
	got := Rank("config", []string{"config", "config", "configs"}, 0.5, 5)
	count := 0
	for _, v := range got {
		if v == "config" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Rank returned %d copies of config, want 1", count)
	}
}
