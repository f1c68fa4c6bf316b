package match

import "testing"

func TestSimilarityBounds(t *testing.T) {
	if got := Similarity("amelie", "amelie"); got != 1.0 {
		t.Errorf("identical strings scored %f, want 1.0", got)
	}
	if got := Similarity("", "amelie"); got != 0 {
		t.Errorf("empty input scored %f, want 0", got)
	}
	if got := Similarity("amelie", ""); got != 0 {
		t.Errorf("empty candidate scored %f, want 0", got)
	}
	got := Similarity("amelie", "amelia")
	if got <= 0 || got >= 1 {
		t.Errorf("near-match scored %f, want value in (0,1)", got)
	}
}

func TestTitleSimilarityUsesAllVariantFieldPairs(t *testing.T) {
	variants := TitleVariants("Le Voyage (The Journey)")
	if got := TitleSimilarity(variants, "Unrelated", "The Journey"); got != 1.0 {
		t.Errorf("original-title match scored %f, want 1.0", got)
	}
	if got := TitleSimilarity(variants, "Le Voyage", ""); got != 1.0 {
		t.Errorf("title match scored %f, want 1.0", got)
	}
	if got := TitleSimilarity(nil, "Le Voyage", "The Journey"); got != 0 {
		t.Errorf("no variants scored %f, want 0", got)
	}
}

func TestDirectorNameScoreSurnameBonus(t *testing.T) {
	reversed := DirectorNameScore("Jane Doe", "Doe Jane")
	unrelated := DirectorNameScore("Jane Doe", "John Smith")
	if reversed < unrelated {
		t.Errorf("reversed name %f scored below unrelated name %f", reversed, unrelated)
	}
	if reversed < 0.99 {
		t.Errorf("token-reversed name scored %f, want near 1.0", reversed)
	}
	if got := DirectorNameScore("Jane Doe", "Jane Doe"); got != 1.0 {
		t.Errorf("identical names scored %f, want 1.0 (bonus capped)", got)
	}
}

func TestDirectorNameScoreCommaOrdering(t *testing.T) {
	score := DirectorNameScore("Jeunet, Jean-Pierre", "Jean-Pierre Jeunet")
	if score < 0.99 {
		t.Errorf("comma-ordered name scored %f, want near 1.0", score)
	}
}

func TestBestDirectorMatchCartesian(t *testing.T) {
	score := BestDirectorMatch("Joel Coen et Ethan Coen", "Ethan Coen, Joel Coen")
	if score < 0.99 {
		t.Errorf("co-director lists scored %f, want near 1.0", score)
	}
	if got := BestDirectorMatch("", "Jane Doe"); got != 0 {
		t.Errorf("empty query scored %f, want 0", got)
	}
	if got := BestDirectorMatch("Jane Doe", ""); got != 0 {
		t.Errorf("empty candidates scored %f, want 0", got)
	}
}
