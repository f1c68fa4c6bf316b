package match

import (
	"reflect"
	"testing"
)

func TestNormalizeStripsDiacriticsAndPunctuation(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Amélie", "amelie"},
		{"L'Été Meurtrier", "l ete meurtrier"},
		{"  Ciné-Club!  ", "cine club"},
		{"Wim Wenders", "wim wenders"},
		{"Şahane Düğün", "sahane dugun"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.input); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Le Fabuleux Destin d'Amélie Poulain",
		"Pépé le Moko (1937)",
		"UPPER case / lower",
		"çàéîöü",
	}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestTitleVariantsCoversParentheticals(t *testing.T) {
	variants := TitleVariants("Le Voyage (The Journey)")
	want := map[string]bool{
		"le voyage the journey": false,
		"le voyage":             false,
		"the journey":           false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, found := range want {
		if !found {
			t.Errorf("TitleVariants missing %q, got %v", v, variants)
		}
	}
	if len(variants) < 3 {
		t.Fatalf("expected at least 3 variants, got %d", len(variants))
	}
}

func TestTitleVariantsSplitsSeparators(t *testing.T) {
	variants := TitleVariants("Vertigo / Sueurs froides")
	has := func(want string) bool {
		for _, v := range variants {
			if v == want {
				return true
			}
		}
		return false
	}
	if !has("vertigo") || !has("sueurs froides") {
		t.Fatalf("expected both sides of the slash split, got %v", variants)
	}
}

func TestTitleVariantsDeterministicOrder(t *testing.T) {
	first := TitleVariants("Title (Alt) / Other")
	for i := 0; i < 5; i++ {
		again := TitleVariants("Title (Alt) / Other")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("variant order unstable: %v vs %v", first, again)
		}
	}
}

func TestSplitDirectorNames(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"Jean-Pierre Jeunet", []string{"jean pierre jeunet"}},
		{"Joel Coen, Ethan Coen", []string{"joel coen", "ethan coen"}},
		{"Joel Coen et Ethan Coen", []string{"joel coen", "ethan coen"}},
		{"Joel Coen and Ethan Coen", []string{"joel coen", "ethan coen"}},
		{"Joel Coen & Ethan Coen", []string{"joel coen", "ethan coen"}},
		{"A/B", []string{"a", "b"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tc := range cases {
		if got := SplitDirectorNames(tc.input); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitDirectorNames(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
