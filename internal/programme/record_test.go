package programme

import (
	"strings"
	"testing"
)

func TestCineClubDetection(t *testing.T) {
	cases := []struct {
		category string
		comment  string
		want     bool
	}{
		{"Ciné-Club", "", true},
		{"", "Séance patrimoine", true},
		{"CINE CLUB", "", true},
		{"Jeune public", "avant-première", false},
		{"", "", false},
	}
	for _, tc := range cases {
		rec := ScreeningRecord{Category: tc.category, Comment: tc.comment}
		if got := rec.CineClub(); got != tc.want {
			t.Errorf("CineClub(%q, %q) = %v, want %v", tc.category, tc.comment, got, tc.want)
		}
	}
}

func TestSchoolDetection(t *testing.T) {
	if !(ScreeningRecord{Category: "Scolaire"}).School() {
		t.Error("Scolaire category should flag a school screening")
	}
	if (ScreeningRecord{Category: "Tout public"}).School() {
		t.Error("Tout public should not flag a school screening")
	}
}

func TestDecodeBareArray(t *testing.T) {
	input := `[{"title": "  Cléo de 5 à 7 ", "director": "Agnès Varda", "date": "2026-09-12"}]`
	records, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].Title != "Cléo de 5 à 7" {
		t.Errorf("title = %q, want trimmed", records[0].Title)
	}
}

func TestDecodeWrappedObject(t *testing.T) {
	input := `{"records": [{"title": "Playtime"}, {"title": "Mon Oncle"}]}`
	records, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
}

func TestDecodeRejectsJunk(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"films": 3}`)); err == nil {
		t.Error("expected error for object without records")
	}
	if _, err := Decode(strings.NewReader(`not json`)); err == nil {
		t.Error("expected error for invalid json")
	}
}
