package alphabet

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		tag     string
		want    Language
		wantErr bool
	}{
		{"ru", Russian, false},
		{"EN", English, false},
		{"He", Hebrew, false},
		{"de", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := Parse(tc.tag)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) should fail", tc.tag)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tc.tag, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestValid(t *testing.T) {
	if !Russian.Valid('ё') {
		t.Error("ё should be a valid Russian letter")
	}
	if Russian.Valid('a') {
		t.Error("a should not be a valid Russian letter")
	}
	if !English.Valid('z') {
		t.Error("z should be a valid English letter")
	}
	if English.Valid('1') {
		t.Error("digits are not letters")
	}
	if !Hebrew.Valid('ש') {
		t.Error("ש should be a valid Hebrew letter")
	}
	if Hebrew.Valid('ы') {
		t.Error("Cyrillic is not Hebrew")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		lang Language
		in   string
		want string
	}{
		{English, "Hello, World!", "helloworld"},
		{English, "привет", ""},
		{Russian, "Привет, мир 123", "приветмир"},
		{Russian, "ЁЛКА", "ёлка"},
		{Hebrew, "שלום hello", "שלום"},
		{English, "", ""},
	}

	for _, tc := range cases {
		if got := tc.lang.Normalize(tc.in); got != tc.want {
			t.Errorf("%s.Normalize(%q) = %q, want %q", tc.lang, tc.in, got, tc.want)
		}
	}
}

func TestWords(t *testing.T) {
	got := English.Words("Hello, cruel world!")
	want := []string{"hello", "cruel", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}

	got = Russian.Words("да-да, ёж")
	want = []string{"да", "да", "ёж"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}

	if words := English.Words("1234 !!!"); len(words) != 0 {
		t.Errorf("expected no words, got %v", words)
	}
}
