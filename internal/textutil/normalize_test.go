package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Chrono Trigger", "chrono trigger"},
		{"strips punctuation", "Legend of Zelda: Ocarina of Time", "legend of zelda ocarina of time"},
		{"collapses whitespace", "  Mario   Kart  64 ", "mario kart 64"},
		{"apostrophes", "Link's Awakening", "link s awakening"},
		{"already clean", "metroid prime", "metroid prime"},
		{"empty", "", ""},
		{"only punctuation", "?!.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestQueryKeyInsensitivity(t *testing.T) {
	a := QueryKey("Chrono Trigger", "SNES")
	b := QueryKey("chrono  trigger!", "snes")
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	c := QueryKey("Chrono Trigger", "PlayStation")
	if a == c {
		t.Fatalf("platform must participate in the key, got %q for both", a)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Legend of Zelda: Ocarina of Time", "legend-of-zelda-ocarina-of-time"},
		{"Link's Awakening", "links-awakening"},
		{"Mario Party 2 (Not for Resale)", "mario-party-2-not-for-resale"},
		{"F-Zero X", "f-zero-x"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlatformSlugDropsNewQualifier(t *testing.T) {
	if got := PlatformSlug("New Nintendo 3DS"); got != "nintendo-3ds" {
		t.Fatalf("PlatformSlug = %q, want nintendo-3ds", got)
	}
	if got := PlatformSlug("Nintendo 64"); got != "nintendo-64" {
		t.Fatalf("PlatformSlug = %q, want nintendo-64", got)
	}
}
