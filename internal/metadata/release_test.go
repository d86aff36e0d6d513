package metadata

import "testing"

func group(id string, t ReleaseType, title string) Release {
	return Release{ReleaseGroup: &ReleaseGroupRef{ID: id, PrimaryType: t, Title: title}}
}

func TestDisambiguate(t *testing.T) {
	tests := []struct {
		name     string
		releases []Release
		want     Album
	}{
		{
			name:     "releases absent",
			releases: nil,
			want:     Album{Title: NotFound},
		},
		{
			name:     "no releases",
			releases: []Release{},
			want:     Album{Title: NoAlbum},
		},
		{
			name:     "release without group",
			releases: []Release{{ReleaseGroup: nil}},
			want:     Album{Title: NoAlbum},
		},
		{
			name:     "group without primary type",
			releases: []Release{group("g1", "", "Untyped")},
			want:     Album{Title: NoAlbum},
		},
		{
			name:     "album",
			releases: []Release{group("a1", ReleaseTypeAlbum, "X")},
			want:     Album{Title: "X", ID: "a1"},
		},
		{
			name:     "single replaces title",
			releases: []Release{group("s1", ReleaseTypeSingle, "Song A")},
			want:     Album{Title: SingleAlbum, ID: "s1"},
		},
		{
			name:     "ep",
			releases: []Release{group("e1", ReleaseTypeEP, "Four Songs")},
			want:     Album{Title: "Four Songs", ID: "e1"},
		},
		{
			name:     "unsupported type",
			releases: []Release{group("o1", ReleaseTypeBroadcast, "Radio Session")},
			want:     Album{Title: UnrecognizedReleaseType},
		},
		{
			name: "album beats earlier single and ep",
			releases: []Release{
				group("s1", ReleaseTypeSingle, "Song A"),
				group("e1", ReleaseTypeEP, "EP A"),
				group("a1", ReleaseTypeAlbum, "Album A"),
			},
			want: Album{Title: "Album A", ID: "a1"},
		},
		{
			name: "ep beats single",
			releases: []Release{
				group("s1", ReleaseTypeSingle, "Song A"),
				group("e1", ReleaseTypeEP, "EP A"),
			},
			want: Album{Title: "EP A", ID: "e1"},
		},
		{
			name: "first album wins",
			releases: []Release{
				group("a1", ReleaseTypeAlbum, "First"),
				group("a2", ReleaseTypeAlbum, "Second"),
			},
			want: Album{Title: "First", ID: "a1"},
		},
		{
			name: "malformed entries skipped",
			releases: []Release{
				{ReleaseGroup: nil},
				group("g0", "", "Untyped"),
				group("o1", ReleaseTypeOther, "Other"),
				group("s1", ReleaseTypeSingle, "Song A"),
			},
			want: Album{Title: SingleAlbum, ID: "s1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Disambiguate(CanonicalRecording{Title: "Song A", Releases: tt.releases})
			if got != tt.want {
				t.Errorf("Disambiguate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseReleaseType(t *testing.T) {
	tests := []struct {
		in   string
		want ReleaseType
	}{
		{"Album", ReleaseTypeAlbum},
		{"album", ReleaseTypeAlbum},
		{"EP", ReleaseTypeEP},
		{"Ep", ReleaseTypeEP},
		{"Single", ReleaseTypeSingle},
		{"Broadcast", ReleaseTypeBroadcast},
		{"Other", ReleaseTypeOther},
		{"Compilation", ReleaseType("Compilation")},
		{"", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := ParseReleaseType(tt.in); got != tt.want {
			t.Errorf("ParseReleaseType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
