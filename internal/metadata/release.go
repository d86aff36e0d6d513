package metadata

// releaseRule is one entry of the album priority table. The first rule whose
// match accepts a group decides the album.
type releaseRule struct {
	match   func(ReleaseGroupRef) bool
	extract func(ReleaseGroupRef) Album
}

func primaryType(t ReleaseType) func(ReleaseGroupRef) bool {
	return func(g ReleaseGroupRef) bool { return g.PrimaryType == t }
}

func groupTitle(g ReleaseGroupRef) Album {
	return Album{Title: g.Title, ID: g.ID}
}

// releaseRules is ordered Album > EP > Single.
var releaseRules = []releaseRule{
	{match: primaryType(ReleaseTypeAlbum), extract: groupTitle},
	{match: primaryType(ReleaseTypeEP), extract: groupTitle},
	{
		match: primaryType(ReleaseTypeSingle),
		// Singles are usually titled after the song itself
		extract: func(g ReleaseGroupRef) Album { return Album{Title: SingleAlbum, ID: g.ID} },
	},
}

// Disambiguate picks the release group that names the album a recording belongs to.
// It never fails: missing data degrades to a sentinel title with no ID.
func Disambiguate(rec CanonicalRecording) Album {
	if rec.Releases == nil {
		return Album{Title: NotFound}
	}

	groups := typedGroups(rec.Releases)
	if len(groups) == 0 {
		return Album{Title: NoAlbum}
	}

	for _, rule := range releaseRules {
		for _, g := range groups {
			if rule.match(g) {
				return rule.extract(g)
			}
		}
	}
	return Album{Title: UnrecognizedReleaseType}
}

// typedGroups flattens releases to their groups, keeping only groups with a primary type.
func typedGroups(releases []Release) []ReleaseGroupRef {
	var groups []ReleaseGroupRef
	for _, r := range releases {
		if r.ReleaseGroup == nil || r.ReleaseGroup.PrimaryType == "" {
			continue
		}
		groups = append(groups, *r.ReleaseGroup)
	}
	return groups
}
