// Package provider holds the clients for the remote services behind
// identification: acoustid (fingerprint to recording ids), musicbrainz
// (recording details and releases) and coverart (release group artwork).
//
// Each client implements an interface declared in internal/metadata and
// takes the *http.Client it should use, so one client is shared by all.
package provider
