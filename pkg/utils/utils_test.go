package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindAudioFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "artist", "album")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		filepath.Join(dir, "b.mp3"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(sub, "a.FLAC"),
		filepath.Join(sub, "cover.jpg"),
	} {
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := FindAudioFiles(dir)
	if err != nil {
		t.Fatalf("FindAudioFiles() error: %v", err)
	}

	want := []string{filepath.Join(sub, "a.FLAC"), filepath.Join(dir, "b.mp3")}
	if len(files) != len(want) {
		t.Fatalf("FindAudioFiles() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestFindAudioFilesErrors(t *testing.T) {
	if _, err := FindAudioFiles(""); err == nil {
		t.Error("expected error for empty dir")
	}
	if _, err := FindAudioFiles("/nonexistent/dir"); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestCheckDependencies(t *testing.T) {
	if err := CheckDependencies(); err != nil {
		t.Errorf("no commands should pass, got %v", err)
	}
	if err := CheckDependencies("definitely-not-a-real-command-xyz"); err == nil {
		t.Error("expected error for missing command")
	}
}

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=pEfr1eMCaPE&t=42s", "pEfr1eMCaPE", false},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/shorts/abc123", "abc123", false},
		{"https://music.youtube.com/watch?v=U1zDp9923PU", "U1zDp9923PU", false},
		{"https://www.youtube.com/watch", "", true},
		{"https://youtu.be/", "", true},
		{"https://example.com/watch?v=x", "", true},
	}

	for _, tt := range tests {
		got, err := ExtractYouTubeID(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExtractYouTubeID(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractYouTubeID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestIsYouTubeURL(t *testing.T) {
	if !IsYouTubeURL("https://youtu.be/x") || !IsYouTubeURL("https://www.youtube.com/watch?v=x") {
		t.Error("expected YouTube URLs to match")
	}
	if IsYouTubeURL("/home/me/song.mp3") || IsYouTubeURL("https://soundcloud.com/x") {
		t.Error("expected non-YouTube inputs not to match")
	}
}
