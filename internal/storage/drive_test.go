package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestFolderQuery(t *testing.T) {
	got := folderQuery("Vox's Transcripts", "")
	want := `name='Vox\'s Transcripts' and mimeType='application/vnd.google-apps.folder' and trashed=false`
	if got != want {
		t.Errorf("folderQuery = %s", got)
	}

	got = folderQuery("07", "parent123")
	if !strings.HasSuffix(got, " and 'parent123' in parents") {
		t.Errorf("folderQuery with parent = %s", got)
	}
}

func TestDateFolderNames(t *testing.T) {
	got := dateFolderNames(time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC))
	if strings.Join(got, "/") != "2026/03/07" {
		t.Errorf("dateFolderNames = %v", got)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	if err := SaveToken(path, tok); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	got, err := TokenFromFile(path)
	if err != nil {
		t.Fatalf("TokenFromFile: %v", err)
	}
	if got.AccessToken != "access" || got.RefreshToken != "refresh" {
		t.Errorf("token = %+v", got)
	}
}

func TestNewDriveClientMissingCredentials(t *testing.T) {
	dir := t.TempDir()
	_, err := NewDriveClient(t.Context(), filepath.Join(dir, "creds.json"), filepath.Join(dir, "token.json"), "VoxScribe")
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
}
