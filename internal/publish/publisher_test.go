package publish_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"fixturecal/internal/publish"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func newBareRemote(t *testing.T) string {
	t.Helper()
	remote := filepath.Join(t.TempDir(), "remote.git")
	cmd := exec.Command("git", "init", "--bare", remote)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init --bare: %v: %s", err, output)
	}
	return remote
}

func writeSite(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func branchFile(t *testing.T, remote, branch, name string) string {
	t.Helper()
	cmd := exec.Command("git", "--git-dir", remote, "show", branch+":"+name)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git show %s:%s: %v: %s", branch, name, err, output)
	}
	return string(output)
}

func TestPublishCreatesBranchAndPushes(t *testing.T) {
	requireGit(t)
	remote := newBareRemote(t)
	site := t.TempDir()
	writeSite(t, site, map[string]string{"clive_owen_co.ics": "BEGIN:VCALENDAR"})

	publisher, err := publish.New(remote, "gh-pages", t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := publisher.Publish(context.Background(), site)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !result.Committed || result.Commit == "" {
		t.Fatalf("expected commit, got %+v", result)
	}

	contents := branchFile(t, remote, "gh-pages", "clive_owen_co.ics")
	if !strings.Contains(contents, "BEGIN:VCALENDAR") {
		t.Fatalf("unexpected published contents %q", contents)
	}
}

func TestPublishNoChangesSucceedsWithoutCommit(t *testing.T) {
	requireGit(t)
	remote := newBareRemote(t)
	site := t.TempDir()
	writeSite(t, site, map[string]string{"feed.ics": "BEGIN:VCALENDAR"})

	publisher, err := publish.New(remote, "gh-pages", t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if _, err := publisher.Publish(ctx, site); err != nil {
		t.Fatalf("first Publish: %v", err)
	}
	result, err := publisher.Publish(ctx, site)
	if err != nil {
		t.Fatalf("second Publish: %v", err)
	}
	if result.Committed {
		t.Fatal("expected no commit when the tree is unchanged")
	}
}

func TestPublishReplacesStaleFiles(t *testing.T) {
	requireGit(t)
	remote := newBareRemote(t)
	site := t.TempDir()
	writeSite(t, site, map[string]string{"old.ics": "stale", "keep.ics": "v1"})

	publisher, err := publish.New(remote, "gh-pages", t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if _, err := publisher.Publish(ctx, site); err != nil {
		t.Fatalf("first Publish: %v", err)
	}

	if err := os.Remove(filepath.Join(site, "old.ics")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	writeSite(t, site, map[string]string{"keep.ics": "v2"})
	if _, err := publisher.Publish(ctx, site); err != nil {
		t.Fatalf("second Publish: %v", err)
	}

	cmd := exec.Command("git", "--git-dir", remote, "ls-tree", "--name-only", "gh-pages")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git ls-tree: %v: %s", err, output)
	}
	listing := string(output)
	if strings.Contains(listing, "old.ics") {
		t.Fatalf("expected stale file removed from branch, got %q", listing)
	}
	if got := branchFile(t, remote, "gh-pages", "keep.ics"); got != "v2" {
		t.Fatalf("expected updated contents, got %q", got)
	}
}

func TestPublishRejectsMissingSource(t *testing.T) {
	publisher, err := publish.New("https://example.com/repo.git", "gh-pages", t.TempDir(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := publisher.Publish(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := publish.New("", "gh-pages", "", nil); err == nil {
		t.Fatal("expected error for empty remote")
	}
	if _, err := publish.New("https://example.com/repo.git", "", "", nil); err == nil {
		t.Fatal("expected error for empty branch")
	}
}
