package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBootstrapDefaults(t *testing.T) {
	svc, err := Bootstrap(BootstrapOptions{})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	page, err := svc.Page(context.Background(), ViewerContext{SessionID: "boot"})
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if page.View.Code != ViewAdmin {
		t.Fatalf("expected admin view, got %s", page.View.Code)
	}
	if len(page.Widgets()) != 7 {
		t.Fatalf("expected 7 admin widgets, got %d", len(page.Widgets()))
	}
}

func TestBootstrapMissingManifest(t *testing.T) {
	_, err := Bootstrap(BootstrapOptions{Manifests: []string{filepath.Join(t.TempDir(), "missing.yaml")}})
	if err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}

func TestBootstrapRejectsInvalidManifestView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	const payload = `
views:
  - code: carbon.view.operator
    name: Operator
    rows:
      - widgets:
          - {id: operator-x, definition: carbon.widget.unknown, width: 6}
`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := Bootstrap(BootstrapOptions{Manifests: []string{path}}); err == nil {
		t.Fatalf("expected unknown definition to fail bootstrap")
	}
}

func TestLoadManifestsMergesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	if err := os.WriteFile(first, []byte("views:\n  - {code: carbon.view.extra, name: First}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("views:\n  - {code: carbon.view.extra, name: Second}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	views, err := LoadManifests(NewRegistry(), DefaultViews(), first, second)
	if err != nil {
		t.Fatalf("LoadManifests returned error: %v", err)
	}
	if len(views) != 4 || views[3].Name != "Second" {
		t.Fatalf("expected later manifest to win, got %#v", views[len(views)-1])
	}
}
