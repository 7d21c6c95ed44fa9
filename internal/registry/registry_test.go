package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestOpenCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "registry.db")

	r, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
}

func TestCloseNilDB(t *testing.T) {
	r := &Registry{db: nil}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil db should not error: %v", err)
	}
}

func TestRecordComputesChecksum(t *testing.T) {
	r := openTestRegistry(t)
	path := writeArtifact(t, "trigram_en.json", `{"lang":"en"}`)

	a := &Artifact{
		Kind:      KindTrigramModel,
		Lang:      "en",
		Version:   1,
		Path:      path,
		ItemCount: 42,
	}
	id, err := r.Record(a)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero artifact id")
	}
	if a.Checksum == ([ChecksumSize]byte{}) {
		t.Error("checksum was not computed")
	}
	if a.SizeBytes != int64(len(`{"lang":"en"}`)) {
		t.Errorf("size = %d, want %d", a.SizeBytes, len(`{"lang":"en"}`))
	}
	if a.CreatedAt == 0 {
		t.Error("created_at was not set")
	}
}

func TestRecordMissingFile(t *testing.T) {
	r := openTestRegistry(t)

	_, err := r.Record(&Artifact{
		Kind: KindDataset,
		Lang: "multi",
		Path: filepath.Join(t.TempDir(), "absent.csv"),
	})
	if err == nil {
		t.Fatal("expected error for missing artifact file")
	}
}

func TestLatest(t *testing.T) {
	r := openTestRegistry(t)

	got, err := r.Latest(KindTrigramModel, "en")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got != nil {
		t.Fatal("Latest on empty registry should return nil")
	}

	old := writeArtifact(t, "old.json", "old")
	recent := writeArtifact(t, "new.json", "new")

	if _, err := r.Record(&Artifact{
		Kind: KindTrigramModel, Lang: "en", Version: 1,
		Path: old, CreatedAt: 100,
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := r.Record(&Artifact{
		Kind: KindTrigramModel, Lang: "en", Version: 1,
		Path: recent, CreatedAt: 200,
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := r.Record(&Artifact{
		Kind: KindTrigramModel, Lang: "ru", Version: 1,
		Path: old, CreatedAt: 300,
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err = r.Latest(KindTrigramModel, "en")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got == nil || got.Path != recent {
		t.Errorf("Latest returned %+v, want path %s", got, recent)
	}
}

func TestList(t *testing.T) {
	r := openTestRegistry(t)
	path := writeArtifact(t, "a.json", "content")

	kinds := []string{KindTrigramModel, KindWordList, KindDataset}
	for i, kind := range kinds {
		if _, err := r.Record(&Artifact{
			Kind: kind, Lang: "en", Version: 1,
			Path: path, CreatedAt: int64(100 + i),
		}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	all, err := r.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List returned %d artifacts, want 3", len(all))
	}
	// Newest first.
	if all[0].Kind != KindDataset {
		t.Errorf("first artifact kind = %s, want %s", all[0].Kind, KindDataset)
	}

	models, err := r.List(KindTrigramModel)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(models) != 1 || models[0].Kind != KindTrigramModel {
		t.Errorf("filtered list = %+v", models)
	}
}

func TestListByLang(t *testing.T) {
	r := openTestRegistry(t)
	path := writeArtifact(t, "a.json", "content")

	for _, lang := range []string{"en", "ru", "en"} {
		if _, err := r.Record(&Artifact{
			Kind: KindTrigramModel, Lang: lang, Version: 1, Path: path,
		}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	en, err := r.ListByLang("en")
	if err != nil {
		t.Fatalf("ListByLang failed: %v", err)
	}
	if len(en) != 2 {
		t.Errorf("ListByLang returned %d artifacts, want 2", len(en))
	}
}

func TestVerify(t *testing.T) {
	r := openTestRegistry(t)
	path := writeArtifact(t, "model.json", "original contents")

	a := &Artifact{Kind: KindTrigramModel, Lang: "he", Version: 1, Path: path}
	if _, err := r.Record(a); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	ok, err := r.Verify(a)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("unmodified artifact should verify")
	}

	if err := os.WriteFile(path, []byte("tampered"), 0644); err != nil {
		t.Fatalf("rewrite artifact: %v", err)
	}
	ok, err = r.Verify(a)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("modified artifact should fail verification")
	}
}

func TestChecksumFileDeterministic(t *testing.T) {
	path := writeArtifact(t, "f.bin", "same bytes")

	a, sizeA, err := ChecksumFile(path)
	if err != nil {
		t.Fatalf("ChecksumFile failed: %v", err)
	}
	b, sizeB, err := ChecksumFile(path)
	if err != nil {
		t.Fatalf("ChecksumFile failed: %v", err)
	}
	if a != b || sizeA != sizeB {
		t.Error("checksum should be deterministic")
	}
	if sizeA != int64(len("same bytes")) {
		t.Errorf("size = %d, want %d", sizeA, len("same bytes"))
	}
}
