package patchfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shaban/instpatch/errs"
	"github.com/shaban/instpatch/filepool"
	"github.com/shaban/instpatch/item"
)

type fileLeaf struct {
	item.Base
}

func newFileLeaf() *fileLeaf {
	l := &fileLeaf{}
	l.Init(l, "FileLeaf", false)
	return l
}

func encodeString(obj any) ([]byte, error) { return []byte(obj.(string)), nil }

func TestSaveWritesAtomicallyAndBindsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patch.bin")
	pool := filepool.New()

	b := NewBase("Leaf", encodeString)
	if err := b.Save("hello", path, "", false, pool); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected contents %q", data)
	}
	if !b.Saved() || b.Changed() {
		t.Fatal("expected Saved true and Changed false after Save")
	}
	if b.File() == nil || b.File().Path() != mustAbs(path) {
		t.Fatal("expected Base to bind the saved file")
	}
}

func TestSaveRejectsPathClaimedByAnotherBase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.bin")
	pool := filepool.New()

	a := NewBase("Leaf", encodeString)
	if err := a.Save("a", path, "", false, pool); err != nil {
		t.Fatalf("Save a: %v", err)
	}

	bbase := NewBase("Leaf", encodeString)
	err := bbase.Save("b", path, "", false, pool)
	if !errs.Is(err, errs.Busy) {
		t.Fatalf("expected Busy, got %v", err)
	}
}

func TestSaveACopyDoesNotRebindFile(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "orig.bin")
	copy := filepath.Join(dir, "copy.bin")
	pool := filepool.New()

	b := NewBase("Leaf", encodeString)
	if err := b.Save("v1", orig, "", false, pool); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := b.Save("v2", copy, "", true, pool); err != nil {
		t.Fatalf("SaveACopy: %v", err)
	}
	if b.File().Path() != mustAbs(orig) {
		t.Fatalf("expected bound file to remain %s, got %s", orig, b.File().Path())
	}
	if pool.Lookup(copy) != nil {
		t.Fatal("expected save-a-copy path to be released, not claimed")
	}
}

func TestCloseReleasesFileAndUnbindsBase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "close.bin")
	pool := filepool.New()

	leaf := newFileLeaf()
	b := NewBase("FileLeaf", encodeString)
	if err := b.Save("x", path, "", false, pool); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := Close(leaf, b, pool, nil); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if b.File() != nil {
		t.Fatal("expected file to be unbound after Close")
	}
	if pool.Lookup(path) != nil {
		t.Fatal("expected path to be released after Close")
	}
}
