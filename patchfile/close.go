package patchfile

import (
	"github.com/shaban/instpatch/filepool"
	"github.com/shaban/instpatch/item"
)

// MigrateSampleData is called on a File as it goes out of scope during
// Close/CloseList, the hook point for copying any sample data that
// lived only in that file out to wherever it's still referenced from.
// Sample storage itself is out of scope (spec.md §1); nil means no
// migration is performed.
type MigrateSampleData func(f *File) error

// Close removes it from its tree (via item.RemoveFull, if it has a
// parent — a patchfile root typically doesn't) and releases the
// Base's claimed file path, running migrate against the released file
// if one is bound.
func Close(it item.Item, b *Base, pool *filepool.Pool, migrate MigrateSampleData) error {
	if pool == nil {
		pool = filepool.Default
	}
	file := b.file
	if hasParent(it) {
		if err := item.RemoveFull(it, false); err != nil {
			return err
		}
	}
	if file != nil {
		pool.Release(file.handle)
		b.file = nil
		if migrate != nil {
			return migrate(file)
		}
	}
	return nil
}

// CloseEntry pairs an item with its patchfile Base for CloseList.
type CloseEntry struct {
	Item item.Item
	Base *Base
}

// CloseList closes several Base objects together (item.RemoveRecursive
// for each, deepest children first within each object), batching the
// sample-data migration over the reversed order files were released
// in — closing several objects backed by the same file only migrates
// that file's samples once, matching ipatch_close_base_list.
func CloseList(entries []CloseEntry, pool *filepool.Pool, migrate MigrateSampleData) error {
	if pool == nil {
		pool = filepool.Default
	}
	var files []*File
	var firstErr error

	for _, e := range entries {
		file := e.Base.file
		if hasParent(e.Item) {
			if err := item.RemoveRecursive(e.Item, true); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
		}
		if file != nil {
			pool.Release(file.handle)
			e.Base.file = nil
			files = append(files, file)
		}
	}

	for i := len(files) - 1; i >= 0; i-- {
		if migrate == nil {
			continue
		}
		if err := migrate(files[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func hasParent(it item.Item) bool {
	p, ok := it.(interface{ Parent() item.Item })
	return ok && p.Parent() != nil
}
