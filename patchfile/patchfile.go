// Package patchfile implements the File/Base save pipeline (C7):
// a Base object tracks whether it has unsaved changes and which File
// it's currently bound to, and Save moves it through a
// claim-convert-write-rename sequence. Save migrates no sample data;
// Close and CloseList take an optional migration hook.
// The atomic temp-then-rename step is ported directly from
// session/cache_store.go's index/details persistence.
package patchfile

import (
	"os"
	"path/filepath"

	"github.com/shaban/instpatch/converter"
	"github.com/shaban/instpatch/errs"
	"github.com/shaban/instpatch/filepool"
)

// File is the saved (or about-to-be-saved) on-disk counterpart of a
// Base object: a claimed path plus the file type name a converter was
// found for.
type File struct {
	handle   *filepool.Handle
	fileType string
}

func (f *File) Path() string     { return f.handle.Path() }
func (f *File) FileType() string { return f.fileType }

// Base is embedded by any root item that can be saved to its own file
// (an instrument collection, a bank...). It is distinct from
// item.Base: Base here tracks save state, not tree position.
type Base struct {
	typeName string
	file     *File
	changed  bool
	saved    bool

	encode func(obj any) ([]byte, error)
}

// NewBase constructs a Base for an object of the given dynamic type
// name, whose bytes are produced by encode when saved.
func NewBase(typeName string, encode func(obj any) ([]byte, error)) *Base {
	return &Base{typeName: typeName, encode: encode}
}

func (b *Base) TypeName() string { return b.typeName }
func (b *Base) Changed() bool    { return b.changed }
func (b *Base) Saved() bool      { return b.saved }

// MarkChanged flags the object as having unsaved modifications.
func (b *Base) MarkChanged() { b.changed = true }

// File returns the currently bound File, or nil if never saved.
func (b *Base) File() *File { return b.file }

// Save writes obj to filename (or the currently bound file's path if
// filename is empty), following spec.md §4.6:
//  1. resolve the target path, defaulting to the current file's path
//  2. claim the path in the file pool (errs.Busy if another Base owns it)
//  3. find a converter from typeName to the destination file type
//  4. encode to a temp file in the same directory
//  5. atomically rename the temp file over the destination
//  6. bind (or rebind) the File, unless saveACopy is set
//  7. clear the changed flag and mark saved
//
// saveACopy writes the bytes out without adopting filename as this
// object's file going forward, mirroring ipatch_base_save_a_copy.
func (b *Base) Save(obj any, filename, fileType string, saveACopy bool, pool *filepool.Pool) error {
	if pool == nil {
		pool = filepool.Default
	}

	path := filename
	if path == "" {
		if b.file == nil {
			return errs.New(errs.Invalid, b.typeName, errNoFilename)
		}
		path = b.file.Path()
	}

	var owner *filepool.Handle
	if b.file != nil && b.file.Path() == mustAbs(path) {
		owner = b.file.handle
	}
	handle, err := pool.Claim(path, owner)
	if err != nil {
		return err
	}

	destType := fileType
	if destType == "" && b.file != nil {
		destType = b.file.fileType
	}
	if destType != "" {
		if _, ok := converter.Lookup(b.typeName, destType); !ok {
			pool.Release(handle)
			return errs.New(errs.Unsupported, b.typeName, errNoConverter)
		}
	}

	data, err := b.encode(obj)
	if err != nil {
		pool.Release(handle)
		return errs.New(errs.Fail, b.typeName, err)
	}

	tmp := handle.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		pool.Release(handle)
		return errs.New(errs.IO, handle.Path(), err)
	}
	if err := os.Rename(tmp, handle.Path()); err != nil {
		pool.Release(handle)
		return errs.New(errs.IO, handle.Path(), err)
	}

	if !saveACopy {
		if b.file != nil && b.file.handle != handle {
			pool.Release(b.file.handle)
		}
		b.file = &File{handle: handle, fileType: destType}
		b.changed = false
		b.saved = true
	} else {
		pool.Release(handle)
	}
	return nil
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const (
	errNoFilename  = sentinelErr("file name not supplied and none assigned")
	errNoConverter = sentinelErr("no converter available for requested file type")
)
