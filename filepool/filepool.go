// Package filepool implements the process-wide path-uniqueness
// registry (spec.md §5): only one open File object may claim a given
// absolute path at a time, so two Base objects can never race each
// other to overwrite the same file. Grounded on IpatchBase.c's
// ipatch_file_pool_lookup / IPATCH_ERROR_BUSY check in its save path.
package filepool

import (
	"path/filepath"
	"sync"

	"github.com/shaban/instpatch/errs"
)

// Handle is the opaque token filepool hands back for a claimed path.
// Release it via Pool.Release when the owning File object closes.
type Handle struct {
	pool *Pool
	path string
}

// Pool is a process-wide (or test-scoped) registry of open file paths.
// The zero value is ready to use; Default is the process-wide instance.
type Pool struct {
	mu    sync.Mutex
	paths map[string]*Handle
}

var Default = &Pool{}

func New() *Pool { return &Pool{} }

// Lookup returns the handle currently claiming path, or nil.
func (p *Pool) Lookup(path string) *Handle {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paths == nil {
		return nil
	}
	return p.paths[abs]
}

// Claim registers path as open, returning errs.Busy if some other
// handle already owns it. Saving over a path already claimed by the
// caller's own handle (same owner re-saving) is allowed by passing
// owner — pass nil when claiming a brand-new path.
func (p *Pool) Claim(path string, owner *Handle) (*Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paths == nil {
		p.paths = make(map[string]*Handle)
	}
	if existing, ok := p.paths[abs]; ok && existing != owner {
		return nil, errs.New(errs.Busy, abs, errBusy(abs))
	}
	h := &Handle{pool: p, path: abs}
	p.paths[abs] = h
	return h, nil
}

// Release drops a handle's claim on its path. A nil handle is a no-op.
func (p *Pool) Release(h *Handle) {
	if h == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paths != nil && p.paths[h.path] == h {
		delete(p.paths, h.path)
	}
}

func (h *Handle) Path() string { return h.path }

type busyErr string

func (e busyErr) Error() string { return "refusing to save over other open file '" + string(e) + "'" }

func errBusy(path string) error { return busyErr(path) }
