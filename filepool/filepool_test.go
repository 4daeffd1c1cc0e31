package filepool

import (
	"testing"

	"github.com/shaban/instpatch/errs"
)

func TestClaimRejectsCollision(t *testing.T) {
	p := New()
	if _, err := p.Claim("/tmp/a.sf2", nil); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	_, err := p.Claim("/tmp/a.sf2", nil)
	if !errs.Is(err, errs.Busy) {
		t.Fatalf("expected Busy, got %v", err)
	}
}

func TestClaimAllowsSameOwnerResave(t *testing.T) {
	p := New()
	h, err := p.Claim("/tmp/b.sf2", nil)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := p.Claim("/tmp/b.sf2", h); err != nil {
		t.Fatalf("re-claim by same owner should succeed: %v", err)
	}
}

func TestReleaseFreesPath(t *testing.T) {
	p := New()
	h, err := p.Claim("/tmp/c.sf2", nil)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	p.Release(h)
	if p.Lookup("/tmp/c.sf2") != nil {
		t.Fatal("expected path to be free after release")
	}
	if _, err := p.Claim("/tmp/c.sf2", nil); err != nil {
		t.Fatalf("reclaim after release: %v", err)
	}
}
