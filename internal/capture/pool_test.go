package capture

import (
	"errors"
	"testing"
)

func TestFramePool_GetPut(t *testing.T) {
	p := NewFramePool(2, 16)

	a, err := p.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(a) != 16 {
		t.Fatalf("buffer length = %d, want 16", len(a))
	}
	if p.InUse() != 1 {
		t.Errorf("InUse() = %d, want 1", p.InUse())
	}

	p.Put(a)
	if p.InUse() != 0 {
		t.Errorf("InUse() after Put = %d, want 0", p.InUse())
	}

	// The recycled buffer comes back instead of a fresh allocation.
	b, err := p.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if &a[0] != &b[0] {
		t.Error("pool did not recycle the returned buffer")
	}
}

func TestFramePool_ExhaustsWhenFramesNotReleased(t *testing.T) {
	p := NewFramePool(2, 16)

	if _, err := p.Get(); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := p.Get(); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if _, err := p.Get(); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("Get() error = %v, want ErrPoolExhausted", err)
	}
}

func TestFramePool_RecoversAfterRelease(t *testing.T) {
	p := NewFramePool(1, 16)

	buf, err := p.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := p.Get(); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("Get() error = %v, want ErrPoolExhausted", err)
	}

	p.Put(buf)
	if _, err := p.Get(); err != nil {
		t.Errorf("Get() after release error = %v", err)
	}
}

func TestFramePool_DropsForeignBuffers(t *testing.T) {
	p := NewFramePool(1, 16)

	p.Put(make([]byte, 8)) // wrong size, must not enter the pool

	buf, err := p.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(buf) != 16 {
		t.Errorf("buffer length = %d, want 16", len(buf))
	}
}

func TestFramePool_DefaultSize(t *testing.T) {
	p := NewFramePool(0, 16)

	for i := 0; i < DefaultPoolSize; i++ {
		if _, err := p.Get(); err != nil {
			t.Fatalf("Get() %d error = %v", i, err)
		}
	}
	if _, err := p.Get(); !errors.Is(err, ErrPoolExhausted) {
		t.Errorf("Get() error = %v, want ErrPoolExhausted", err)
	}
}
