package drawlist

import "testing"

func TestAtlasLookupSortsDefensively(t *testing.T) {
	names := []string{"play", "stop", "loop", "record"}
	rects := []AtlasRect{
		{X: 0, Y: 0, Width: 16, Height: 16},
		{X: 16, Y: 0, Width: 8, Height: 8},
		{X: 32, Y: 0, Width: 12, Height: 10},
		{X: 48, Y: 0, Width: 16, Height: 4},
	}
	b := newAtlasBitmap(3, 64, 16, false, names, rects)

	for i, n := range names {
		idx := b.Lookup(n)
		if idx < 0 {
			t.Fatalf("Lookup(%q) = -1", n)
		}
		if b.Name(idx) != n {
			t.Errorf("Name(Lookup(%q)) = %q", n, b.Name(idx))
		}
		if b.Rect(idx) != rects[i] {
			t.Errorf("Rect(%q) = %v, want %v", n, b.Rect(idx), rects[i])
		}
	}
	if got := b.Lookup("pause"); got != -1 {
		t.Errorf("Lookup(missing) = %d, want -1", got)
	}
	if got := b.Lookup("zzz"); got != -1 {
		t.Errorf("Lookup(past end) = %d, want -1", got)
	}
	// The caller's slices are not reordered.
	if names[0] != "play" {
		t.Error("newAtlasBitmap sorted the caller's names in place")
	}
}

func TestBitmapUV(t *testing.T) {
	rects := []AtlasRect{{X: 16, Y: 0, Width: 16, Height: 8}}

	sharp := newAtlasBitmap(1, 64, 32, false, []string{"a"}, rects)
	u0, v0, u1, v1 := sharp.UV(0)
	if u0 != 0.25 || v0 != 0 || u1 != 0.5 || v1 != 0.25 {
		t.Errorf("unfiltered UV = %v,%v %v,%v", u0, v0, u1, v1)
	}

	filtered := newAtlasBitmap(1, 64, 32, true, []string{"a"}, rects)
	u0, v0, u1, v1 = filtered.UV(0)
	if u0 != 16.5/64 || v0 != 0.5/32 || u1 != 31.5/64 || v1 != 7.5/32 {
		t.Errorf("filtered UV = %v,%v %v,%v", u0, v0, u1, v1)
	}
	for _, v := range []float32{u0, v0, u1, v1} {
		if v < 0 || v > 1 {
			t.Errorf("UV %v outside [0,1]", v)
		}
	}

	simple := &Bitmap{ID: 2, Width: 10, Height: 10}
	if u0, v0, u1, v1 := simple.UV(0); u0 != 0 || v0 != 0 || u1 != 1 || v1 != 1 {
		t.Errorf("simple UV = %v,%v %v,%v", u0, v0, u1, v1)
	}
	if r := simple.Rect(0); r.Width != 10 || r.Height != 10 {
		t.Errorf("simple Rect = %v", r)
	}
	if simple.Lookup("a") != -1 || simple.Len() != 0 {
		t.Error("simple bitmap behaves like an atlas")
	}
}

func TestAtlasRef(t *testing.T) {
	b := newAtlasBitmap(1, 32, 32, false, []string{"x"}, []AtlasRect{{Width: 5, Height: 6}})
	ref := AtlasRef{Atlas: b, Index: 0}
	if !ref.Valid() {
		t.Fatal("ref not valid")
	}
	if w, h := ref.Size(); w != 5 || h != 6 {
		t.Errorf("Size = %d,%d", w, h)
	}
	if (AtlasRef{Atlas: b, Index: 1}).Valid() || (AtlasRef{}).Valid() {
		t.Error("out of range ref reported valid")
	}
}
