package drawlist

import "testing"

func TestTransformApply(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		in   Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Identity().Translated(10, -2), Pt(3, 4), Pt(13, 2)},
		{"scale", Identity().Then(0, 0, 2, 3), Pt(3, 4), Pt(6, 12)},
		{"translate then scale", Identity().Then(5, 5, 2, 2), Pt(1, 1), Pt(7, 7)},
		{"nested translate is scaled", Identity().Then(0, 0, 2, 2).Translated(1, 1), Pt(0, 0), Pt(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Apply(tt.in); got != tt.want {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformApplyRect(t *testing.T) {
	tr := Identity().Then(10, 20, 2, -1)
	got := tr.ApplyRect(R(1, 1, 4, 3))
	want := R(12, 19, 8, -3)
	if got != want {
		t.Errorf("ApplyRect = %v, want %v", got, want)
	}
	if tr.IsIdentity() {
		t.Error("IsIdentity() = true")
	}
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
}

func TestTransformStackRestoresExactly(t *testing.T) {
	s := newTransformStack()
	for i := 0; i < 100; i++ {
		s.push(s.current.Then(0.1, 0.3, 1.1, 0.9))
	}
	if s.depth() != 100 {
		t.Fatalf("depth = %d", s.depth())
	}
	for i := 0; i < 100; i++ {
		s.pop()
	}
	if s.current != Identity() {
		t.Errorf("current after balanced pops = %+v", s.current)
	}

	s.push(Identity().Translated(3, 3))
	s.reset()
	if s.depth() != 0 || !s.current.IsIdentity() {
		t.Errorf("reset left depth %d, current %+v", s.depth(), s.current)
	}
}
