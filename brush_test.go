package drawlist

import "testing"

func TestBrushIsGradient(t *testing.T) {
	tests := []struct {
		name string
		b    Brush
		want bool
	}{
		{"solid", SolidBrush(Red), false},
		{"vertical", VerticalGradient(Red, Blue, 10), true},
		{"horizontal", HorizontalGradient(Red, Blue, 10), true},
		{"zero", Brush{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.IsGradient(); got != tt.want {
				t.Errorf("IsGradient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBrushColorAt(t *testing.T) {
	v := VerticalGradient(Black, White, 10)
	if got := v.ColorAt(100, 0); got != Black {
		t.Errorf("vertical top = %v, want black", got)
	}
	if got := v.ColorAt(0, 5); got != RGBA(128, 128, 128, 255) {
		t.Errorf("vertical middle = %v", got)
	}
	if got := v.ColorAt(0, 50); got != White {
		t.Errorf("vertical past extent = %v, want white", got)
	}

	h := HorizontalGradient(Black, White, 4)
	if got := h.ColorAt(4, 0); got != White {
		t.Errorf("horizontal end = %v, want white", got)
	}
	if got := h.ColorAt(-3, 0); got != Black {
		t.Errorf("horizontal before origin = %v, want black", got)
	}

	s := SolidBrush(Green)
	if got := s.ColorAt(3, 3); got != Green {
		t.Errorf("solid = %v, want green", got)
	}
}
