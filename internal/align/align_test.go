package align

import "testing"

func TestForward(t *testing.T) {
	cases := []struct {
		n, a, want int
	}{
		{0, 4096, 0},
		{1, 4096, 4096},
		{4095, 4096, 4096},
		{4096, 4096, 4096},
		{4097, 4096, 8192},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
	}
	for _, c := range cases {
		if got := Forward(c.n, c.a); got != c.want {
			t.Errorf("Forward(%d, %d) = %d, want %d", c.n, c.a, got, c.want)
		}
	}
}

func TestBackward(t *testing.T) {
	cases := []struct {
		n, a, want int
	}{
		{0, 4096, 0},
		{1, 4096, 0},
		{4095, 4096, 0},
		{4096, 4096, 4096},
		{8191, 4096, 4096},
	}
	for _, c := range cases {
		if got := Backward(c.n, c.a); got != c.want {
			t.Errorf("Backward(%d, %d) = %d, want %d", c.n, c.a, got, c.want)
		}
	}
}

func TestIsAligned(t *testing.T) {
	if !IsAligned(8, 4) {
		t.Error("IsAligned(8, 4) = false, want true")
	}
	if IsAligned(3, 4) {
		t.Error("IsAligned(3, 4) = true, want false")
	}
	if !IsAligned(0, 4) {
		t.Error("IsAligned(0, 4) = false, want true")
	}
}

func TestIsPow2(t *testing.T) {
	for _, a := range []int{1, 2, 4, 4096, 1 << 20} {
		if !IsPow2(a) {
			t.Errorf("IsPow2(%d) = false, want true", a)
		}
	}
	for _, a := range []int{0, -1, 3, 12, 4097} {
		if IsPow2(a) {
			t.Errorf("IsPow2(%d) = true, want false", a)
		}
	}
}
