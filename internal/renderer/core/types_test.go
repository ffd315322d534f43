package core

import "testing"

func TestColorFromInt(t *testing.T) {
	c := ColorFromInt(0x123456)
	if c != (Color{R: 0x12, G: 0x34, B: 0x56}) {
		t.Errorf("ColorFromInt = %v", c)
	}
	if c.Int() != 0x123456 {
		t.Errorf("Int() = %#x, want 0x123456", c.Int())
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff0000", Color{R: 255}, false},
		{"#00FF80", Color{G: 255, B: 128}, false},
		{"#fff", ColorWhite, false},
		{"red", Color{}, true},
		{"#12345", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ColorFromHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ColorFromHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorBlendEndpoints(t *testing.T) {
	a, b := ColorBlack, ColorWhite
	if got := a.Blend(b, 0); got != a {
		t.Errorf("Blend(0) = %v, want %v", got, a)
	}
	if got := a.Blend(b, 1); got != b {
		t.Errorf("Blend(1) = %v, want %v", got, b)
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		a, b Rect
		want Rect
	}{
		{NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), NewRect(5, 5, 5, 5)},
		{NewRect(0, 0, 10, 10), NewRect(10, 0, 5, 5), Rect{}},
		{NewRect(2, 2, 4, 4), NewRect(0, 0, 10, 10), NewRect(2, 2, 4, 4)},
	}

	for _, tt := range tests {
		if got := tt.a.Intersect(tt.b); got != tt.want {
			t.Errorf("%v.Intersect(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
	if NewRect(0, 0, 3, 3).Overlaps(NewRect(3, 3, 1, 1)) {
		t.Error("touching rects should not overlap")
	}
}
