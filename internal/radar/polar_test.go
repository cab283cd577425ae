package radar

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestCartesianAxes(t *testing.T) {
	tests := []struct {
		angle, radius float64
		wantX, wantY  float64
	}{
		{0, 1, 0, -250},
		{90, 1, 250, 0},
		{180, 1, 0, 250},
		{270, 1, -250, 0},
		{360, 1, 0, -250},
		{-90, 0.5, -125, 0},
		{45, 0, 0, 0},
	}
	for _, tt := range tests {
		x, y := Cartesian(tt.angle, tt.radius, 250)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("Cartesian(%v, %v, 250) = (%v, %v), want (%v, %v)", tt.angle, tt.radius, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		359:  359,
		360:  0,
		725:  5,
		-30:  330,
		-360: 0,
	}
	for in, want := range tests {
		if got := NormalizeAngle(in); got != want {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", in, got, want)
		}
	}
	if NormalizeAngle(math.NaN()) != 0 || NormalizeAngle(math.Inf(-1)) != 0 {
		t.Error("non-finite angles should normalize to 0")
	}
}

func TestClampRadius(t *testing.T) {
	if ClampRadius(-0.2) != 0 || ClampRadius(1.7) != 1 || ClampRadius(0.4) != 0.4 || ClampRadius(math.NaN()) != 0 {
		t.Error("ClampRadius out of contract")
	}
}

func TestCartesianProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		angle := rapid.Float64Range(-1e6, 1e6).Draw(t, "angle")
		radius := rapid.Float64Range(-5, 5).Draw(t, "radius")
		rMax := rapid.Float64Range(1, 1000).Draw(t, "rMax")

		x1, y1 := Cartesian(angle, radius, rMax)
		x2, y2 := Cartesian(angle, radius, rMax)
		if x1 != x2 || y1 != y2 {
			t.Fatalf("not deterministic: (%v,%v) vs (%v,%v)", x1, y1, x2, y2)
		}

		dist := math.Hypot(x1, y1)
		want := ClampRadius(radius) * rMax
		if math.Abs(dist-want) > 1e-6*rMax {
			t.Fatalf("distance %v, want %v", dist, want)
		}

		a := NormalizeAngle(angle)
		if a < 0 || a >= 360 {
			t.Fatalf("NormalizeAngle(%v) = %v out of range", angle, a)
		}
		xs, ys := Cartesian(a, radius, rMax)
		if math.Abs(xs-x1) > 1e-6*rMax || math.Abs(ys-y1) > 1e-6*rMax {
			t.Fatalf("angle %v and its normal form %v land apart", angle, a)
		}
	})
}
