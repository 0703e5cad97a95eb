package transform

import "golang.org/x/image/math/f64"

// Matrices use the x/image layout: x' = m[0]*x + m[1]*y + m[2],
// y' = m[3]*x + m[4]*y + m[5].

// Identity returns the identity transform.
func Identity() f64.Aff3 {
	return f64.Aff3{1, 0, 0, 0, 1, 0}
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) f64.Aff3 {
	return f64.Aff3{sx, 0, 0, 0, sy, 0}
}

// Translate returns a translation.
func Translate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

// Mul returns a*b, the transform that applies b first and then a.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply maps (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// LinearScale reports the average magnitude m applies to lengths. Flips and
// translations leave it unchanged.
func LinearScale(m f64.Aff3) float64 {
	sx := abs(m[0]) + abs(m[1])
	sy := abs(m[3]) + abs(m[4])
	return (sx + sy) / 2
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
