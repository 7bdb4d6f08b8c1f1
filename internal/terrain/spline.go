package terrain

// Quartic shaping curves applied to the base rock noise.

func poly4(x, a, b, c, d, f float64) float64 {
	x2 := x * x
	return a*x2*x2 + b*x2*x + c*x2 + d*x + f
}

// continent is steep, flat, steep.
func continent(x float64) float64 {
	return poly4(x, 2.41, -2.376, -1.62, 2.33, 0.177)
}

func erosion(x float64) float64 {
	return poly4(x, -1.72, -1.465, 2.682, 0.454, -0.957)
}

func peakValley(x float64) float64 {
	return poly4(x, -1.585, -0.164, 1.924, 1.05, -0.422)
}
