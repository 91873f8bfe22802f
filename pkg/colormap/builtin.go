package colormap

import "math"

// builtinGenerators produces the DS9-compatible colormap family. Each
// generator returns the control-point table for one map.
var builtinGenerators = map[string]func() []RGB{
	"grey":      genGrey,
	"gray":      genGrey,
	"heat":      genHeat,
	"cool":      genCool,
	"rainbow":   genRainbow,
	"bb":        genBB,
	"he":        genHE,
	"aips0":     genAIPS0,
	"staircase": genStaircase,
	"color":     genColor,
	"a":         genA,
	"b":         genB,
	"sls":       genSLS,
	"hsv":       genHSV,
	"standard":  genGrey,
	"red":       genRed,
	"green":     genGreen,
	"blue":      genBlue,
	"i8":        genI8,
	"viridis":   genViridis,
	"plasma":    genPlasma,
	"inferno":   genInferno,
	"magma":     genMagma,
}

const tableSize = 256

// ramp builds a full-size table from a per-position function, t in [0,1].
func ramp(f func(t float64) RGB) []RGB {
	out := make([]RGB, tableSize)
	for i := range out {
		t := float64(i) / float64(tableSize-1)
		out[i] = clipRGB(f(t))
	}
	return out
}

func clipRGB(c RGB) RGB {
	return RGB{R: clip01(c.R), G: clip01(c.G), B: clip01(c.B)}
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func genGrey() []RGB {
	return ramp(func(t float64) RGB { return RGB{t, t, t} })
}

func genRed() []RGB {
	return ramp(func(t float64) RGB { return RGB{t, 0, 0} })
}

func genGreen() []RGB {
	return ramp(func(t float64) RGB { return RGB{0, t, 0} })
}

func genBlue() []RGB {
	return ramp(func(t float64) RGB { return RGB{0, 0, t} })
}

// genA is the DS9 "a" map, a blue-to-white ramp.
func genA() []RGB {
	return ramp(func(t float64) RGB { return RGB{t, t, 1} })
}

// genB is the DS9 "b" map, a red-to-white ramp.
func genB() []RGB {
	return ramp(func(t float64) RGB { return RGB{1, t, t} })
}

func genCool() []RGB {
	return ramp(func(t float64) RGB { return RGB{t, 1 - t, 1} })
}

// genHeat ramps black through red and yellow to white.
func genHeat() []RGB {
	return ramp(func(t float64) RGB {
		switch {
		case t < 0.33:
			return RGB{t * 3, 0, 0}
		case t < 0.67:
			return RGB{1, (t - 0.33) * 3, 0}
		default:
			return RGB{1, 1, (t - 0.67) * 3}
		}
	})
}

// genBB approximates blackbody radiation: black, red, orange, yellow, white.
func genBB() []RGB {
	return ramp(func(t float64) RGB {
		switch {
		case t < 0.25:
			return RGB{t * 4, 0, 0}
		case t < 0.5:
			return RGB{1, (t - 0.25) * 4, 0}
		case t < 0.75:
			return RGB{1, 1, (t - 0.5) * 4}
		default:
			return RGB{1, 1, 1}
		}
	})
}

func genRainbow() []RGB {
	return ramp(func(t float64) RGB {
		switch {
		case t < 0.2:
			return RGB{1, t * 5, 0}
		case t < 0.4:
			return RGB{1 - (t-0.2)*5, 1, 0}
		case t < 0.6:
			return RGB{0, 1, (t - 0.4) * 5}
		case t < 0.8:
			return RGB{0, 1 - (t-0.6)*5, 1}
		default:
			return RGB{(t - 0.8) * 5, 0, 1}
		}
	})
}

func genHE() []RGB {
	return ramp(func(t float64) RGB {
		return RGB{
			0.5 * (1 + math.Sin(2*math.Pi*t)),
			0.5 * (1 + math.Sin(2*math.Pi*t+2*math.Pi/3)),
			0.5 * (1 + math.Sin(2*math.Pi*t+4*math.Pi/3)),
		}
	})
}

func genAIPS0() []RGB {
	return ramp(func(t float64) RGB {
		switch {
		case t < 0.125:
			return RGB{0, 0, t * 8}
		case t < 0.25:
			return RGB{0, (t - 0.125) * 8, 1}
		case t < 0.375:
			return RGB{0, 1, 1 - (t-0.25)*8}
		case t < 0.5:
			return RGB{(t - 0.375) * 8, 1, 0}
		case t < 0.625:
			return RGB{1, 1 - (t-0.5)*8, 0}
		case t < 0.75:
			return RGB{1, 0, (t - 0.625) * 8}
		case t < 0.875:
			return RGB{1, (t - 0.75) * 8, 1}
		default:
			return RGB{1, 1, 1}
		}
	})
}

// genStaircase quantizes the range into 16 distinct color steps.
func genStaircase() []RGB {
	out := make([]RGB, tableSize)
	const numSteps = 16
	for i := range out {
		step := i * numSteps / tableSize
		out[i] = clipRGB(RGB{
			float64(step%4) / 3,
			float64((step/4)%4) / 3,
			float64(step/8) / 2,
		})
	}
	return out
}

func genColor() []RGB {
	return ramp(func(t float64) RGB {
		return RGB{
			math.Abs(math.Sin(t * math.Pi)),
			math.Abs(math.Sin(t*math.Pi + math.Pi/3)),
			math.Abs(math.Sin(t*math.Pi + 2*math.Pi/3)),
		}
	})
}

// genSLS ramps blue, cyan, green, yellow, red.
func genSLS() []RGB {
	return ramp(func(t float64) RGB {
		switch {
		case t < 0.25:
			return RGB{0, t * 4, 1}
		case t < 0.5:
			return RGB{0, 1, 1 - (t-0.25)*4}
		case t < 0.75:
			return RGB{(t - 0.5) * 4, 1, 0}
		default:
			return RGB{1, 1 - (t-0.75)*4, 0}
		}
	})
}

// genHSV sweeps the hue circle at full saturation and value.
func genHSV() []RGB {
	out := make([]RGB, tableSize)
	for i := range out {
		h := float64(i) / float64(tableSize)
		x := 1 - math.Abs(math.Mod(h*6, 2)-1)
		var c RGB
		switch {
		case h < 1.0/6:
			c = RGB{1, x, 0}
		case h < 2.0/6:
			c = RGB{x, 1, 0}
		case h < 3.0/6:
			c = RGB{0, 1, x}
		case h < 4.0/6:
			c = RGB{0, x, 1}
		case h < 5.0/6:
			c = RGB{x, 0, 1}
		default:
			c = RGB{1, 0, x}
		}
		out[i] = c
	}
	return out
}

func genI8() []RGB {
	return ramp(func(t float64) RGB {
		segment := int(t * 8)
		return RGB{
			float64(segment&1)*0.5 + t*0.5,
			float64((segment>>1)&1)*0.5 + t*0.5,
			float64((segment>>2)&1)*0.5 + t*0.5,
		}
	})
}

func genViridis() []RGB {
	return []RGB{
		{0.267004, 0.004874, 0.329415},
		{0.253935, 0.265254, 0.529983},
		{0.163625, 0.471133, 0.558148},
		{0.134692, 0.658636, 0.517649},
		{0.477504, 0.821444, 0.318195},
		{0.993248, 0.906157, 0.143936},
	}
}

func genPlasma() []RGB {
	return []RGB{
		{0.050383, 0.029803, 0.527975},
		{0.417642, 0.000564, 0.658390},
		{0.692840, 0.165141, 0.564522},
		{0.881443, 0.392529, 0.383229},
		{0.988260, 0.652325, 0.211364},
		{0.940015, 0.975158, 0.131326},
	}
}

func genInferno() []RGB {
	return []RGB{
		{0.001462, 0.000466, 0.013866},
		{0.141935, 0.040119, 0.324538},
		{0.364543, 0.071579, 0.431994},
		{0.609330, 0.178249, 0.450586},
		{0.851384, 0.346636, 0.280346},
		{0.987622, 0.645320, 0.039886},
		{0.988362, 0.998364, 0.644924},
	}
}

func genMagma() []RGB {
	return []RGB{
		{0.001462, 0.000466, 0.013866},
		{0.171713, 0.067305, 0.370771},
		{0.445163, 0.122724, 0.506901},
		{0.716387, 0.214982, 0.475290},
		{0.944006, 0.377643, 0.365136},
		{0.997351, 0.676795, 0.429406},
		{0.987053, 0.991438, 0.749504},
	}
}
