package colorspace

import "math"

// converters maps (source, target) to a component transform. RGB and Lab
// compose through XYZ.
var converters = [3][3]func([3]float64) [3]float64{
	RGB: {RGB: identity, XYZ: rgbToXYZ, Lab: rgbToLab},
	XYZ: {RGB: xyzToRGB, XYZ: identity, Lab: xyzToLab},
	Lab: {RGB: labToRGB, XYZ: labToXYZ, Lab: identity},
}

type mat3 [3][3]float64

func (m mat3) mul(v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

var (
	rgbToXYZMat = mat3{
		{0.4124, 0.3576, 0.1805},
		{0.2126, 0.7152, 0.0722},
		{0.0193, 0.1192, 0.9505},
	}
	xyzToRGBMat = mat3{
		{3.2406, -1.5372, -0.4986},
		{-0.9689, 1.8758, 0.0415},
		{0.0557, -0.2040, 1.0570},
	}
)

// whiteD65 is the D65 reference white point.
var whiteD65 = [3]float64{0.95043, 1.00000, 1.08890}

func identity(c [3]float64) [3]float64 { return c }

func rgbToXYZ(c [3]float64) [3]float64 {
	return rgbToXYZMat.mul([3]float64{c[0] / 255, c[1] / 255, c[2] / 255})
}

// xyzToRGB scales to 0-255 and truncates toward zero. Out-of-gamut values
// keep their out-of-range components.
func xyzToRGB(c [3]float64) [3]float64 {
	v := xyzToRGBMat.mul(c)
	return [3]float64{math.Trunc(255 * v[0]), math.Trunc(255 * v[1]), math.Trunc(255 * v[2])}
}

func xyzToLab(c [3]float64) [3]float64 {
	fx := labF(c[0] / whiteD65[0])
	fy := labF(c[1] / whiteD65[1])
	fz := labF(c[2] / whiteD65[2])
	return [3]float64{116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)}
}

func labToXYZ(c [3]float64) [3]float64 {
	fy := (c[0] + 16) / 116
	fx := fy + c[1]/500
	fz := fy - c[2]/200
	return [3]float64{
		whiteD65[0] * labFInv(fx),
		whiteD65[1] * labFInv(fy),
		whiteD65[2] * labFInv(fz),
	}
}

func rgbToLab(c [3]float64) [3]float64 { return xyzToLab(rgbToXYZ(c)) }

func labToRGB(c [3]float64) [3]float64 { return xyzToRGB(labToXYZ(c)) }

// labF is the CIE forward transform, linear below the (6/29)^3 cutoff.
func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}
