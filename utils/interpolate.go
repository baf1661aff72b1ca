// SPDX-License-Identifier: EPL-2.0

// Package utils holds numeric helpers shared by the offline converters.
package utils

// CatmullRom interpolates between p[1] and p[2] at fraction x in [0,1],
// with p[0] and p[3] as the outer neighbours. The curve passes through
// every point and reproduces straight lines exactly.
func CatmullRom(p [4]float32, x float32) float32 {
	a := 1.5*(p[1]-p[2]) + 0.5*(p[3]-p[0])
	b := p[0] - 2.5*p[1] + 2*p[2] - 0.5*p[3]
	c := 0.5 * (p[2] - p[0])
	return ((a*x+b)*x+c)*x + p[1]
}
