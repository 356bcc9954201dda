package render

// Bresenham calls plot for every pixel of the line from (x0, y0) to
// (x1, y1). Steep lines are walked along y. The endpoints are always walked
// in increasing order so swapping them yields the same pixels, and a
// zero-length line plots a single pixel.
func Bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	steep := false
	if abs(x0-x1) < abs(y0-y1) {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
		steep = true
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	derror2 := abs(y1-y0) * 2
	ystep := 1
	if y1 < y0 {
		ystep = -1
	}

	error2 := 0
	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			plot(y, x)
		} else {
			plot(x, y)
		}
		error2 += derror2
		if error2 > dx {
			y += ystep
			error2 -= dx * 2
		}
	}
}

// Line draws a single-pixel line into dst.
func Line(dst Target, x0, y0, x1, y1 int, c Color) {
	Bresenham(x0, y0, x1, y1, func(x, y int) {
		dst.SetPixel(x, y, c)
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
