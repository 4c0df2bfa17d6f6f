package jersey

// Thresholds are the HSV bounds used to recognize grass. Hue is on OpenCV's 0-179 scale,
// saturation and value on 0-255. They are tuned for daylight broadcast pitches.
type Thresholds struct {
	HueMin float64
	HueMax float64
	SatMin float64
	ValMin float64
	//HueHalfWidth is how far from the estimated grass hue a pixel may be and still count as grass inside a player crop
	HueHalfWidth float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		HueMin:       30,
		HueMax:       80,
		SatMin:       40,
		ValMin:       40,
		HueHalfWidth: 10,
	}
}
