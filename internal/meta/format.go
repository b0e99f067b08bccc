package meta

import (
	"math"
	"strconv"
	"strings"
)

// FormatShutter renders an exposure time in seconds the way cameras label it:
// whole-ish exposures as "2s", fractional ones as the nearest unit-numerator
// fraction, e.g. 0.004 -> "1/250s". sec must be positive.
func FormatShutter(sec float64) string {
	if sec >= 1 {
		return strconv.FormatFloat(sec, 'f', -1, 64) + "s"
	}
	return "1/" + strconv.Itoa(int(math.Round(1/sec))) + "s"
}

// FormatExposureComp renders an EV bias. Zero is "0 EV", positive values get
// an explicit plus sign. Callers must omit the field entirely when the value
// is absent rather than passing zero.
func FormatExposureComp(ev float64) string {
	s := strconv.FormatFloat(ev, 'f', -1, 64)
	if ev > 0 {
		s = "+" + s
	}
	return s + " EV"
}

// FormatFocal renders a focal length rounded to one decimal, e.g. "50mm",
// "26.5mm".
func FormatFocal(mm float64) string {
	return strconv.FormatFloat(math.Round(mm*10)/10, 'f', -1, 64) + "mm"
}

// FormatAperture renders an f-number verbatim, e.g. "f/1.8".
func FormatAperture(f float64) string {
	return "f/" + strconv.FormatFloat(f, 'f', -1, 64)
}

// CameraName joins make and model. Some vendors (Apple) repeat the make at
// the start of the model string; the duplicate is collapsed.
func CameraName(mk, model string) string {
	mk = strings.TrimSpace(mk)
	model = strings.TrimSpace(model)
	if mk == "" {
		return model
	}
	if model == "" {
		return mk
	}
	lm := strings.ToLower(model)
	lmk := strings.ToLower(mk)
	if lm == lmk || strings.HasPrefix(lm, lmk+" ") {
		return model
	}
	return mk + " " + model
}

// Display renders the present fields as the sparse human-readable exif map
// stored in the catalogue. Absent fields are left out, never null-filled.
func (f Fields) Display() map[string]string {
	out := make(map[string]string)

	var mk, model string
	if f.CameraMake != nil {
		mk = *f.CameraMake
	}
	if f.CameraModel != nil {
		model = *f.CameraModel
	}
	if name := CameraName(mk, model); name != "" {
		out["camera"] = name
	}
	if f.Lens != nil {
		out["lens"] = *f.Lens
	}
	if f.FocalLength != nil {
		out["focal_length"] = FormatFocal(*f.FocalLength)
	}
	if f.FocalLength35 != nil {
		out["focal_length_35mm"] = FormatFocal(*f.FocalLength35)
	}
	if f.Aperture != nil {
		out["aperture"] = FormatAperture(*f.Aperture)
	}
	// A non-positive exposure time is corrupt metadata, treated as absent.
	if f.ShutterSpeed != nil && *f.ShutterSpeed > 0 {
		out["shutter_speed"] = FormatShutter(*f.ShutterSpeed)
	}
	if f.ISO != nil {
		out["iso"] = strconv.Itoa(*f.ISO)
	}
	if f.ExposureComp != nil {
		out["exposure_compensation"] = FormatExposureComp(*f.ExposureComp)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
