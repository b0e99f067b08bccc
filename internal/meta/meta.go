// Package meta reads capture metadata out of image bytes and formats it for
// the catalogue. Every field is optional: a photo with no usable EXIF block
// still ingests, it just carries less information.
//
// GPS and location tags are never read.
package meta

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Fields holds the capture parameters of one photo. Nil means the value was
// absent or unreadable, never "zero".
type Fields struct {
	Taken         *time.Time
	CameraMake    *string
	CameraModel   *string
	Lens          *string
	FocalLength   *float64
	FocalLength35 *float64
	Aperture      *float64
	ShutterSpeed  *float64 // seconds
	ISO           *int
	ExposureComp  *float64 // EV
}

// FromBytes extracts Fields from raw image bytes. Extraction is best-effort
// per field; an image without EXIF yields the zero Fields.
func FromBytes(data []byte) Fields {
	var f Fields

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return f
	}

	if t, err := x.DateTime(); err == nil {
		f.Taken = &t
	}
	if s, ok := stringTag(x, exif.Make); ok {
		f.CameraMake = &s
	}
	if s, ok := stringTag(x, exif.Model); ok {
		f.CameraModel = &s
	}
	if s, ok := stringTag(x, exif.LensModel); ok {
		f.Lens = &s
	}
	if v, ok := ratTag(x, exif.FocalLength); ok {
		f.FocalLength = &v
	}
	if n, ok := intTag(x, exif.FocalLengthIn35mmFilm); ok && n > 0 {
		v := float64(n)
		f.FocalLength35 = &v
	}
	if v, ok := ratTag(x, exif.FNumber); ok {
		f.Aperture = &v
	}
	if v, ok := ratTag(x, exif.ExposureTime); ok {
		f.ShutterSpeed = &v
	}
	if n, ok := intTag(x, exif.ISOSpeedRatings); ok {
		f.ISO = &n
	}
	if v, ok := ratTag(x, exif.ExposureBiasValue); ok {
		f.ExposureComp = &v
	}

	return f
}

// Merge overlays src on top of f: values present in src win. Used to combine
// a library record's native metadata with what the exported bytes carry.
func (f Fields) Merge(src Fields) Fields {
	out := f
	if src.Taken != nil {
		out.Taken = src.Taken
	}
	if src.CameraMake != nil {
		out.CameraMake = src.CameraMake
	}
	if src.CameraModel != nil {
		out.CameraModel = src.CameraModel
	}
	if src.Lens != nil {
		out.Lens = src.Lens
	}
	if src.FocalLength != nil {
		out.FocalLength = src.FocalLength
	}
	if src.FocalLength35 != nil {
		out.FocalLength35 = src.FocalLength35
	}
	if src.Aperture != nil {
		out.Aperture = src.Aperture
	}
	if src.ShutterSpeed != nil {
		out.ShutterSpeed = src.ShutterSpeed
	}
	if src.ISO != nil {
		out.ISO = src.ISO
	}
	if src.ExposureComp != nil {
		out.ExposureComp = src.ExposureComp
	}
	return out
}

func stringTag(x *exif.Exif, name exif.FieldName) (string, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return "", false
	}
	s, err := tag.StringVal()
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func ratTag(x *exif.Exif, name exif.FieldName) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	if tag.Format() == tiff.IntVal {
		n, err := tag.Int(0)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

func intTag(x *exif.Exif, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	n, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return n, true
}
