package sentinel1

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func calibrationXML(lines []int, pixels string, gamma string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><calibration><adsHeader><mode>EW</mode></adsHeader><calibrationVectorList count="`)
	fmt.Fprintf(&sb, "%d", len(lines))
	sb.WriteString(`">`)
	n := len(strings.Fields(pixels))
	for _, line := range lines {
		fmt.Fprintf(&sb, `<calibrationVector><azimuthTime>2020-01-07T03:39:38.000000</azimuthTime><line>%d</line>`, line)
		fmt.Fprintf(&sb, `<pixel count="%d">%s</pixel>`, n, pixels)
		for _, tag := range []string{"sigmaNought", "betaNought", "gamma", "dn"} {
			vals := gamma
			if tag == "dn" {
				vals = strings.Repeat("1087.0 ", n-1) + "1087.0"
			}
			fmt.Fprintf(&sb, `<%s count="%d">%s</%s>`, tag, n, vals, tag)
		}
		sb.WriteString(`</calibrationVector>`)
	}
	sb.WriteString(`</calibrationVectorList></calibration>`)
	return sb.String()
}

func TestParseCalibration(t *testing.T) {
	doc := calibrationXML([]int{0, 100, 200}, "0 50 99", "310.0 310.0 310.0")
	lut, err := ParseCalibration(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(lut.Lines) != 3 || len(lut.Pixels) != 3 {
		t.Fatalf("unexpected grid size: %d x %d", len(lut.Lines), len(lut.Pixels))
	}
	if lut.Lines[2] != 200 || lut.Pixels[1] != 50 {
		t.Fatal("grid coordinates not parsed")
	}
	if lut.Gamma[1][1] != 310 {
		t.Fatalf("gamma not parsed: %v", lut.Gamma)
	}
	if lut.DN0() != 1087 {
		t.Fatalf("dn constant not parsed: %v", lut.DN0())
	}
	if lut.GainMax() != 310 {
		t.Fatalf("wrong gain max: %v", lut.GainMax())
	}
}

func TestParseCalibrationMalformed(t *testing.T) {
	cases := []string{
		`not xml at all`,
		`<calibration><calibrationVectorList count="0"></calibrationVectorList></calibration>`,
		// non-increasing lines
		calibrationXML([]int{100, 100}, "0 50 99", "310.0 310.0 310.0"),
		// count attribute disagrees with the value list
		strings.Replace(calibrationXML([]int{0, 100}, "0 50 99", "310.0 310.0 310.0"), `pixel count="3"`, `pixel count="4"`, 1),
	}
	for i, doc := range cases {
		if _, err := ParseCalibration(strings.NewReader(doc)); !errors.Is(err, ErrCalibrationParse) {
			t.Fatalf("case %d: expected ErrCalibrationParse, got %v", i, err)
		}
	}
}

func TestInterpolateGrid(t *testing.T) {
	xs := []float64{0, 4}
	ys := []float64{0, 4}
	values := [][]float64{{0, 4}, {8, 12}}
	grid, err := InterpolateGrid(xs, ys, values, 6, 6)
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		ix, iy int
		want   float32
	}{
		{0, 0, 0},  // node
		{4, 0, 4},  // node
		{0, 4, 8},  // node
		{4, 4, 12}, // node
		{2, 2, 6},  // bilinear midpoint
		{2, 0, 2},  // edge midpoint
		{5, 5, 12}, // beyond the last node, constant
	}
	for _, c := range checks {
		if got := grid.At(c.ix, c.iy); math.Abs(float64(got-c.want)) > 1e-6 {
			t.Fatalf("grid(%d,%d) = %v, want %v", c.ix, c.iy, got, c.want)
		}
	}
}

func TestInterpolateGridBadInput(t *testing.T) {
	if _, err := InterpolateGrid([]float64{0}, []float64{0, 1}, [][]float64{{1}, {2}}, 2, 2); err == nil {
		t.Fatal("expected error for single-node axis")
	}
	if _, err := InterpolateGrid([]float64{1, 0}, []float64{0, 1}, [][]float64{{1, 2}, {3, 4}}, 2, 2); err == nil {
		t.Fatal("expected error for decreasing axis")
	}
	if _, err := InterpolateGrid([]float64{0, 1}, []float64{0, 1}, [][]float64{{1, 2}}, 2, 2); err == nil {
		t.Fatal("expected error for row count mismatch")
	}
}

func TestCalibrateConstant(t *testing.T) {
	const (
		x, y      = 8, 6
		dnVal     = 100.0
		gainVal   = 10.0
		wantDB    = 20.0 // 10*log10(100^2 / 10^2)
		tolerance = 1e-6
	)
	dn := NewGrid(x, y)
	gain := NewGrid(x, y)
	for i := range dn.Data {
		dn.Data[i] = dnVal
		gain.Data[i] = gainVal
	}
	dn.Data[0] = 0 // nodata pixel
	out := calibrate(dn, gain, Grid{}, gainVal, NODATA_DB)
	if out.Data[0] != NODATA_DB {
		t.Fatalf("zero DN pixel not masked: %v", out.Data[0])
	}
	for i := 1; i < len(out.Data); i++ {
		if math.Abs(float64(out.Data[i])-wantDB) > tolerance {
			t.Fatalf("pixel %d: got %v dB, want %v", i, out.Data[i], wantDB)
		}
	}
}

func TestCalibrateClipsAtThreshold(t *testing.T) {
	dn := NewGrid(2, 1)
	gain := NewGrid(2, 1)
	noise := NewGrid(2, 1)
	dn.Data[0], dn.Data[1] = 10, 1000
	gain.Data[0], gain.Data[1] = 100, 100
	noise.Data[0], noise.Data[1] = 1e6, 0 // noise exceeds the first pixel's power
	out := calibrate(dn, gain, noise, 100, NODATA_DB)
	wantClipped := float32(10 * math.Log10(1.0/100))
	if math.Abs(float64(out.Data[0]-wantClipped)) > 1e-6 {
		t.Fatalf("over-subtracted pixel not clipped: got %v, want %v", out.Data[0], wantClipped)
	}
	want := float32(10 * math.Log10(1000 * 1000 / (100.0 * 100.0)))
	if math.Abs(float64(out.Data[1]-want)) > 1e-6 {
		t.Fatalf("clean pixel: got %v, want %v", out.Data[1], want)
	}
}
