package sentinel1

// Calibrated converts a scene into a GeoTIFF of calibrated backscatter in dB,
// one band per available polarization (HH first).
func Calibrated(inputPath, outputPath string) (err error) {
	s, err := NewScene(inputPath)
	if err != nil {
		return
	}
	defer s.Close()
	if err = s.ReadData(); err != nil {
		return
	}
	var layers []Grid
	for _, b := range s.Bands() {
		layers = append(layers, b.Data)
	}
	return WriteDataGeotiff(layers, outputPath, s.Georef, 1, NODATA_DB)
}

// Grayscale converts one polarization of a scene into a single-band GeoTIFF,
// clip-normalized and scaled to the 1..251 display range with 0 as nodata.
func Grayscale(inputPath, outputPath string, pol Polarization) (err error) {
	s, err := NewScene(inputPath)
	if err != nil {
		return
	}
	defer s.Close()
	if err = s.ReadData(); err != nil {
		return
	}
	b, err := s.Band(pol)
	if err != nil {
		return
	}
	img := b.ClipNormalized()
	scaleToDisplayRange(img, b)
	return WriteDataGeotiff([]Grid{img}, outputPath, s.Georef, 1, 0)
}

// RGB converts a dual-pol scene into a three-band composite GeoTIFF: HH, HV
// and the HV-HH ratio, each scaled to the 1..251 display range with 0 as
// nodata.
func RGB(inputPath, outputPath string) (err error) {
	s, err := NewScene(inputPath)
	if err != nil {
		return
	}
	defer s.Close()
	if err = s.ReadData(); err != nil {
		return
	}
	hh, err := s.Band(HH)
	if err != nil {
		return
	}
	hv, err := s.Band(HV)
	if err != nil {
		return
	}
	r := hh.ClipNormalized()
	g := hv.ClipNormalized()
	ratio := NewGrid(r.X, r.Y)
	for i := range ratio.Data {
		v := (g.Data[i]-r.Data[i])*0.5 + 0.5
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		ratio.Data[i] = v
	}
	scaleToDisplayRange(r, hh)
	scaleToDisplayRange(g, hv)
	scaleToDisplayRange(ratio, hh)
	return WriteDataGeotiff([]Grid{r, g, ratio}, outputPath, s.Georef, 1, 0)
}

// ClipNormalized returns the band data clipped to its nominal display span
// and normalized to [0, 1].
func (b *Band) ClipNormalized() Grid {
	lo, hi := b.displaySpan()
	span := hi - lo
	out := NewGrid(b.Data.X, b.Data.Y)
	for i, v := range b.Data.Data {
		if v > hi {
			v = hi
		} else if v < lo {
			v = lo
		}
		out.Data[i] = (v - lo) / span
	}
	return out
}

func (b *Band) displaySpan() (lo, hi float32) {
	if b.Pol == HH {
		return HH_IMG_MIN, HH_IMG_MAX
	}
	return HV_IMG_MIN, HV_IMG_MAX
}

func scaleToDisplayRange(img Grid, b *Band) {
	for i := range img.Data {
		if b.Data.Data[i] == b.NoData {
			img.Data[i] = 0
		} else {
			img.Data[i] = img.Data[i]*250 + 1
		}
	}
}
