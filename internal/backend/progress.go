package backend

import "io"

// ProgressFunc receives an upload's completed fraction in [0,1]. It may be
// called zero or more times; reported fractions never decrease.
type ProgressFunc func(fraction float64)

// progressReader wraps an upload body and reports the fraction read against a
// known total. A short final chunk can make byte math overshoot, so the
// fraction is clamped to 1 and only forwarded when it grows.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  float64
	fn    ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)
	if p.fn != nil && p.total > 0 {
		fraction := float64(p.read) / float64(p.total)
		if fraction > 1 {
			fraction = 1
		}
		if fraction > p.last {
			p.last = fraction
			p.fn(fraction)
		}
	}
	return n, err
}
