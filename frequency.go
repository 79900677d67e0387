package lznf

import "math"

// saturation is the count at which a bucket triggers halving.
const saturation = math.MaxInt32 / 2

// Frequencies counts how often each byte value occurs in a stream.
type Frequencies [256]int

// Add counts one occurrence of b. If the bucket for b has reached
// saturation, every bucket above 10 is halved first. Small counts are left
// alone so rare symbols keep a leaf in the tree.
func (f *Frequencies) Add(b byte) {
	if f[b] >= saturation {
		halve(f)
	}
	f[b]++
}

// Count adds every byte of p.
func (f *Frequencies) Count(p []byte) {
	for _, b := range p {
		f.Add(b)
	}
}

func halve(f *Frequencies) {
	for i, c := range f {
		if c > 10 {
			f[i] = c / 2
		}
	}
}
