package normalize

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithCollegeOffset sets the first college column of the wide layout.
func WithCollegeOffset(col int) Option {
	return func(n *Normalizer) {
		if col >= 0 {
			n.collegeOffset = col
		}
	}
}

// WithPosterColumn sets the poster column of the wide layout. -1 selects the
// last column of the college-name row.
func WithPosterColumn(col int) Option {
	return func(n *Normalizer) {
		if col >= lastColumn {
			n.posterColumn = col
		}
	}
}
