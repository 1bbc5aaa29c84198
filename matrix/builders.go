// SPDX-License-Identifier: MIT

package matrix

// NewFilled returns a rows×cols matrix with every element set to v.
func NewFilled(rows, cols int, v int32) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	m.Fill(v)

	return m, nil
}

// NewSequential returns an n×n matrix holding 1, 2, ..., n*n in row-major
// order, i.e. element (i, j) = 1 + n*i + j. The value wraps once n*n exceeds
// the int32 range, consistent with the package numeric policy.
func NewSequential(n int) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = int32(i + 1)
	}

	return m, nil
}
