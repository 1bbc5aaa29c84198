// SPDX-License-Identifier: MIT

package matrix

import (
	"bufio"
	"io"
	"strconv"
)

// Render writes m to w in console form: a "<label>:" header line, then one
// line per row in which every value is followed by a single space.
// A 2×2 matrix [[1,2],[3,4]] labelled "C" renders as "C:\n1 2 \n3 4 \n".
func Render(w io.Writer, label string, m *Dense) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(label)
	bw.WriteString(":\n")
	var scratch [16]byte
	for i := 0; i < m.r; i++ {
		row := m.data[i*m.c : (i+1)*m.c]
		for _, v := range row {
			bw.Write(strconv.AppendInt(scratch[:0], int64(v), 10))
			bw.WriteByte(' ')
		}
		bw.WriteByte('\n')
	}

	return bw.Flush() // bufio keeps the first write error; Flush reports it
}
