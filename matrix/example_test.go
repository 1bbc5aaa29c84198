package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/rowmul/matrix"
)

func ExampleNewSequential() {
	m, _ := matrix.NewSequential(3)
	fmt.Print(m)
	// Output:
	// [1, 2, 3]
	// [4, 5, 6]
	// [7, 8, 9]
}

func ExampleDense_RowBlock() {
	m, _ := matrix.FromRows([][]int32{{1, 2}, {3, 4}, {5, 6}})
	block, _ := m.RowBlock(1, 3)
	fmt.Println(block)
	// Output:
	// [3 4 5 6]
}
