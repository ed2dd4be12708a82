// SPDX-License-Identifier: MIT

// Package matrix - block-sparse storage (CSR over dense blocks).
//
// Purpose:
//   - Store only the non-null contact blocks of a large operator.
//   - index1 holds block-row pointers (len = block rows + 1); index2 holds
//     the block-column index of each stored block, ascending within a row.
//   - Row/column block boundaries are cumulative offsets (0, d0, d0+d1, ...).
//
// Determinism:
//   - Build orders blocks by (row, col); products visit them in that order.
//
// Complexity quicksheet:
//   - Block: O(1) on the diagonal, O(blocks in the row) elsewhere;
//     MulVec: O(Σ block entries);
//     At: O(log rows + blocks in the row).

package matrix

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// SparseBlock is a square block-sparse matrix.
type SparseBlock struct {
	n          int
	rowOffsets []int // len = block rows + 1
	colOffsets []int // len = block cols + 1
	index1     []int // block-row pointers into index2/blocks
	index2     []int // block-column index per stored block
	blocks     []*mat.Dense
	diag       []int // storage position of block (r, r), -1 when absent
}

var _ Matrix = (*SparseBlock)(nil)

func sbmErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("SparseBlock.%s(%d,%d): %w", method, row, col, err)
}

// UniformSizes returns count copies of dim, the block-size list of a
// problem whose contacts all share one dimension.
func UniformSizes(count, dim int) []int {
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = dim
	}

	return sizes
}

// SparseBlockBuilder collects blocks before freezing them into a SparseBlock.
type SparseBlockBuilder struct {
	rowOffsets []int
	colOffsets []int
	entries    map[[2]int]*mat.Dense
}

// NewSparseBlockBuilder declares the block structure. rowSizes and
// colSizes list the height of each block row and width of each block
// column; their sums must be equal (square operator).
//
// Errors: ErrBadShape (empty list or size <= 0), ErrNonSquare.
func NewSparseBlockBuilder(rowSizes, colSizes []int) (*SparseBlockBuilder, error) {
	rows, err := offsets(rowSizes)
	if err != nil {
		return nil, matrixErrorf("NewSparseBlockBuilder", err)
	}
	cols, err := offsets(colSizes)
	if err != nil {
		return nil, matrixErrorf("NewSparseBlockBuilder", err)
	}
	if rows[len(rows)-1] != cols[len(cols)-1] {
		return nil, matrixErrorf("NewSparseBlockBuilder", ErrNonSquare)
	}

	return &SparseBlockBuilder{rowOffsets: rows, colOffsets: cols, entries: make(map[[2]int]*mat.Dense)}, nil
}

func offsets(sizes []int) ([]int, error) {
	if len(sizes) == 0 {
		return nil, ErrBadShape
	}
	out := make([]int, len(sizes)+1)
	for i, s := range sizes {
		if s <= 0 {
			return nil, ErrBadShape
		}
		out[i+1] = out[i] + s
	}

	return out, nil
}

// Set stores a copy of block at (row, col).
//
// Errors: ErrOutOfRange, ErrBlockStructure (shape), ErrDuplicateBlock, ErrNaNInf.
func (b *SparseBlockBuilder) Set(row, col int, block mat.Matrix) error {
	if row < 0 || row >= len(b.rowOffsets)-1 || col < 0 || col >= len(b.colOffsets)-1 {
		return sbmErrorf(ctxSet, row, col, ErrOutOfRange)
	}
	r, c := block.Dims()
	if r != b.rowOffsets[row+1]-b.rowOffsets[row] || c != b.colOffsets[col+1]-b.colOffsets[col] {
		return sbmErrorf(ctxSet, row, col, ErrBlockStructure)
	}
	key := [2]int{row, col}
	if _, dup := b.entries[key]; dup {
		return sbmErrorf(ctxSet, row, col, ErrDuplicateBlock)
	}
	cp := mat.DenseCopyOf(block)
	if err := ValidateFinite(cp.RawMatrix().Data); err != nil {
		return sbmErrorf(ctxSet, row, col, err)
	}
	b.entries[key] = cp

	return nil
}

// Build freezes the collected blocks into a SparseBlock that owns copies of
// them; the builder stays usable.
func (b *SparseBlockBuilder) Build() *SparseBlock {
	keys := make([][2]int, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}

		return keys[i][1] < keys[j][1]
	})

	nbRows := len(b.rowOffsets) - 1
	s := &SparseBlock{
		n:          b.rowOffsets[nbRows],
		rowOffsets: append([]int(nil), b.rowOffsets...),
		colOffsets: append([]int(nil), b.colOffsets...),
		index1:     make([]int, nbRows+1),
		index2:     make([]int, len(keys)),
		blocks:     make([]*mat.Dense, len(keys)),
		diag:       make([]int, nbRows),
	}
	for i := range s.diag {
		s.diag[i] = -1
	}
	for pos, k := range keys {
		s.index1[k[0]+1]++
		s.index2[pos] = k[1]
		s.blocks[pos] = mat.DenseCopyOf(b.entries[k])
		if k[0] == k[1] {
			s.diag[k[0]] = pos
		}
	}
	for i := 0; i < nbRows; i++ {
		s.index1[i+1] += s.index1[i]
	}

	return s
}

func (*SparseBlock) sealed() {}

// Size returns n.
func (s *SparseBlock) Size() int { return s.n }

// Storage returns StorageSparseBlock.
func (*SparseBlock) Storage() StorageType { return StorageSparseBlock }

// NumBlocks returns the number of stored blocks.
func (s *SparseBlock) NumBlocks() int { return len(s.blocks) }

// BlockRows returns the number of block rows.
func (s *SparseBlock) BlockRows() int { return len(s.rowOffsets) - 1 }

// BlockCols returns the number of block columns.
func (s *SparseBlock) BlockCols() int { return len(s.colOffsets) - 1 }

// RowBlockSize returns the height of block row r.
func (s *SparseBlock) RowBlockSize(r int) int { return s.rowOffsets[r+1] - s.rowOffsets[r] }

// ColBlockSize returns the width of block column c.
func (s *SparseBlock) ColBlockSize(c int) int { return s.colOffsets[c+1] - s.colOffsets[c] }

// findBlock scans block row r for column c and returns its position or -1.
func (s *SparseBlock) findBlock(r, c int) int {
	for pos := s.index1[r]; pos < s.index1[r+1]; pos++ {
		if s.index2[pos] == c {
			return pos
		}
		if s.index2[pos] > c {
			break
		}
	}

	return -1
}

// DiagonalBlockIndex returns the storage position of block (r, r) or -1,
// in O(1).
func (s *SparseBlock) DiagonalBlockIndex(r int) int {
	if r < 0 || r >= len(s.diag) {
		return -1
	}

	return s.diag[r]
}

// At returns entry (i, j); positions outside stored blocks read as 0.
func (s *SparseBlock) At(i, j int) (float64, error) {
	if i < 0 || i >= s.n || j < 0 || j >= s.n {
		return 0, sbmErrorf(ctxAt, i, j, ErrOutOfRange)
	}
	r := sort.SearchInts(s.rowOffsets, i+1) - 1
	c := sort.SearchInts(s.colOffsets, j+1) - 1
	pos := s.findBlock(r, c)
	if pos < 0 {
		return 0, nil
	}

	return s.blocks[pos].At(i-s.rowOffsets[r], j-s.colOffsets[c]), nil
}

// MulVec computes y = M·x visiting stored blocks only.
func (s *SparseBlock) MulVec(y, x []float64) error {
	aliased, err := checkProduct("SparseBlock."+ctxMulVec, s.n, y, x)
	if err != nil {
		return err
	}
	if aliased {
		x = append([]float64(nil), x...)
	}
	for i := range y {
		y[i] = 0
	}
	s.accumulate(y, x)

	return nil
}

// AddMulVec computes y += M·x.
func (s *SparseBlock) AddMulVec(y, x []float64) error {
	aliased, err := checkProduct("SparseBlock."+ctxAddMulVec, s.n, y, x)
	if err != nil {
		return err
	}
	if aliased {
		x = append([]float64(nil), x...)
	}
	s.accumulate(y, x)

	return nil
}

func (s *SparseBlock) accumulate(y, x []float64) {
	for r := 0; r < s.BlockRows(); r++ {
		r0, r1 := s.rowOffsets[r], s.rowOffsets[r+1]
		yv := blas64.Vector{N: r1 - r0, Data: y[r0:r1], Inc: 1}
		for pos := s.index1[r]; pos < s.index1[r+1]; pos++ {
			c := s.index2[pos]
			c0, c1 := s.colOffsets[c], s.colOffsets[c+1]
			blas64.Gemv(blas.NoTrans, 1, s.blocks[pos].RawMatrix(),
				blas64.Vector{N: c1 - c0, Data: x[c0:c1], Inc: 1}, 1, yv)
		}
	}
}

// Block returns the stored block at (blockRow, blockCol). dim must match
// the declared block size.
//
// Errors: ErrOutOfRange, ErrBlockStructure, ErrBlockNotFound.
func (s *SparseBlock) Block(blockRow, blockCol, dim int) (*mat.Dense, error) {
	if blockRow < 0 || blockRow >= s.BlockRows() || blockCol < 0 || blockCol >= s.BlockCols() {
		return nil, sbmErrorf(ctxBlock, blockRow, blockCol, ErrOutOfRange)
	}
	if s.RowBlockSize(blockRow) != dim || s.colOffsets[blockCol+1]-s.colOffsets[blockCol] != dim {
		return nil, sbmErrorf(ctxBlock, blockRow, blockCol, ErrBlockStructure)
	}
	var pos int
	if blockRow == blockCol {
		pos = s.DiagonalBlockIndex(blockRow)
	} else {
		pos = s.findBlock(blockRow, blockCol)
	}
	if pos < 0 {
		return nil, sbmErrorf(ctxBlock, blockRow, blockCol, ErrBlockNotFound)
	}

	return s.blocks[pos], nil
}

// RowProdNoDiag accumulates y += Σ_{c != blockRow} M[blockRow, c]·x[c].
func (s *SparseBlock) RowProdNoDiag(blockRow, dim int, x, y []float64) error {
	if blockRow < 0 || blockRow >= s.BlockRows() {
		return sbmErrorf(ctxRowProdNoDiag, blockRow, blockRow, ErrOutOfRange)
	}
	if s.RowBlockSize(blockRow) != dim {
		return sbmErrorf(ctxRowProdNoDiag, blockRow, blockRow, ErrBlockStructure)
	}
	if len(x) != s.n || len(y) != dim {
		return sbmErrorf(ctxRowProdNoDiag, blockRow, blockRow, ErrDimensionMismatch)
	}
	yv := blas64.Vector{N: dim, Data: y, Inc: 1}
	for pos := s.index1[blockRow]; pos < s.index1[blockRow+1]; pos++ {
		c := s.index2[pos]
		if c == blockRow {
			continue
		}
		c0, c1 := s.colOffsets[c], s.colOffsets[c+1]
		blas64.Gemv(blas.NoTrans, 1, s.blocks[pos].RawMatrix(),
			blas64.Vector{N: c1 - c0, Data: x[c0:c1], Inc: 1}, 1, yv)
	}

	return nil
}

// ToDense materializes the full matrix.
func (s *SparseBlock) ToDense() *Dense {
	d := mat.NewDense(s.n, s.n, nil)
	for r := 0; r < s.BlockRows(); r++ {
		r0 := s.rowOffsets[r]
		for pos := s.index1[r]; pos < s.index1[r+1]; pos++ {
			c0 := s.colOffsets[s.index2[pos]]
			br, bc := s.blocks[pos].Dims()
			d.Slice(r0, r0+br, c0, c0+bc).(*mat.Dense).Copy(s.blocks[pos])
		}
	}

	return &Dense{n: s.n, m: d, validateNaNInf: DefaultValidateNaNInf}
}

// Scale returns a copy of s multiplied by alpha.
func (s *SparseBlock) Scale(alpha float64) *SparseBlock {
	out := &SparseBlock{
		n:          s.n,
		rowOffsets: append([]int(nil), s.rowOffsets...),
		colOffsets: append([]int(nil), s.colOffsets...),
		index1:     append([]int(nil), s.index1...),
		index2:     append([]int(nil), s.index2...),
		blocks:     make([]*mat.Dense, len(s.blocks)),
		diag:       append([]int(nil), s.diag...),
	}
	for i, b := range s.blocks {
		var cp mat.Dense
		cp.Scale(alpha, b)
		out.blocks[i] = &cp
	}

	return out
}
