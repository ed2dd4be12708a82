// SPDX-License-Identifier: MIT

// Package matrix - text persistence.
//
// Layout (whitespace separated, one logical record per line):
//
//	<storage>                         0 = dense, 1 = sparse-block
//	dense:
//	  <n>
//	  n lines of n values, row-major
//	sparse-block:
//	  <nbBlocks> <blockRows> <blockCols>
//	  row offsets   (blockRows+1 ints)
//	  col offsets   (blockCols+1 ints)
//	  index1        (blockRows+1 ints)
//	  index2        (nbBlocks ints)
//	  per block: <rows> <cols> then rows·cols values, row-major
//
// Floats are written in the shortest 'e' form that parses back to the same
// float64, so Print followed by Read is bit-exact.

package matrix

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// MaxReadDim bounds every dimension Read accepts (matrix order, block
// counts, block sizes), so header products cannot overflow.
const MaxReadDim = 1 << 20

// readChunk caps the up-front allocation of Ints/Floats; longer records grow
// as tokens arrive, so a lying header fails with ErrParse at end of input.
const readChunk = 1024

// FormatFloat renders v in the exact round-trip form used by Print.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'e', -1, 64)
}

// Writer buffers the token stream of Print. Problem descriptors reuse it to
// interleave their own records with a matrix.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Ints writes one line of integers.
func (pw *Writer) Ints(vs ...int) {
	for i, v := range vs {
		if i > 0 {
			pw.put(" ")
		}
		pw.put(strconv.Itoa(v))
	}
	pw.put("\n")
}

// Floats writes one line of floats.
func (pw *Writer) Floats(vs []float64) {
	for i, v := range vs {
		if i > 0 {
			pw.put(" ")
		}
		pw.put(FormatFloat(v))
	}
	pw.put("\n")
}

func (pw *Writer) put(s string) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.w.WriteString(s)
}

// Flush flushes buffered output and returns the first error met.
func (pw *Writer) Flush() error {
	if pw.err != nil {
		return pw.err
	}

	return pw.w.Flush()
}

// Matrix writes m in the layout documented above.
func (pw *Writer) Matrix(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	switch t := m.(type) {
	case *Dense:
		pw.Ints(int(StorageDense))
		pw.Ints(t.n)
		for i := 0; i < t.n; i++ {
			pw.Floats(t.m.RawRowView(i))
		}
	case *SparseBlock:
		pw.Ints(int(StorageSparseBlock))
		pw.Ints(len(t.blocks), t.BlockRows(), t.BlockCols())
		pw.Ints(t.rowOffsets...)
		pw.Ints(t.colOffsets...)
		pw.Ints(t.index1...)
		pw.Ints(t.index2...)
		for _, b := range t.blocks {
			r, c := b.Dims()
			pw.Ints(r, c)
			for i := 0; i < r; i++ {
				pw.Floats(b.RawRowView(i))
			}
		}
	}

	return pw.err
}

// Print writes m to w.
func Print(w io.Writer, m Matrix) error {
	pw := NewWriter(w)
	if err := pw.Matrix(m); err != nil {
		return err
	}

	return pw.Flush()
}

// Scanner reads whitespace-separated tokens and converts them, reporting
// ErrParse with the token position on malformed input.
type Scanner struct {
	sc  *bufio.Scanner
	pos int
}

// NewScanner wraps r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)

	return &Scanner{sc: sc}
}

func (s *Scanner) token() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", fmt.Errorf("token %d: %w: %w", s.pos, ErrParse, err)
		}

		return "", fmt.Errorf("token %d: %w: %w", s.pos, ErrParse, io.ErrUnexpectedEOF)
	}
	s.pos++

	return s.sc.Text(), nil
}

// Int reads one integer.
func (s *Scanner) Int() (int, error) {
	tok, err := s.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("token %d %q: %w", s.pos, tok, ErrParse)
	}

	return v, nil
}

// Float reads one float64.
func (s *Scanner) Float() (float64, error) {
	tok, err := s.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("token %d %q: %w", s.pos, tok, ErrParse)
	}

	return v, nil
}

// Ints reads n integers.
//
// Errors: ErrParse, also when n < 0.
func (s *Scanner) Ints(n int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("token %d: count %d: %w", s.pos, n, ErrParse)
	}
	out := make([]int, 0, min(n, readChunk))
	for len(out) < n {
		v, err := s.Int()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

// Floats reads n floats.
//
// Errors: ErrParse, also when n < 0.
func (s *Scanner) Floats(n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("token %d: count %d: %w", s.pos, n, ErrParse)
	}
	out := make([]float64, 0, min(n, readChunk))
	for len(out) < n {
		v, err := s.Float()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

// Matrix reads one matrix record.
//
// Errors: ErrParse, ErrUnknownStorage, ErrBadShape, ErrBlockStructure,
// ErrDuplicateBlock.
func (s *Scanner) Matrix() (Matrix, error) {
	st, err := s.Int()
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}
	switch StorageType(st) {
	case StorageDense:
		return s.dense()
	case StorageSparseBlock:
		return s.sparseBlock()
	default:
		return nil, matrixErrorf("Read", ErrUnknownStorage)
	}
}

func (s *Scanner) dense() (Matrix, error) {
	n, err := s.Int()
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}
	if n <= 0 || n > MaxReadDim {
		return nil, matrixErrorf("Read", ErrBadShape)
	}
	vals, err := s.Floats(n * n)
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}

	d, err := NewDenseFrom(n, vals)
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}

	return d, nil
}

func (s *Scanner) sparseBlock() (Matrix, error) {
	head, err := s.Ints(3)
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}
	nbBlocks, blockRows, blockCols := head[0], head[1], head[2]
	if nbBlocks < 0 || blockRows <= 0 || blockCols <= 0 ||
		blockRows > MaxReadDim || blockCols > MaxReadDim || nbBlocks > blockRows*blockCols {
		return nil, matrixErrorf("Read", ErrBadShape)
	}
	rowOff, err := s.Ints(blockRows + 1)
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}
	colOff, err := s.Ints(blockCols + 1)
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}
	index1, err := s.Ints(blockRows + 1)
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}
	index2, err := s.Ints(nbBlocks)
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}
	b, err := NewSparseBlockBuilder(diffs(rowOff), diffs(colOff))
	if err != nil {
		return nil, matrixErrorf("Read", err)
	}
	if rowOff[0] != 0 || colOff[0] != 0 || index1[0] != 0 || index1[blockRows] != nbBlocks {
		return nil, matrixErrorf("Read", ErrBlockStructure)
	}
	row := 0
	for pos := 0; pos < nbBlocks; pos++ {
		for row < blockRows && pos >= index1[row+1] {
			row++
		}
		dims, err := s.Ints(2)
		if err != nil {
			return nil, matrixErrorf("Read", err)
		}
		if dims[0] <= 0 || dims[1] <= 0 || dims[0] > MaxReadDim || dims[1] > MaxReadDim {
			return nil, matrixErrorf("Read", ErrBlockStructure)
		}
		vals, err := s.Floats(dims[0] * dims[1])
		if err != nil {
			return nil, matrixErrorf("Read", err)
		}
		if err = b.Set(row, index2[pos], mat.NewDense(dims[0], dims[1], vals)); err != nil {
			return nil, matrixErrorf("Read", err)
		}
	}

	return b.Build(), nil
}

// diffs turns cumulative offsets back into sizes; invalid offsets produce
// non-positive sizes that the builder rejects.
func diffs(off []int) []int {
	out := make([]int, len(off)-1)
	for i := range out {
		out[i] = off[i+1] - off[i]
	}

	return out
}

// Read parses one matrix from r.
func Read(r io.Reader) (Matrix, error) {
	return NewScanner(r).Matrix()
}
