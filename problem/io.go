// SPDX-License-Identifier: MIT

// Text persistence of problem descriptors.
//
// Each record starts with its dimensions, then the matrix in the matrix
// package layout, then the vectors:
//
//	LCP              n | M | q
//	FrictionContact  dim | nc | M | q | mu
//	MLCP             n m | M | q
//	SOCLCP           n | nc | M | q | coneIndex | mu
//
// Every float uses the exact round-trip form of matrix.FormatFloat.

package problem

import (
	"io"

	"github.com/katalvlaran/nonsmooth/matrix"
)

// PrintLCP writes p to w.
func PrintLCP(w io.Writer, p *LCP) error {
	if err := p.Validate(); err != nil {
		return err
	}
	pw := matrix.NewWriter(w)
	pw.Ints(p.Size())
	if err := pw.Matrix(p.M); err != nil {
		return problemErrorf("PrintLCP", err)
	}
	pw.Floats(p.Q)

	return pw.Flush()
}

// ReadLCP parses one LCP record.
func ReadLCP(r io.Reader) (*LCP, error) {
	s := matrix.NewScanner(r)
	n, err := s.Int()
	if err != nil {
		return nil, problemErrorf("ReadLCP", err)
	}
	m, err := s.Matrix()
	if err != nil {
		return nil, problemErrorf("ReadLCP", err)
	}
	if n <= 0 || m.Size() != n {
		return nil, problemErrorf("ReadLCP", ErrDimension)
	}
	q, err := s.Floats(n)
	if err != nil {
		return nil, problemErrorf("ReadLCP", err)
	}

	return NewLCP(m, q)
}

// PrintFrictionContact writes p to w.
func PrintFrictionContact(w io.Writer, p *FrictionContact) error {
	if err := p.Validate(); err != nil {
		return err
	}
	pw := matrix.NewWriter(w)
	pw.Ints(p.Dimension)
	pw.Ints(p.NumberOfContacts)
	if err := pw.Matrix(p.M); err != nil {
		return problemErrorf("PrintFrictionContact", err)
	}
	pw.Floats(p.Q)
	pw.Floats(p.Mu)

	return pw.Flush()
}

// ReadFrictionContact parses one friction-contact record.
func ReadFrictionContact(r io.Reader) (*FrictionContact, error) {
	const tag = "ReadFrictionContact"
	s := matrix.NewScanner(r)
	head, err := s.Ints(2)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	dim, nc := head[0], head[1]
	if dim != 2 && dim != 3 {
		return nil, problemErrorf(tag, ErrContactDimension)
	}
	if nc <= 0 {
		return nil, problemErrorf(tag, ErrDimension)
	}
	m, err := s.Matrix()
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	if nc > m.Size() {
		return nil, problemErrorf(tag, ErrDimension)
	}
	q, err := s.Floats(dim * nc)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	mu, err := s.Floats(nc)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}

	return NewFrictionContact(dim, m, q, mu)
}

// PrintMLCP writes p to w.
func PrintMLCP(w io.Writer, p *MLCP) error {
	if err := p.Validate(); err != nil {
		return err
	}
	pw := matrix.NewWriter(w)
	pw.Ints(p.N, p.M)
	if err := pw.Matrix(p.Matrix); err != nil {
		return problemErrorf("PrintMLCP", err)
	}
	pw.Floats(p.Q)

	return pw.Flush()
}

// ReadMLCP parses one MLCP record. A sparse-block matrix is densified.
func ReadMLCP(r io.Reader) (*MLCP, error) {
	const tag = "ReadMLCP"
	s := matrix.NewScanner(r)
	head, err := s.Ints(2)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	n, m := head[0], head[1]
	if n < 0 || m < 0 || n > matrix.MaxReadDim || m > matrix.MaxReadDim || n+m == 0 {
		return nil, problemErrorf(tag, ErrDimension)
	}
	mm, err := s.Matrix()
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	q, err := s.Floats(n + m)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}

	return NewMLCPFromMatrix(n, m, mm.ToDense(), q)
}

// PrintSOCLCP writes p to w.
func PrintSOCLCP(w io.Writer, p *SOCLCP) error {
	if err := p.Validate(); err != nil {
		return err
	}
	pw := matrix.NewWriter(w)
	pw.Ints(p.Size())
	pw.Ints(p.NumberOfCones())
	if err := pw.Matrix(p.M); err != nil {
		return problemErrorf("PrintSOCLCP", err)
	}
	pw.Floats(p.Q)
	pw.Ints(p.ConeIndex...)
	pw.Floats(p.Mu)

	return pw.Flush()
}

// ReadSOCLCP parses one SOCLCP record.
func ReadSOCLCP(r io.Reader) (*SOCLCP, error) {
	const tag = "ReadSOCLCP"
	s := matrix.NewScanner(r)
	head, err := s.Ints(2)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	n, nc := head[0], head[1]
	if n <= 0 || nc <= 0 || n > matrix.MaxReadDim || nc > n {
		return nil, problemErrorf(tag, ErrDimension)
	}
	m, err := s.Matrix()
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	q, err := s.Floats(n)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	idx, err := s.Ints(nc + 1)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}
	mu, err := s.Floats(nc)
	if err != nil {
		return nil, problemErrorf(tag, err)
	}

	return NewSOCLCP(m, q, idx, mu)
}
