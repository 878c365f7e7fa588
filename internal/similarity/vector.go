// Package similarity fits a TF-IDF model over the catalog and scores queries by cosine similarity.
package similarity

import "math"

// SparseVector is a vector stored as ascending feature indices and their weights.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// L2Norm returns the L2 norm of v.
func (v SparseVector) L2Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalized returns a copy of v scaled to unit length. A zero vector is returned unchanged.
func (v SparseVector) Normalized() SparseVector {
	out := SparseVector{
		Indices: append([]int(nil), v.Indices...),
		Values:  append([]float64(nil), v.Values...),
	}
	norm := v.L2Norm()
	if norm == 0 {
		return out
	}
	for i := range out.Values {
		out.Values[i] /= norm
	}
	return out
}

// InnerProduct returns the dot product of two sparse vectors. For unit vectors this
// equals cosine similarity.
func InnerProduct(a, b SparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Cosine returns the cosine similarity of a and b, or 0 if either is a zero vector.
func Cosine(a, b SparseVector) float64 {
	na, nb := a.L2Norm(), b.L2Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return InnerProduct(a, b) / (na * nb)
}
