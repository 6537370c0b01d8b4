package usecases

import "math"

// normalizeL2 scales v to unit length in place. The index computes inner
// products, so unit-length vectors are what makes its scores cosine
// similarities rather than magnitude-sensitive dot products. Zero
// vectors are left untouched.
func normalizeL2(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
