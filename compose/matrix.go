package compose

// identityMatrix is the column-major 4x4 identity.
var identityMatrix = [16]float64{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// IsIdentity reports whether the lowered matrix is the identity.
func (t Transform) IsIdentity() bool {
	return t.Matrix() == identityMatrix
}

// Matrix lowers the transform to a column-major 4x4 matrix as stored
// on glTF nodes.
//
// For the row-major nested variant, row i of the input becomes column
// i of the output, which leaves the flattened elements in place and
// puts the translation row at indices 12..14. The column-major nested
// variant is already laid out that way.
func (t Transform) Matrix() [16]float64 {
	switch t.Kind {
	case TransformFlatMatrix, TransformRowMajorMatrix, TransformColumnMajorMatrix:
		return t.Elements
	case TransformTRS:
		return composeTRS(t.Translation, t.Rotation, t.Scale)
	}
	return identityMatrix
}

// composeTRS builds the column-major matrix T * R * S from a
// translation vector, a unit quaternion (x, y, z, w) and per-axis
// scale factors.
func composeTRS(translation [3]float64, rotation [4]float64, scale [3]float64) [16]float64 {
	x, y, z, w := rotation[0], rotation[1], rotation[2], rotation[3]

	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	// Rotation matrix columns scaled per axis.
	sx, sy, sz := scale[0], scale[1], scale[2]
	return [16]float64{
		(1 - 2*(yy+zz)) * sx, 2 * (xy + wz) * sx, 2 * (xz - wy) * sx, 0,
		2 * (xy - wz) * sy, (1 - 2*(xx+zz)) * sy, 2 * (yz + wx) * sy, 0,
		2 * (xz + wy) * sz, 2 * (yz - wx) * sz, (1 - 2*(xx+yy)) * sz, 0,
		translation[0], translation[1], translation[2], 1,
	}
}
