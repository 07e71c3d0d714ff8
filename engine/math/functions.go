package math

/**
 * @brief Creates and returns a new 2-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @return A new 2-element vector.
 */
func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

/**
 * @brief Creates and returns a new 4-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @param z The z value.
 * @param w The w value.
 * @return A new 4-element vector.
 */
func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

/**
 * @brief Creates a 4-element vector from a 4 float array, e.g. an RGBA colour
 * read from a configuration file.
 */
func NewVec4FromArray(a [4]float32) Vec4 {
	return Vec4{X: a[0], Y: a[1], Z: a[2], W: a[3]}
}

/**
 * @brief Converts value from the "old" range to the "new" range.
 *
 * @param value The value to be converted.
 * @param from_min The minimum value from the old range.
 * @param from_max The maximum value from the old range.
 * @param to_min The minimum value from the new range.
 * @param to_max The maximum value from the new range.
 * @return The converted value.
 */
func RangeConvertFloat32(value, fromMin, fromMax, toMin, toMax float32) float32 {
	if fromMax == fromMin {
		return toMin
	}
	return (((value - fromMin) * (toMax - toMin)) / (fromMax - fromMin)) + toMin
}
