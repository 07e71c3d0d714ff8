package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec4 represents a 4D vector, also used for RGBA colours
type Vec4 struct {
	X, Y, Z, W float32
}
