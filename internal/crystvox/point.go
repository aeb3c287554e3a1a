package crystvox

// Point3 represents a Cartesian position in Å.
type Point3 struct {
	X, Y, Z Real
}

// Sub returns the displacement from q to p.
func (p Point3) Sub(q Point3) Vec3 {
	return Vec3{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Dist2 returns the squared Euclidean distance between p and q.
func (p Point3) Dist2(q Point3) Real {
	d := p.Sub(q)
	return d.Dot(d)
}
