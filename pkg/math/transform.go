package math

// Transform is a translation, rotation and scale applied in TRS order.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// TransformIdentity returns a transform that changes nothing.
func TransformIdentity() Transform {
	return Transform{Rotation: QuatIdentity(), Scale: Vec3One}
}

// TransformFromTranslation returns an identity transform moved to p.
func TransformFromTranslation(p Vec3) Transform {
	t := TransformIdentity()
	t.Translation = p
	return t
}

// Matrix returns the local-to-parent matrix T * R * S.
func (t Transform) Matrix() Mat4 {
	m := t.Rotation.ToMat4()
	for i := 0; i < 3; i++ {
		m[i] *= t.Scale.X
		m[4+i] *= t.Scale.Y
		m[8+i] *= t.Scale.Z
	}
	m[12] = t.Translation.X
	m[13] = t.Translation.Y
	m[14] = t.Translation.Z
	return m
}

// Forward is the direction the transform faces (-Z).
func (t Transform) Forward() Vec3 {
	return t.Rotation.Rotate(Vec3{0, 0, -1})
}

// Right is the local +X axis.
func (t Transform) Right() Vec3 {
	return t.Rotation.Rotate(Vec3X)
}

// Up is the local +Y axis.
func (t Transform) Up() Vec3 {
	return t.Rotation.Rotate(Vec3Y)
}

// LookingAt returns a copy rotated so Forward points at target.
// The rotation is unchanged when target coincides with the translation.
func (t Transform) LookingAt(target, up Vec3) Transform {
	if q, ok := QuatLookRotation(target.Sub(t.Translation), up); ok {
		t.Rotation = q
	}
	return t
}

// Compose returns the transform of child expressed in t's parent space.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(t.Scale.Mul(child.Translation))),
		Rotation:    t.Rotation.Mul(child.Rotation),
		Scale:       t.Scale.Mul(child.Scale),
	}
}

// IsFinite reports whether every component is finite.
func (t Transform) IsFinite() bool {
	return t.Translation.IsFinite() && t.Rotation.IsFinite() && t.Scale.IsFinite()
}
