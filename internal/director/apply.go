package director

import (
	"github.com/Faultbox/midgard-vcam/internal/engine/camera"
	"github.com/Faultbox/midgard-vcam/internal/engine/ecs"
)

// ApplySystem copies each settled director's active camera onto its physical
// camera. Blending directors are skipped: BlendSystem owns their output.
type ApplySystem struct{}

// Update implements ecs.System.
func (ApplySystem) Update(w *ecs.World, _ float32) {
	dirs := Directors(w)
	for _, d := range dirs.Sorted() {
		dir, _ := dirs.Get(d)
		if dir.Blend != nil || !dir.Active.Valid() {
			continue
		}
		st, ok := camera.Read(w, dir.Active)
		if !ok || !w.Alive(dir.Camera) {
			continue
		}
		camera.Write(w, dir.Camera, st)
	}
}
