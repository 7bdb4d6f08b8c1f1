package render

import "voxelsand/internal/world"

// FaceList is the append-only render list shared with the draw loop.
// Retracting leaves a hole so indices held by other blocks stay valid.
// Reset bumps the generation, which turns every outstanding handle stale.
type FaceList struct {
	objects    []Object
	live       int
	generation uint32
}

// Append adds o and returns its handle.
func (l *FaceList) Append(o Object) world.FaceHandle {
	l.objects = append(l.objects, o)
	if o.Live() {
		l.live++
	}
	return world.FaceHandle{Index: len(l.objects) - 1, Generation: l.generation}
}

// Valid reports whether h addresses a live slot of the current generation.
func (l *FaceList) Valid(h world.FaceHandle) bool {
	if h.Generation != l.generation || h.Index < 0 || h.Index >= len(l.objects) {
		return false
	}
	return l.objects[h.Index].Live()
}

// Retract nulls the slot at h. Stale or out-of-range handles are ignored.
func (l *FaceList) Retract(h world.FaceHandle) bool {
	if !l.Valid(h) {
		return false
	}
	o := &l.objects[h.Index]
	o.Mesh = nil
	o.Material = nil
	l.live--
	return true
}

// Reset drops every slot.
func (l *FaceList) Reset() {
	l.objects = nil
	l.live = 0
	l.generation++
}

// Len returns the number of slots, holes included.
func (l *FaceList) Len() int { return len(l.objects) }

// Live returns the number of live objects.
func (l *FaceList) Live() int { return l.live }

// Generation returns the current handle generation.
func (l *FaceList) Generation() uint32 { return l.generation }

// Get returns the object at h, or nil if h is not valid.
func (l *FaceList) Get(h world.FaceHandle) *Object {
	if !l.Valid(h) {
		return nil
	}
	return &l.objects[h.Index]
}

// Each calls fn for every live object in list order.
func (l *FaceList) Each(fn func(i int, o *Object)) {
	for i := range l.objects {
		if l.objects[i].Live() {
			fn(i, &l.objects[i])
		}
	}
}

// Objects exposes the ordered list, holes included. Callers must not retain
// it across mutations.
func (l *FaceList) Objects() []Object {
	return l.objects
}
