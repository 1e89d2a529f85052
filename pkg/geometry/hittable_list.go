package geometry

import "github.com/df07/go-sphere-raytracer/pkg/core"

// HittableList is an ordered collection of hittables that is itself hittable.
// Intersection is a linear scan over every member.
type HittableList struct {
	objects []core.Hittable
}

// NewHittableList creates a list from the given hittables, preserving order
func NewHittableList(objects ...core.Hittable) *HittableList {
	list := &HittableList{objects: make([]core.Hittable, 0, len(objects))}
	list.objects = append(list.objects, objects...)
	return list
}

// Add appends a hittable to the end of the scan order
func (l *HittableList) Add(object core.Hittable) {
	l.objects = append(l.objects, object)
}

// Len returns the number of direct members
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns the members in scan order
func (l *HittableList) Objects() []core.Hittable {
	return l.objects
}

// Hit returns the closest hit among all members. The search window shrinks to
// each accepted hit, so on an exact tie the member scanned first wins.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float32) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, object := range l.objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestHit = hit
			closestSoFar = hit.T
		}
	}

	return closestHit, closestHit != nil
}
