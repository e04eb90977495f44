package world

import "keeper-client/pkg/protocol"

// --- Снаряды ---

func (r *Replica) AddMissile(d protocol.MissileObjectData) (*MissileObject, error) {
	if _, ok := r.missiles[d.Name]; ok {
		return nil, duplicate("missile %q", d.Name)
	}
	m := &MissileObject{
		Name:      d.Name,
		MeshName:  d.MeshName,
		Position:  d.Position,
		Direction: d.Direction,
	}
	r.missiles[m.Name] = m
	r.renderer.CreateVisual(m)
	return m, nil
}

func (r *Replica) Missile(name string) *MissileObject { return r.missiles[name] }

func (r *Replica) RemoveMissile(name string) error {
	m, ok := r.missiles[name]
	if !ok {
		return unresolved("missile %q", name)
	}
	delete(r.missiles, name)
	r.renderer.DestroyVisual(m)
	return nil
}

// --- Источники света ---

func (r *Replica) AddMapLight(d protocol.MapLightData) (*MapLight, error) {
	if _, ok := r.lights[d.Name]; ok {
		return nil, duplicate("map light %q", d.Name)
	}
	l := &MapLight{MapLightData: d}
	r.lights[l.Name] = l
	r.renderer.CreateVisual(l)
	return l, nil
}

func (r *Replica) MapLight(name string) *MapLight { return r.lights[name] }

func (r *Replica) RemoveMapLight(name string) error {
	l, ok := r.lights[name]
	if !ok {
		return unresolved("map light %q", name)
	}
	delete(r.lights, name)
	r.renderer.DestroyVisual(l)
	return nil
}
