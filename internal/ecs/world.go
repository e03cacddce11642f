package ecs

import (
	"cmp"
	"slices"
)

// EntityID is a unique identifier for an entity (never recycled)
type EntityID uint64

// World holds all component maps and the next entity ID.
// A World only ever holds the entities of the active map plus the player
// and camera; Reset wipes it on every map load.
type World struct {
	nextID EntityID

	// Components
	Position    map[EntityID]Position
	RigidBody   map[EntityID]RigidBody
	PlayerData  map[EntityID]Player
	Checkpoint  map[EntityID]Checkpoint
	Upgrade     map[EntityID]Upgrade
	Collectible map[EntityID]Collectible
	Sign        map[EntityID]Sign
	Trigger     map[EntityID]Trigger
	Camera      map[EntityID]Camera
	Fade        map[EntityID]Fade
	Sprite      map[EntityID]Sprite

	// Tags
	IsPlayer map[EntityID]struct{}

	// Singleton references
	PlayerID EntityID
	CameraID EntityID
}

// NewWorld creates a new empty world
func NewWorld() *World {
	w := &World{nextID: 1} // 0 is "nil"
	w.clear()
	return w
}

func (w *World) clear() {
	w.Position = make(map[EntityID]Position)
	w.RigidBody = make(map[EntityID]RigidBody)
	w.PlayerData = make(map[EntityID]Player)
	w.Checkpoint = make(map[EntityID]Checkpoint)
	w.Upgrade = make(map[EntityID]Upgrade)
	w.Collectible = make(map[EntityID]Collectible)
	w.Sign = make(map[EntityID]Sign)
	w.Trigger = make(map[EntityID]Trigger)
	w.Camera = make(map[EntityID]Camera)
	w.Fade = make(map[EntityID]Fade)
	w.Sprite = make(map[EntityID]Sprite)
	w.IsPlayer = make(map[EntityID]struct{})
	w.PlayerID = 0
	w.CameraID = 0
}

// Reset destroys every entity. The ID counter keeps running so handles
// taken before the reset never resolve to a new entity.
func (w *World) Reset() {
	w.clear()
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// DestroyEntity removes all components for an entity
func (w *World) DestroyEntity(id EntityID) {
	delete(w.Position, id)
	delete(w.RigidBody, id)
	delete(w.PlayerData, id)
	delete(w.Checkpoint, id)
	delete(w.Upgrade, id)
	delete(w.Collectible, id)
	delete(w.Sign, id)
	delete(w.Trigger, id)
	delete(w.Camera, id)
	delete(w.Fade, id)
	delete(w.Sprite, id)
	delete(w.IsPlayer, id)
	if w.PlayerID == id {
		w.PlayerID = 0
	}
	if w.CameraID == id {
		w.CameraID = 0
	}
}

// Exists checks if an entity has Position component
func (w *World) Exists(id EntityID) bool {
	_, ok := w.Position[id]
	return ok
}

// Count returns the number of live entities.
func (w *World) Count() int {
	return len(w.Position)
}

// SortedIDs returns the keys of a component map in creation order.
// Systems iterate through it so that scans are deterministic.
func SortedIDs[T any](m map[EntityID]T) []EntityID {
	ids := make([]EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, cmp.Compare[EntityID])
	return ids
}

// HasPlayer reports whether the player singleton is alive.
func (w *World) HasPlayer() bool {
	_, ok := w.PlayerData[w.PlayerID]
	return ok && w.PlayerID != 0
}

// CreatePlayer creates the player entity from carried-over state.
func (w *World) CreatePlayer(pos Position, player Player, body RigidBody, sprite Sprite) EntityID {
	id := w.NewEntity()

	w.Position[id] = pos
	w.RigidBody[id] = body
	w.PlayerData[id] = player
	w.Sprite[id] = sprite
	w.IsPlayer[id] = struct{}{}

	w.PlayerID = id
	return id
}

// CreateCamera creates the camera entity. The first camera update snaps to
// its target instead of smoothing.
func (w *World) CreateCamera(pos Position) EntityID {
	id := w.NewEntity()

	w.Position[id] = pos
	w.Camera[id] = Camera{Pos: pos.Vec}

	w.CameraID = id
	return id
}

// CreateFade creates a short-lived visual that disappears once its timer
// runs out.
func (w *World) CreateFade(pos Position, sprite Sprite, duration float64, curve FadeCurve) EntityID {
	id := w.NewEntity()

	w.Position[id] = pos
	w.Sprite[id] = sprite
	w.Fade[id] = Fade{Remaining: duration, Duration: duration, Curve: curve}

	return id
}

// PlayerBox returns the player's collision box in local map coordinates.
func (w *World) PlayerBox() (Box, bool) {
	if !w.HasPlayer() {
		return Box{}, false
	}
	return w.RigidBody[w.PlayerID].Bounds.At(w.Position[w.PlayerID]), true
}
