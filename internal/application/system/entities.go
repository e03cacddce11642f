package system

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/timeloop/internal/application/factory"
	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// Entity type names as written in map files.
const (
	TypeCheckpoint  = "Checkpoint"
	TypeUpgrade     = "Upgrade"
	TypeCollectible = "Collectible"
	TypeSign        = "Sign"
	TypeLantern     = "Lantern"
)

var fallbackSpriteColor = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}

// NewRegistry registers every placeable entity type.
func NewRegistry(cfg *config.EntitiesConfig) (*factory.Registry, error) {
	r := factory.NewRegistry()

	checkpoint := factory.NewSchema[ecs.Checkpoint]().
		Int32("id", func(c *ecs.Checkpoint, v int32) { c.ID = v })
	if err := factory.Register(r, TypeCheckpoint, checkpoint,
		func(w *ecs.World, id ecs.EntityID, c ecs.Checkpoint) { w.Checkpoint[id] = c },
		attachTrigger(cfg.Checkpoint)); err != nil {
		return nil, err
	}

	upgrade := factory.NewSchema[ecs.Upgrade]().
		Int32("upgradeID", func(c *ecs.Upgrade, v int32) { c.UpgradeID = v })
	if err := factory.Register(r, TypeUpgrade, upgrade,
		func(w *ecs.World, id ecs.EntityID, c ecs.Upgrade) { w.Upgrade[id] = c },
		attachTrigger(cfg.Upgrade)); err != nil {
		return nil, err
	}

	collectible := factory.NewSchema[ecs.Collectible]().
		Int32("id", func(c *ecs.Collectible, v int32) { c.ID = v })
	if err := factory.Register(r, TypeCollectible, collectible,
		func(w *ecs.World, id ecs.EntityID, c ecs.Collectible) { w.Collectible[id] = c },
		attachTrigger(cfg.Collectible)); err != nil {
		return nil, err
	}

	sign := factory.NewSchema[ecs.Sign]().
		Int32("textID", func(c *ecs.Sign, v int32) { c.TextID = v }).
		Bool("tutorial", func(c *ecs.Sign, v bool) { c.Tutorial = v })
	if err := factory.Register(r, TypeSign, sign,
		func(w *ecs.World, id ecs.EntityID, c ecs.Sign) { w.Sign[id] = c },
		attachTrigger(cfg.Sign)); err != nil {
		return nil, err
	}

	// Lanterns are decoration only.
	if err := factory.Register(r, TypeLantern, nil,
		func(*ecs.World, ecs.EntityID, struct{}) {},
		attachSprite(cfg.Lantern)); err != nil {
		return nil, err
	}

	return r, nil
}

func triggerSize(tc config.TriggerConfig) mgl64.Vec2 {
	return mgl64.Vec2{max(tc.Width, 0), max(tc.Height, 0)}
}

func attachSprite(tc config.TriggerConfig) factory.AttachFunc {
	sprite := ecs.Sprite{Size: triggerSize(tc), Color: config.ColorOr(tc.Color, fallbackSpriteColor)}
	return func(w *ecs.World, id ecs.EntityID, _ entity.EntityDescriptor) {
		w.Sprite[id] = sprite
	}
}

func attachTrigger(tc config.TriggerConfig) factory.AttachFunc {
	sprite := attachSprite(tc)
	return func(w *ecs.World, id ecs.EntityID, d entity.EntityDescriptor) {
		sprite(w, id, d)
		w.Trigger[id] = ecs.Trigger{Size: triggerSize(tc)}
	}
}

// triggerBox returns the overlap area of a trigger entity.
func triggerBox(w *ecs.World, id ecs.EntityID) ecs.Box {
	return ecs.BoxAt(w.Position[id], w.Trigger[id].Size)
}

// spawnGhost leaves a fading copy of an entity's sprite behind.
func spawnGhost(w *ecs.World, id ecs.EntityID, tint color.RGBA, duration float64) {
	sprite, ok := w.Sprite[id]
	if !ok || duration <= 0 {
		return
	}
	if tint.A != 0 {
		sprite.Color = tint
	}
	w.CreateFade(w.Position[id], sprite, duration, ecs.FadeEaseOut)
}
