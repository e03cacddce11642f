package playing

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/younwookim/timeloop/internal/application/state"
	"github.com/younwookim/timeloop/internal/application/system"
	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/ecs"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
)

// Colors for rendering
var (
	colorHUD       = color.RGBA{240, 240, 240, 255}
	colorHUDDim    = color.RGBA{160, 160, 180, 255}
	colorDialogBG  = color.RGBA{0, 0, 0, 190}
	colorTitleBG   = color.RGBA{0, 0, 0, 160}
	colorCountdown = color.RGBA{255, 209, 102, 255}
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

const (
	hudMargin   = 6.0
	lineSpacing = 14.0
)

func activeCheckpointColor(tc config.TriggerConfig) color.RGBA {
	base := config.ColorOr(tc.Color, colorHUD)
	return config.ColorOr(tc.ActiveColor, base)
}

// viewport converts the active map's y-up local frame to screen pixels.
type viewport struct {
	cam  mgl64.Vec2
	half mgl64.Vec2
	mapH float64
}

func (s *Session) viewport(seg *entity.MapSegment) viewport {
	v := viewport{half: s.camera.View().Mul(0.5), mapH: seg.Size[1]}
	if cam, ok := s.world.Camera[s.world.CameraID]; ok {
		v.cam = mgl64.Vec2{math.Round(cam.Pos[0]), math.Round(cam.Pos[1])}
	}
	return v
}

// boxOrigin returns the screen position of a box's top-left corner.
func (v viewport) boxOrigin(b ecs.Box) (float64, float64) {
	return b.Min[0] - v.cam[0] + v.half[0], v.half[1] - (b.Max[1] - v.cam[1])
}

// layerGeoM places a top-down layer image so its bottom row sits at local
// y = 0.
func (v viewport) layerGeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(v.half[0]-v.cam[0], v.half[1]+v.cam[1]-v.mapH)
	return g
}

// Draw renders the session.
func (s *Session) Draw(screen *ebiten.Image) {
	if s.state == state.StateUninitialized {
		return
	}
	seg := s.loader.Active()
	screen.Fill(seg.Background)

	view := s.viewport(seg)
	if seg.EntityLayer == entity.EntityLayerBelowAll {
		s.drawEntities(screen, seg, view)
	}
	for i := range seg.Layers {
		s.layers.DrawLayer(screen, i, view.layerGeoM())
		if i == seg.EntityLayer {
			s.drawEntities(screen, seg, view)
		}
	}

	s.drawHUD(screen)
	s.drawDialog(screen)
	if s.state == state.StateTitle {
		s.drawTitle(screen)
	}
}

func (s *Session) drawEntities(screen *ebiten.Image, seg *entity.MapSegment, view viewport) {
	w := s.world
	for _, id := range ecs.SortedIDs(w.Sprite) {
		sprite := w.Sprite[id]
		c := sprite.Color
		if system.IsActiveCheckpoint(w, id, seg.ID) {
			c = s.activeColor
		}
		if f, ok := w.Fade[id]; ok {
			c = scaleAlpha(c, f.Alpha())
		}

		x, y := view.boxOrigin(ecs.BoxAt(w.Position[id], sprite.Size))
		ebitenutil.DrawRect(screen, math.Round(x), math.Round(y), sprite.Size[0], sprite.Size[1], c)
	}
}

// scaleAlpha fades a color, keeping it premultiplied.
func scaleAlpha(c color.RGBA, alpha float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

func drawText(screen *ebiten.Image, str string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.LineSpacing = lineSpacing
	text.Draw(screen, str, hudFace, op)
}

func (s *Session) drawHUD(screen *ebiten.Image) {
	screenW := s.camera.View()[0]

	countdown := s.Countdown()
	drawText(screen, countdown, screenW-hudMargin-text.Advance(countdown, hudFace), hudMargin, colorCountdown)

	player, ok := s.Player()
	if !ok {
		return
	}
	label := fmt.Sprintf("base %d", player.Mode.Radix())
	drawText(screen, label, screenW-hudMargin-text.Advance(label, hudFace), hudMargin+lineSpacing, colorHUDDim)

	total := s.loader.World().TotalPickups
	drawText(screen, fmt.Sprintf("%d/%d", player.CollectedCount, total), hudMargin, hudMargin, colorHUD)
}

func (s *Session) drawDialog(screen *ebiten.Image) {
	if !s.text.Active() {
		return
	}
	view := s.camera.View()
	boxH := lineSpacing*2 + hudMargin*2
	top := view[1] - boxH - hudMargin
	ebitenutil.DrawRect(screen, hudMargin, top, view[0]-hudMargin*2, boxH, colorDialogBG)
	drawText(screen, s.text.Visible(), hudMargin*2, top+hudMargin, colorHUD)
}

func (s *Session) drawTitle(screen *ebiten.Image) {
	view := s.camera.View()
	ebitenutil.DrawRect(screen, 0, 0, view[0], view[1], colorTitleBG)

	title := "TIMELOOP"
	prompt := "press enter"
	drawText(screen, title, (view[0]-text.Advance(title, hudFace))/2, view[1]/2-lineSpacing, colorCountdown)
	drawText(screen, prompt, (view[0]-text.Advance(prompt, hudFace))/2, view[1]/2+lineSpacing, colorHUD)
}
