package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"

	"github.com/wricardo/mcp-training/tapmerge/game/engine"
	"github.com/wricardo/mcp-training/tapmerge/game/service"
	"github.com/wricardo/mcp-training/tapmerge/ui/scene"
)

// Game implements ebiten.Game for a single board
type Game struct {
	ctx        context.Context
	svc        service.GameService
	configName string
	director   *scene.Director
	log        *logrus.Entry

	sessionID string
	state     *engine.BoardState
	status    string
	touchIDs  []ebiten.TouchID
}

// NewGame creates a window game that plays a fresh session of the named preset
func NewGame(ctx context.Context, svc service.GameService, configName string) *Game {
	return &Game{
		ctx:        ctx,
		svc:        svc,
		configName: configName,
		director:   scene.NewDirector("desktop"),
		log:        logrus.WithField("component", "desktop"),
	}
}

// load creates the session and switches to the board scene
func (g *Game) load() error {
	var state *engine.BoardState
	if g.sessionID == "" {
		info, err := g.svc.CreateSession(g.ctx, g.configName)
		if err != nil {
			return err
		}
		g.sessionID = info.ID
		state = info.BoardState
		g.status = fmt.Sprintf("Session %s", info.ID)
	} else {
		var err error
		state, err = g.svc.Reset(g.ctx, g.sessionID)
		if err != nil {
			return err
		}
		g.status = "Board reset"
	}

	g.state = state
	ebiten.SetWindowSize(screenSize(state.Cols, state.Rows))
	return g.director.Loaded(g.ctx)
}

func (g *Game) Update() error {
	switch g.director.Current() {
	case scene.Quit:
		return ebiten.Termination
	case scene.Loading:
		if err := g.load(); err != nil {
			g.log.WithError(err).Error("Failed to load board")
			return err
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return g.director.Quit(g.ctx)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return g.director.Reload(g.ctx)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.tapAt(x, y)
	}

	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		g.tapAt(x, y)
	}

	return nil
}

func (g *Game) tapAt(x, y int) {
	pos, ok := tileAt(x, y, g.state.Cols, g.state.Rows)
	if !ok {
		return
	}

	outcome, err := g.svc.Tap(g.ctx, g.sessionID, pos.Col, pos.Row, false)
	if err != nil {
		g.log.WithError(err).WithFields(logrus.Fields{"col": pos.Col, "row": pos.Row}).Warn("Tap failed")
		return
	}
	g.status = outcome.Message
	if outcome.BoardState != nil {
		g.state = outcome.BoardState
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if g.director.Is(scene.Loading) || g.state == nil {
		text.Draw(screen, "Loading...", basicfont.Face7x13, 10, 24, textColor)
		return
	}

	header := fmt.Sprintf("Max %d  Blanks %d  Taps %d", g.state.MaxValue, g.state.Blanks, g.state.CurrentTaps)
	text.Draw(screen, header, basicfont.Face7x13, 10, 24, textColor)

	for r, row := range g.state.Tiles {
		for c, tile := range row {
			drawTile(screen, c, r, tile)
		}
	}

	_, height := screenSize(g.state.Cols, g.state.Rows)
	text.Draw(screen, g.status, basicfont.Face7x13, 10, height-8, dimTextColor)
}

// drawTile draws one tile. Armed tiles sit pressed down with a highlighted edge.
func drawTile(screen *ebiten.Image, col, row int, tile engine.TileState) {
	x, y := tileOrigin(col, row)
	left := float32(x + tileGap/2)
	top := float32(y + tileGap/2)
	size := float32(tileSize - tileGap)

	vector.DrawFilledRect(screen, left, top+pressDepth, size, size-pressDepth, shadowColor, false)

	offset := float32(0)
	if tile.Armed {
		offset = pressDepth
		vector.StrokeRect(screen, left, top+offset, size, size-pressDepth, 3, armedEdgeColor, false)
	}
	vector.DrawFilledRect(screen, left+2, top+offset+2, size-4, size-pressDepth-4, tileColor(tile.Value), false)

	if tile.Value == 0 {
		return
	}
	label := fmt.Sprint(tile.Value)
	labelX := int(left+size/2) - len(label)*7/2
	labelY := int(top+offset+(size-pressDepth)/2) + 5
	text.Draw(screen, label, basicfont.Face7x13, labelX, labelY, textColor)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.state == nil {
		return screenSize(engine.DefaultCols, engine.DefaultRows)
	}
	return screenSize(g.state.Cols, g.state.Rows)
}
