package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyS) && g.paused {
		g.saveWorld()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Simulation speed with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerFrame > 1 {
		g.stepsPerFrame--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerFrame < 16 {
		g.stepsPerFrame++
	}

	g.handleCameraInput()
	g.handleInspectorInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenW && h == g.screenH {
		return
	}
	g.screenW = w
	g.screenH = h
	g.cam.Resize(w, h)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.cam.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.cam.Pan(0, -panSpeed)
	}

	// Drag panning with left mouse
	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		g.dragging = true
		g.lastMouse = mouse
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		g.dragging = false
	}
	if g.dragging {
		g.cam.Pan(g.lastMouse.X-mouse.X, g.lastMouse.Y-mouse.Y)
		g.lastMouse = mouse
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1.0 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}
}
