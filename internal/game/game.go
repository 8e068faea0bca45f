// Package game is the moodwave window: the particle background plus the
// mood, weather, account and admin panels, hosted by ebiten.
package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/moodwave/internal/api"
	"github.com/iburimskiy/moodwave/internal/panel"
	"github.com/iburimskiy/moodwave/internal/particles"
	"github.com/iburimskiy/moodwave/internal/recorder"
)

const (
	colorShiftSpeed = 0.01

	statusX   = buttonX + buttonWidth + 16
	rowHeight = 28
	resultBuf = 16
)

var background = color.RGBA{R: 10, G: 12, B: 24, A: 255}

type view int

const (
	mainView view = iota
	accountView
	adminView
)

// Capture is the microphone side of the mood panel.
type Capture interface {
	Start(ctx context.Context) error
	Stop() (*recorder.Recording, error)
	Recording() bool
	Elapsed() time.Duration
	Full() bool
	Tap() *recorder.Tap
}

// Options wires the window to its collaborators.
type Options struct {
	Title         string
	Width, Height int
	TPS           int
	Style         particles.Style

	Mood    *panel.Mood
	Weather *panel.Weather
	Login   *panel.Form
	Signup  *panel.Form
	Users   *panel.Users

	// Capture is nil when no capture tool is available; CaptureErr says why.
	Capture      Capture
	CaptureErr   error
	MaxRecording time.Duration

	// Dialogs defaults to native zenity dialogs.
	Dialogs Dialogs
}

// Game implements ebiten.Game.
type Game struct {
	opts    Options
	dialogs Dialogs

	ctx    context.Context
	cancel context.CancelFunc

	loop          *particles.Loop
	surface       screenSurface
	width, height int
	phase         float64
	levels        []float64

	// results of background work, applied on the ebiten goroutine
	results chan func()

	view    view
	prevKey map[ebiten.Key]bool

	recordBtn, uploadBtn, weatherBtn *button
	loginBtn, signupBtn, adminBtn    *button
	moodLabel, weatherLabel          label

	form      *panel.Form
	formLabel label
	closeAt   time.Time
	retryBtn  *button
	backBtn   *button

	users                 []api.User
	deleteBtns            []*button
	refreshBtn, exportBtn *button
	adminLabel            label
}

// New builds the window state. Nothing is shown until Run.
func New(ctx context.Context, opts Options) *Game {
	ctx, cancel := context.WithCancel(ctx)
	g := &Game{
		opts:    opts,
		dialogs: opts.Dialogs,
		ctx:     ctx,
		cancel:  cancel,
		loop:    particles.NewLoop(particles.NewAnimator(opts.Style, nil)),
		width:   opts.Width,
		height:  opts.Height,
		levels:  make([]float64, meterBands),
		results: make(chan func(), resultBuf),
		prevKey: map[ebiten.Key]bool{},
	}
	if g.dialogs == nil {
		g.dialogs = zenityDialogs{}
	}
	g.loop.Resize(float64(g.width), float64(g.height))

	row := func(i int) int { return buttonY + i*(buttonHeight+buttonGap) }
	g.recordBtn = newButton(buttonX, row(0), "Start Recording")
	g.uploadBtn = newButton(buttonX, row(1), "Upload File")
	g.weatherBtn = newButton(buttonX, row(2), "Weather")
	g.loginBtn = newButton(buttonX, row(3), "Log in")
	g.signupBtn = newButton(buttonX, row(4), "Sign up")
	g.adminBtn = newButton(buttonX, row(5), "Admin")

	g.backBtn = newButton(buttonX, row(0), "Back")
	g.retryBtn = newButton(buttonX+buttonWidth+buttonGap, row(0), "Enter details")
	g.refreshBtn = newButton(buttonX+buttonWidth+buttonGap, row(0), "Refresh")
	g.exportBtn = newButton(buttonX+2*(buttonWidth+buttonGap), row(0), "Export CSV")
	return g
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	g := New(ctx, opts)
	defer g.shutdown()

	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// shutdown stops the particle loop, abandons in-flight requests and kills
// any running capture.
func (g *Game) shutdown() {
	g.loop.Stop()
	g.cancel()
	if c := g.opts.Capture; c != nil && c.Recording() {
		if _, err := c.Stop(); err != nil {
			log.Printf("game: stopping capture: %v", err)
		}
	}
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	case <-g.loop.Done():
		return ebiten.Termination
	default:
	}

	g.drain()

	if !g.closeAt.IsZero() && !time.Now().Before(g.closeAt) {
		g.closeAt = time.Time{}
		g.view = mainView
	}

	quit := justPressed(ebiten.KeyQ)
	if justPressed(ebiten.KeyEscape) {
		if g.view != mainView {
			g.view = mainView
		} else {
			quit = true
		}
	}
	if quit {
		g.shutdown()
		return ebiten.Termination
	}

	g.phase += colorShiftSpeed
	g.updateCapture()

	mouseX, mouseY := ebiten.CursorPosition()
	switch g.view {
	case mainView:
		g.updateMain(mouseX, mouseY)
	case accountView:
		g.updateAccount(mouseX, mouseY)
	case adminView:
		g.updateAdmin(mouseX, mouseY)
	}
	return nil
}

func (g *Game) updateMain(mouseX, mouseY int) {
	g.recordBtn.disabled = g.opts.Mood.Busy()
	g.uploadBtn.disabled = g.opts.Mood.Busy() || g.capturing()
	g.weatherBtn.disabled = g.opts.Weather.Busy()

	if g.recordBtn.update(mouseX, mouseY) {
		g.toggleRecording()
	}
	if g.uploadBtn.update(mouseX, mouseY) {
		g.uploadFile()
	}
	if g.weatherBtn.update(mouseX, mouseY) {
		g.fetchWeather()
	}
	if g.loginBtn.update(mouseX, mouseY) {
		g.openForm(g.opts.Login)
	}
	if g.signupBtn.update(mouseX, mouseY) {
		g.openForm(g.opts.Signup)
	}
	if g.adminBtn.update(mouseX, mouseY) {
		g.view = adminView
		g.loadUsers()
	}
}

func (g *Game) updateAccount(mouseX, mouseY int) {
	g.retryBtn.disabled = g.form.Busy() || !g.closeAt.IsZero()
	if g.backBtn.update(mouseX, mouseY) {
		g.closeAt = time.Time{}
		g.view = mainView
		return
	}
	if g.retryBtn.update(mouseX, mouseY) {
		g.submitForm()
	}
}

func (g *Game) updateAdmin(mouseX, mouseY int) {
	busy := g.opts.Users.Busy()
	g.refreshBtn.disabled = busy
	g.exportBtn.disabled = busy

	if g.backBtn.update(mouseX, mouseY) {
		g.view = mainView
		return
	}
	if g.refreshBtn.update(mouseX, mouseY) {
		g.loadUsers()
	}
	if g.exportBtn.update(mouseX, mouseY) {
		g.exportUsers()
	}
	for i, b := range g.deleteBtns {
		b.disabled = busy
		if b.update(mouseX, mouseY) {
			g.deleteUser(g.users[i].Username)
		}
	}
}

// post hands fn to the ebiten goroutine. It never blocks past shutdown.
func (g *Game) post(fn func()) {
	select {
	case g.results <- fn:
	case <-g.ctx.Done():
	}
}

func (g *Game) drain() {
	for {
		select {
		case fn := <-g.results:
			fn()
		default:
			return
		}
	}
}

func failed(msg string) panel.Status {
	return panel.Status{Lines: []string{msg}, Tone: panel.Failure}
}

func (g *Game) updateCapture() {
	c := g.opts.Capture
	if c == nil || !c.Recording() {
		return
	}
	if tap := c.Tap(); tap != nil {
		tap.Levels(g.levels, meterWindow, smoothingFactor)
	}
	if c.Full() {
		g.stopRecording()
	}
}

func (g *Game) toggleRecording() {
	c := g.opts.Capture
	if c == nil {
		msg := "no capture tool"
		if g.opts.CaptureErr != nil {
			msg = g.opts.CaptureErr.Error()
		}
		g.moodLabel.set(failed("Error: " + msg))
		return
	}
	if c.Recording() {
		g.stopRecording()
		return
	}
	if g.opts.Mood.Busy() {
		return
	}

	g.moodLabel.set(panel.Status{})
	if err := c.Start(g.ctx); err != nil {
		g.moodLabel.set(failed("Error: " + err.Error()))
		return
	}
	clear(g.levels)
	g.recordBtn.label = "Stop Recording"
}

func (g *Game) stopRecording() {
	g.recordBtn.label = "Start Recording"
	rec, err := g.opts.Capture.Stop()
	if err != nil {
		g.moodLabel.set(failed("Error: " + err.Error()))
		return
	}

	mood := g.opts.Mood
	started := mood.Go(func() {
		st, _ := mood.DetectRecording(g.ctx, rec)
		g.post(func() { g.moodLabel.set(st) })
	})
	if started {
		g.moodLabel.set(mood.Pending())
	}
}

func (g *Game) capturing() bool {
	return g.opts.Capture != nil && g.opts.Capture.Recording()
}

// uploadFile asks for an audio file and sends it through the same mood
// upload as a microphone take.
func (g *Game) uploadFile() {
	mood := g.opts.Mood
	mood.Go(func() {
		path, err := g.dialogs.OpenAudio()
		if errors.Is(err, zenity.ErrCanceled) {
			return
		}
		if err != nil {
			g.post(func() { g.moodLabel.set(failed("Error: " + err.Error())) })
			return
		}
		g.post(func() { g.moodLabel.set(mood.Pending()) })
		st := mood.DetectFile(g.ctx, path)
		g.post(func() { g.moodLabel.set(st) })
	})
}

func (g *Game) fetchWeather() {
	w := g.opts.Weather
	started := w.Go(func() {
		st := w.Fetch(g.ctx)
		g.post(func() { g.weatherLabel.set(st) })
	})
	if started {
		g.weatherLabel.set(w.Pending())
	}
}

func (g *Game) openForm(form *panel.Form) {
	if form.Busy() {
		return
	}
	g.form = form
	g.formLabel.set(panel.Status{})
	g.closeAt = time.Time{}
	g.view = accountView
	g.submitForm()
}

func (g *Game) submitForm() {
	form := g.form
	form.Go(func() {
		creds, err := g.dialogs.Credentials(form.Kind())
		if errors.Is(err, zenity.ErrCanceled) {
			return
		}
		if err != nil {
			g.post(func() { g.formLabel.set(failed(err.Error())) })
			return
		}
		st := form.Submit(g.ctx, creds)
		g.post(func() {
			if g.form != form {
				return
			}
			g.formLabel.set(st)
			if st.CloseAfter > 0 {
				g.closeAt = time.Now().Add(st.CloseAfter)
			}
		})
	})
}

func (g *Game) setUsers(users []api.User) {
	g.users = users
	g.deleteBtns = g.deleteBtns[:0]
	top := g.tableTop()
	for i := range users {
		b := &button{x: buttonX + 280, y: top + i*rowHeight, w: 80, h: rowHeight - 6, label: "Delete"}
		g.deleteBtns = append(g.deleteBtns, b)
	}
}

func (g *Game) tableTop() int {
	return buttonY + buttonHeight + 48
}

func (g *Game) loadUsers() {
	u := g.opts.Users
	u.Go(func() {
		users, st := u.Load(g.ctx)
		g.post(func() {
			g.setUsers(users)
			g.adminLabel.set(st)
		})
	})
}

func (g *Game) deleteUser(username string) {
	u := g.opts.Users
	u.Go(func() {
		ok, err := g.dialogs.Confirm(panel.ConfirmDeleteText(username))
		if err != nil {
			g.post(func() { g.adminLabel.set(failed(err.Error())) })
			return
		}
		if !ok {
			return
		}
		users, st := u.Delete(g.ctx, username)
		if st.Failed() {
			g.dialogs.Error(st.Text())
		}
		g.post(func() {
			g.setUsers(users)
			g.adminLabel.set(st)
		})
	})
}

func (g *Game) exportUsers() {
	u := g.opts.Users
	u.Go(func() {
		path, err := g.dialogs.SavePath("users.csv")
		if errors.Is(err, zenity.ErrCanceled) {
			return
		}
		if err != nil {
			g.post(func() { g.adminLabel.set(failed(err.Error())) })
			return
		}
		f, err := os.Create(path)
		if err != nil {
			g.post(func() { g.adminLabel.set(failed("Export failed: " + err.Error())) })
			return
		}
		st := u.Export(g.ctx, f, path)
		if err := f.Close(); err != nil && !st.Failed() {
			st = failed("Export failed: " + err.Error())
		}
		g.post(func() { g.adminLabel.set(st) })
	})
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.img = screen
	g.surface.phase = g.phase * 10
	if !g.loop.Frame(&g.surface) {
		screen.Fill(background)
	}

	switch g.view {
	case mainView:
		g.drawMain(screen)
	case accountView:
		g.drawAccount(screen)
	case adminView:
		g.drawAdmin(screen)
	}

	ebitenutil.DebugPrintAt(screen, g.help(), 12, 12)
}

func (g *Game) help() string {
	switch g.view {
	case accountView:
		return "Esc: back, Q: quit"
	case adminView:
		return fmt.Sprintf("%d users - Esc: back, Q: quit", len(g.users))
	default:
		return "moodwave - Esc/Q: quit"
	}
}

func (g *Game) drawMain(screen *ebiten.Image) {
	for _, b := range []*button{g.recordBtn, g.uploadBtn, g.weatherBtn, g.loginBtn, g.signupBtn, g.adminBtn} {
		b.draw(screen)
	}
	g.moodLabel.draw(screen, statusX, g.recordBtn.y+10)
	g.weatherLabel.draw(screen, statusX, g.weatherBtn.y+2)

	if g.capturing() {
		g.drawMeter(screen, g.opts.Capture.Elapsed(), g.opts.MaxRecording)
	}
}

func (g *Game) drawAccount(screen *ebiten.Image) {
	g.backBtn.draw(screen)
	g.retryBtn.draw(screen)
	title := "Log in"
	if g.form != nil && g.form.Kind() == panel.SignupForm {
		title = "Sign up"
	}
	ebitenutil.DebugPrintAt(screen, title, buttonX, g.tableTop()-24)
	g.formLabel.draw(screen, buttonX, g.tableTop())
}

func (g *Game) drawAdmin(screen *ebiten.Image) {
	g.backBtn.draw(screen)
	g.refreshBtn.draw(screen)
	g.exportBtn.draw(screen)
	g.adminLabel.draw(screen, g.exportBtn.x+buttonWidth+16, g.exportBtn.y+10)

	top := g.tableTop()
	ebitenutil.DebugPrintAt(screen, "Username", buttonX, top-20)
	for i, u := range g.users {
		y := top + i*rowHeight
		if y+rowHeight > g.height {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("... %d more", len(g.users)-i), buttonX, y+4)
			break
		}
		ebitenutil.DebugPrintAt(screen, u.Username, buttonX, y+4)
		g.deleteBtns[i].draw(screen)
	}
}

// Layout follows the window size and regenerates the particle field when
// it changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.width, g.height
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.loop.Resize(float64(g.width), float64(g.height))
	}
	return g.width, g.height
}
