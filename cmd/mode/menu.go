package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	component "github.com/j-04/gocui-component"
	"github.com/jroimartin/gocui"

	"morsetone/internal/audio/portaudio"
	"morsetone/internal/capture"
)

var menuItems = []string{
	"Text to Morse Code",
	"Morse Code to Text",
	"Audio File to Morse Code",
	"Live Audio to Morse Code",
	"Exit",
}

const defaultDevice = "(default input)"

var (
	FormSelect = fmt.Errorf("form-selected")
	FormCancel = fmt.Errorf("form-cancel")
)

// runMenu shows the action form until Exit, keeping the last result on
// screen above it.
func runMenu(app *App) error {
	var last bytes.Buffer
	last.WriteString("Select an action. Live decoding uses the input for the recording length in seconds (empty: until stopped).")

	for {
		action, input, err := selectAction(last.String())
		if err != nil {
			return err
		}

		last.Reset()

		switch action {
		case menuItems[0]:
			labelColor.Fprint(&last, "Morse code: ")
			codeColor.Fprintln(&last, app.Encode(input))

		case menuItems[1]:
			labelColor.Fprint(&last, "Decoded text: ")
			fmt.Fprintln(&last, app.Decode(input))

		case menuItems[2]:
			r, err := app.DecodeFile(strings.TrimSpace(input))
			if err != nil {
				writeError(&last, err)
				break
			}
			writeResult(&last, r)

		case menuItems[3]:
			if s := strings.TrimSpace(input); s != "" {
				secs, err := strconv.ParseFloat(s, 64)
				if err != nil || secs < 0 {
					writeError(&last, fmt.Errorf("invalid recording length %q", s))
					break
				}
				app.Length = time.Duration(secs * float64(time.Second))
			}

			dev, ok, err := selectDevice()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			app.Device = dev

			r, err := liveView(app)
			if err != nil {
				writeError(&last, err)
				break
			}
			writeResult(&last, r)

		default:
			return nil
		}
	}
}

func selectAction(last string) (action, input string, err error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return "", "", err
	}
	defer g.Close()

	maxX, _ := g.Size()

	v, err := g.SetView("result", 0, 0, maxX-1, 8)
	if err != nil && err != gocui.ErrUnknownView {
		return "", "", err
	}
	v.Title = "MoDe - Morse Decoder"
	v.Wrap = true
	fmt.Fprint(v, last)

	form := component.NewForm(g, "Menu", 2, 10, 0, 0)
	sel := form.AddSelect("Action:", 8, 30).AddOptions(menuItems...)
	field := form.AddInputField("Input:", 8, 50)

	form.AddButton("Run", func(g *gocui.Gui, v *gocui.View) error {
		action = sel.GetSelected()
		input = field.GetFieldText()
		form.Close(g, v)
		return FormSelect
	})

	form.AddButton("Quit", func(g *gocui.Gui, v *gocui.View) error {
		action = menuItems[len(menuItems)-1]
		form.Close(g, v)
		return FormCancel
	})

	form.Draw()

	if err := g.MainLoop(); err != FormSelect && err != FormCancel {
		return "", "", err
	}

	return action, input, nil
}

func selectDevice() (dev string, ok bool, err error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return "", false, err
	}
	defer g.Close()

	list, err := portaudio.ListDevices(portaudio.In)
	if err != nil {
		return "", false, err
	}

	form := component.NewForm(g, "Select input device", 8, len(list)+1, 0, 0)
	sel := form.AddSelect("Device:", 8, 40).AddOptions(append([]string{defaultDevice}, list...)...)

	form.AddButton("Select", func(g *gocui.Gui, v *gocui.View) error {
		if dev = sel.GetSelected(); dev == defaultDevice {
			dev = ""
		}
		ok = true
		form.Close(g, v)
		return FormSelect
	})

	form.AddButton("Cancel", func(g *gocui.Gui, v *gocui.View) error {
		form.Close(g, v)
		return FormCancel
	})

	form.Draw()

	if err := g.MainLoop(); err != FormSelect && err != FormCancel {
		return "", false, err
	}

	return dev, ok, nil
}

// recorder is the live recording screen.
type recorder struct {
	*App
	session   *capture.Session
	startTime time.Time
}

func (rec *recorder) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	vinfo, err := g.SetView("info", 0, 0, maxX-1, 2)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}

		vinfo.Title = "MoDe - Recording"
	}

	vmain, err := g.SetView("main", 0, 3, maxX-1, maxY-4)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}

		vmain.Title = "Settings"
		vmain.Wrap = true

		cfg := rec.Config
		fmt.Fprintf(vmain, "Device: %s\n", deviceName(rec.Device))
		fmt.Fprintf(vmain, "Band: %v-%vHz order %d  Threshold: %v\n", cfg.LowCut, cfg.HighCut, cfg.Order, cfg.Threshold)
		fmt.Fprintf(vmain, "Dot: %vs  Dash: %vs  Letter gap: %vs\n", cfg.DotDuration, cfg.DashDuration, cfg.LetterGap)
	}

	vcmd, err := g.SetView("cmdline", 0, maxY-3, maxX-1, maxY-1)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}

		vcmd.Title = "Available commands"
		fmt.Fprintf(vcmd, "^C/^Q/Enter: stop and decode")
	}

	d := time.Since(rec.startTime)
	captured := float64(rec.session.Buffered()*rec.Config.ChunkSize) / float64(rec.Config.SampleRate)

	vinfo.Clear()
	vinfo.SetOrigin(0, 0)
	fmt.Fprintf(vinfo, "[%v] captured: %.1fs  device warnings: %d",
		d.Truncate(time.Second).String(), captured, rec.session.Warnings())

	if rec.Length > 0 {
		fmt.Fprintf(vinfo, "  length: %v", rec.Length)
	}

	return nil
}

func (rec *recorder) SetKeyBinding(g *gocui.Gui) error {
	quit := func(g *gocui.Gui, v *gocui.View) error {
		return gocui.ErrQuit
	}

	for _, key := range []gocui.Key{gocui.KeyCtrlC, gocui.KeyCtrlQ, gocui.KeyEnter} {
		if err := g.SetKeybinding("", key, gocui.ModNone, quit); err != nil {
			return err
		}
	}

	return nil
}

func deviceName(dev string) string {
	if dev == "" {
		return defaultDevice
	}
	return dev
}

// liveView records while showing progress, until a stop key or the
// recording length. The device is always stopped before returning.
func liveView(app *App) (Result, error) {
	session, err := app.NewSession()
	if err != nil {
		return Result{}, err
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return Result{}, err
	}
	defer g.Close()

	rec := &recorder{App: app, session: session, startTime: time.Now()}
	g.SetManagerFunc(rec.Layout)
	if err := rec.SetKeyBinding(g); err != nil {
		return Result{}, err
	}

	if err := session.Start(); err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()

		var timeout <-chan time.Time
		if app.Length > 0 {
			timeout = time.After(app.Length)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-timeout:
				g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
				return
			case <-ticker.C:
				g.Update(func(*gocui.Gui) error { return nil })
			}
		}
	}()

	lerr := g.MainLoop()
	cancel()

	take, err := session.Stop()
	if err != nil {
		return Result{}, err
	}
	if lerr != nil && lerr != gocui.ErrQuit {
		return Result{}, lerr
	}

	return app.Finish(take), nil
}
