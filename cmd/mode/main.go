package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"morsetone/internal/audio/portaudio"
	"morsetone/internal/config"
	"morsetone/internal/logging"
)

func main() {
	cfg := config.Default()

	encode := flag.String("encode", "", "encode text to Morse code and exit")
	decode := flag.String("decode", "", "decode Morse code (letters separated by spaces) and exit")
	live := flag.Bool("live", false, "decode from the input device")
	seconds := flag.Float64("seconds", 0, "live recording length in seconds (0: until interrupted)")
	dev := flag.String("device", "", "input audio device, by number or name (default input if empty)")
	save := flag.String("save", "", "save live recordings to this WAV file")
	list := flag.Bool("list", false, "list audio devices")
	noui := flag.Bool("noui", false, "line based menu instead of the terminal UI")

	flag.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "sample rate (in Hz)")
	flag.IntVar(&cfg.ChunkSize, "chunk", cfg.ChunkSize, "frames per capture block")
	flag.IntVar(&cfg.MaxBlocks, "maxblocks", cfg.MaxBlocks, "capture queue limit in blocks (0: unbounded)")
	flag.Float64Var(&cfg.LowCut, "lowcut", cfg.LowCut, "bandpass low cut (in Hz)")
	flag.Float64Var(&cfg.HighCut, "highcut", cfg.HighCut, "bandpass high cut (in Hz)")
	flag.IntVar(&cfg.Order, "order", cfg.Order, "Butterworth filter order")
	flag.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "envelope threshold (0.0-1.0 of the loudest sample)")
	flag.Float64Var(&cfg.DotDuration, "dot", cfg.DotDuration, "shortest dot (in seconds), shorter tones are ignored")
	flag.Float64Var(&cfg.DashDuration, "dash", cfg.DashDuration, "shortest dash (in seconds)")
	flag.Float64Var(&cfg.LetterGap, "gap", cfg.LetterGap, "silence between letters (in seconds)")
	flag.DurationVar(&cfg.SmoothWindow, "smooth", cfg.SmoothWindow, "RMS smoothing window for the envelope (0: none)")
	flag.BoolVar(&cfg.FlushTrailing, "flush", cfg.FlushTrailing, "keep a tone still sounding at the end of the audio")

	flag.Parse()

	log := logging.Init()
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := &App{
		Config: cfg,
		Device: *dev,
		Length: time.Duration(*seconds * float64(time.Second)),
		Save:   *save,
		Out:    os.Stdout,
		Log:    log,
	}

	switch {
	case *encode != "":
		fmt.Println(app.Encode(*encode))
		return

	case *decode != "":
		fmt.Println(app.Decode(*decode))
		return

	case flag.NArg() >= 1 && !*live:
		for _, path := range flag.Args() {
			r, err := app.DecodeFile(path)
			if err != nil {
				log.Error("decode failed", zap.String("file", path), zap.Error(err))
				os.Exit(1)
			}
			app.Print(r)
		}
		return
	}

	// everything below may need the sound card
	terminate, err := portaudio.Init()
	if err != nil {
		log.Fatal("audio", zap.Error(err))
	}
	defer terminate()

	switch {
	case *list:
		listDevices()

	case *live:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if app.Length == 0 {
			fmt.Println("Recording, press ^C to stop...")
		}

		r, err := app.DecodeLive(ctx)
		if err != nil {
			app.PrintError(err)
			return
		}
		app.Print(r)

	case *noui:
		prompt := &Prompt{App: app, In: bufio.NewReader(os.Stdin)}
		prompt.Run()

	default:
		if err := runMenu(app); err != nil {
			log.Error("menu", zap.Error(err))
		}
	}
}

func listDevices() {
	l, err := portaudio.ListDevices(portaudio.InOut)
	if err != nil {
		logging.Logger().Fatal("list devices", zap.Error(err))
	}

	writeDevices(os.Stdout, l, portaudio.DefaultInput())
}

// writeDevices prints devices with the numbers -device accepts.
func writeDevices(w io.Writer, devices []string, defaultInput string) {
	labelColor.Fprintln(w, "Audio devices (use -device N or a name prefix):")
	for i, d := range devices {
		fmt.Fprintf(w, "%3d  %s\n", i+1, d)
	}

	if defaultInput != "" {
		fmt.Fprintln(w)
		labelColor.Fprint(w, "Default input: ")
		fmt.Fprintln(w, defaultInput)
	}
}
