package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"
)

// Prompt is the line based menu.
type Prompt struct {
	*App
	In *bufio.Reader
}

func (p *Prompt) readLine(prompt string) (string, bool) {
	fmt.Fprint(p.Out, prompt)

	line, err := p.In.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (p *Prompt) Run() {
	for {
		fmt.Fprintln(p.Out)
		fmt.Fprintln(p.Out, "Morse Code Decoder")
		for i, item := range menuItems {
			fmt.Fprintf(p.Out, "%d. %s\n", i+1, item)
		}

		choice, ok := p.readLine(fmt.Sprintf("Enter your choice (1-%d): ", len(menuItems)))
		if !ok {
			return
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if text, ok := p.readLine("Enter text to convert: "); ok {
				labelColor.Fprint(p.Out, "Morse code: ")
				codeColor.Fprintln(p.Out, p.Encode(text))
			}

		case "2":
			if code, ok := p.readLine("Enter Morse code (spaces between letters, three between words): "); ok {
				labelColor.Fprint(p.Out, "Decoded text: ")
				fmt.Fprintln(p.Out, p.Decode(code))
			}

		case "3":
			if path, ok := p.readLine("Enter audio file path (.wav or .mp3): "); ok {
				r, err := p.DecodeFile(strings.TrimSpace(path))
				if err != nil {
					p.PrintError(err)
					continue
				}
				p.Print(r)
			}

		case "4":
			if !p.live() {
				return
			}

		case "5", "q", "quit", "exit":
			return

		default:
			warnColor.Fprintln(p.Out, "Invalid choice!")
		}
	}
}

// live records until Enter (or the configured length). It reports false
// when the recording was interrupted and the menu should end.
func (p *Prompt) live() bool {
	session, err := p.NewSession()
	if err != nil {
		p.PrintError(err)
		return true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := session.Start(); err != nil {
		p.PrintError(err)
		return true
	}

	var timeout <-chan time.Time
	if p.Length > 0 {
		fmt.Fprintf(p.Out, "Recording for %v...\n", p.Length)
		timeout = time.After(p.Length)
	} else {
		fmt.Fprintln(p.Out, "Recording, press Enter to stop...")
	}

	enter := make(chan struct{})
	if timeout == nil {
		go func() {
			p.In.ReadString('\n')
			close(enter)
		}()
	}

	interrupted := false
	select {
	case <-enter:
	case <-timeout:
	case <-ctx.Done():
		interrupted = true
	}

	take, err := session.Stop()
	if err != nil {
		p.PrintError(err)
		return !interrupted
	}

	p.Print(p.Finish(take))
	return !interrupted
}
