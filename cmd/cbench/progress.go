package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/guiguan/caster"
)

// event announces the start or end of a workload phase.
type event struct {
	engine string
	phase  string
	done   bool
	err    error
	final  bool
}

// progress broadcasts phase events to a console subscriber.
type progress struct {
	cast *caster.Caster
	done chan struct{}
}

func startProgress(w io.Writer) (*progress, error) {
	p := &progress{
		cast: caster.New(nil),
		done: make(chan struct{}),
	}
	ch, ok := p.cast.Sub(context.Background(), 16)
	if !ok {
		return nil, errors.New("cannot subscribe to progress events")
	}
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	go func() {
		defer close(p.done)
		for m := range ch {
			ev, _ := m.(event)
			switch {
			case ev.final:
				return
			case !ev.done:
				fmt.Fprintf(w, "%-5s %-7s ...\n", ev.engine, ev.phase)
			case ev.err != nil:
				fmt.Fprintf(w, "%-5s %-7s %s %v\n", ev.engine, ev.phase, fail("FAIL"), ev.err)
			default:
				fmt.Fprintf(w, "%-5s %-7s %s\n", ev.engine, ev.phase, pass("ok"))
			}
		}
	}()
	return p, nil
}

func (p *progress) publish(ev event) {
	p.cast.Pub(ev)
}

// stop waits for the subscriber to drain all events and closes the broadcaster.
func (p *progress) stop() {
	p.cast.Pub(event{final: true})
	<-p.done
	p.cast.Close()
}
