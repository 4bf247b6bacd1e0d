package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/mediaerr"
	"github.com/PizzaHomicide/playstate/internal/player"
	"github.com/PizzaHomicide/playstate/internal/provider"
)

// runHeadless loads the start source and prints every provider signal until the playlist is finished, the backend
// exits or ctx is cancelled.  A failed source is skipped in favour of the next one.
//
// The run is finished once the state reaches complete.  With auto-advance on the session loads the next source
// before anything completes, so complete only arrives when nothing further will be played.
func runHeadless(ctx context.Context, session *player.Session, start int, out io.Writer) error {
	p := session.Provider()
	signals := p.Subscribe()
	defer p.Unsubscribe(signals)

	if err := session.Load(start); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("Interrupted, stopping playback")
			return nil
		case <-session.Backend().Done():
			log.Info("Playback backend exited")
			return nil
		case ev, ok := <-signals:
			if !ok {
				return nil
			}
			_, _ = fmt.Fprintln(out, describeEvent(ev))
			log.Debug("Provider signal", "signal", ev.Signal.String())

			if ev.Signal != provider.SignalStateChanged {
				continue
			}
			st, _ := ev.Payload.(provider.StatePayload)
			switch st.Current {
			case provider.StateComplete:
				log.Info("Playback complete", "source", p.CurrentSource())
				return nil
			case provider.StateError:
				if _, more := p.NextSource(); !more {
					return nil
				}
				if err := session.Next(); err != nil {
					return err
				}
			}
		}
	}
}

// describeEvent renders a provider signal as a single line
func describeEvent(ev provider.Event) string {
	name := ev.Signal.String()
	switch payload := ev.Payload.(type) {
	case provider.MetaPayload:
		duration := fmt.Sprintf("%.3f", payload.Duration)
		if math.IsInf(payload.Duration, 1) {
			duration = "live"
		}
		return fmt.Sprintf("%-13s duration=%s type=%s", name, duration, payload.Type)
	case provider.BufferPayload:
		return fmt.Sprintf("%-13s buffer=%.1f%% position=%.3f", name, payload.BufferPercent, payload.Position)
	case provider.TimePayload:
		return fmt.Sprintf("%-13s position=%.3f duration=%.3f", name, payload.Position, payload.Duration)
	case provider.SeekPayload:
		return fmt.Sprintf("%-13s position=%.3f", name, payload.Position)
	case provider.VolumePayload:
		return fmt.Sprintf("%-13s volume=%d mute=%t", name, payload.Volume, payload.Mute)
	case provider.StatePayload:
		return fmt.Sprintf("%-13s %s -> %s", name, payload.Previous, payload.Current)
	case *mediaerr.Error:
		return fmt.Sprintf("%-13s code=%d %s", name, payload.Code, payload.Error())
	default:
		return name
	}
}
