package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/sidenotes/pkg/api"
)

// RunWatch prints every relay event until ctx is canceled.
func (c *Cli) RunWatch(ctx context.Context) error {
	c.io.Printf("Watching notes as %s, press Ctrl+C to stop\n", c.session.Machine().Origin())

	remove := c.session.Observe(func(ev api.Event) {
		c.io.Println(describeEvent(time.Now(), ev))
	})
	defer remove()

	<-ctx.Done()
	return nil
}

// describeEvent форматирует событие в одну строку
func describeEvent(at time.Time, ev api.Event) string {
	var b strings.Builder
	b.WriteString("[" + at.Format("15:04:05") + "] " + ev.Action)

	if ev.ID != "" {
		b.WriteString(" " + ev.ID)
	}
	if ev.From != "" {
		b.WriteString(" from " + ev.From)
	}

	switch ev.Action {
	case api.EventLoaded:
		b.WriteString(": " + plural(len(ev.Notes), "note"))
	case api.EventChanged:
		parts := make([]string, 0, len(ev.Changes))
		for _, ch := range ev.Changes {
			parts = append(parts, ch.Type+" "+ch.ID)
		}
		b.WriteString(": " + strings.Join(parts, ", "))
	case api.EventError:
		b.WriteString(": " + ev.Message)
	case api.EventUsage:
		if ev.Usage != nil {
			b.WriteString(": " + plural(ev.Usage.Used, "byte"))
		}
	}
	return b.String()
}

func plural(n int, word string) string {
	s := strconv.Itoa(n) + " " + word
	if n != 1 {
		s += "s"
	}
	return s
}
