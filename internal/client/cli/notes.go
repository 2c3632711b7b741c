package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/iudanet/sidenotes/pkg/api"
)

// RunList prints the loaded collection, newest first.
func (c *Cli) RunList(_ context.Context) error {
	notes := c.session.Machine().Notes()
	if len(notes) == 0 {
		c.io.Println("No notes yet.")
		c.io.Println("Use 'sidenotes add <content>' to create one.")
		return nil
	}

	if err := notesTmpl.Execute(c.io, notes); err != nil {
		return fmt.Errorf("failed to render notes: %w", err)
	}
	return nil
}

// RunShow prints one note with its full content.
func (c *Cli) RunShow(_ context.Context, id string) error {
	note, ok := c.session.Machine().Note(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}

	if err := noteTmpl.Execute(c.io, note); err != nil {
		return fmt.Errorf("failed to render note: %w", err)
	}
	return nil
}

// RunAdd creates a note and waits until the relay has stored it.
func (c *Cli) RunAdd(ctx context.Context, content string) error {
	content, err := c.readContent(content, "Content: ")
	if err != nil {
		return err
	}

	cmd := c.session.Machine().CreateNote(content)
	if _, err := c.request(ctx, cmd, replyTo(api.EventCreated, cmd.ID)); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	c.io.Printf("Created note %s\n", cmd.ID)
	return nil
}

// RunEdit replaces the content of a note and waits for the synced echo.
func (c *Cli) RunEdit(ctx context.Context, id, content string) error {
	machine := c.session.Machine()
	if _, ok := machine.Note(id); !ok {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}

	content, err := c.readContent(content, "New content: ")
	if err != nil {
		return err
	}

	cmd := machine.UpdateNote(id, content)
	if _, err := c.request(ctx, cmd, replyTo(api.EventSynced, id)); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	c.io.Printf("Saved note %s\n", id)
	return nil
}

// RunDelete removes a note.
func (c *Cli) RunDelete(ctx context.Context, id string) error {
	machine := c.session.Machine()
	if _, ok := machine.Note(id); !ok {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}

	cmd := machine.DeleteNote(id)
	if _, err := c.request(ctx, cmd, replyTo(api.EventDeleted, id)); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	c.io.Printf("Deleted note %s\n", id)
	return nil
}

// RunUsage asks the relay for the current quota usage.
func (c *Cli) RunUsage(ctx context.Context) error {
	cmd := api.Command{Action: api.ActionGetUsage, Origin: c.session.Machine().Origin()}

	ev, err := c.request(ctx, cmd, func(ev api.Event) (bool, error) {
		switch {
		case ev.Action == api.EventUsage && ev.Usage != nil:
			return true, nil
		case ev.Action == api.EventError && ev.ID == "":
			return true, fmt.Errorf("%w: %s", ErrRelay, ev.Message)
		}
		return false, nil
	})
	if err != nil {
		return fmt.Errorf("failed to get usage: %w", err)
	}

	c.io.Printf("Storage: %s of %s used (%.1f%%)\n",
		humanize.IBytes(uint64(ev.Usage.Used)),
		humanize.IBytes(uint64(ev.Usage.Total)),
		ev.Usage.Percentage,
	)
	return nil
}
