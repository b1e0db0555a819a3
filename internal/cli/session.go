package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/pkg/domain"
)

// ListSessions prints every stored session with its step.
func ListSessions(ctx context.Context, p *hornbill.Planner, w io.Writer) error {
	ids, err := p.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}
	slices.Sort(ids)

	fmt.Fprintln(w, "Sessions:")
	for _, id := range ids {
		s, err := p.Get(ctx, id)
		if err != nil {
			fmt.Fprintf(w, "- %s (unreadable: %v)\n", id, err)
			continue
		}
		status := fmt.Sprintf("step %d %s", int(s.Wizard.ActiveStep), s.Wizard.ActiveStep.Label())
		if s.Submitted() {
			status = "submitted " + s.Plan.Reference
		}
		fmt.Fprintf(w, "- %s (%s, updated %s)\n", id, status, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// InspectSession prints the stored session as indented JSON.
func InspectSession(ctx context.Context, p *hornbill.Planner, id string, w io.Writer) error {
	s, err := p.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load session '%s': %w", id, err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// RemoveSessions deletes every listed session, reporting each one.
func RemoveSessions(ctx context.Context, p *hornbill.Planner, ids []string, w io.Writer) error {
	var errs []error
	for _, id := range ids {
		if err := p.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", id)
	}
	return errors.Join(errs...)
}

// Overlay loads a session for the graph command; a missing ID yields nil.
func Overlay(ctx context.Context, p *hornbill.Planner, id string) (*domain.Session, error) {
	if id == "" {
		return nil, nil
	}
	return p.Get(ctx, id)
}
