package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/hornbill/pkg/domain"
)

// SubmittedNode is the terminal node drawn after the review step.
const SubmittedNode = "submitted"

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFor builds the overlay of a session: every step in its history is
// visited and the active step (or the submitted node) is current.
func OverlayFor(s *domain.Session) *GraphOverlay {
	if s == nil {
		return nil
	}
	o := &GraphOverlay{}
	for _, step := range s.History {
		o.VisitedNodes = append(o.VisitedNodes, step.String())
	}
	o.CurrentNode = s.Wizard.ActiveStep.String()
	if s.Submitted() {
		o.VisitedNodes = append(o.VisitedNodes, o.CurrentNode)
		o.CurrentNode = SubmittedNode
	}
	return o
}

// gate labels the condition for leaving a step forwards.
var gate = map[domain.Step]string{
	domain.StepDates:        "dates chosen",
	domain.StepDestinations: "1+ destination",
	domain.StepExperiences:  "optional",
	domain.StepReview:       "contact valid",
}

// GenerateMermaid produces a Mermaid flowchart of the wizard steps.
// It applies semantic styling:
// - First step: ((Circle))
// - Review (contact form): [/Parallelogram/]
// - Submitted: [[Subroutine]]
// - Default: [Rectangle]
// Forward edges carry the gate condition; back edges are dotted.
func GenerateMermaid(steps []domain.Step, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, step := range steps {
		opener, closer := "[", "]"
		switch {
		case step == domain.FirstStep:
			opener, closer = "((", "))"
		case step == domain.StepReview:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%d. %s\"%s\n", step, opener, int(step), step.Label(), closer))
	}
	sb.WriteString(fmt.Sprintf("    %s[[\"Trip plan\"]]\n", SubmittedNode))

	for i, step := range steps {
		to := SubmittedNode
		if i+1 < len(steps) {
			to = steps[i+1].String()
		}
		label := strings.ReplaceAll(gate[step], "\"", "'")
		if label == "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", step, to))
		} else {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", step, label, to))
		}
		if i > 0 {
			sb.WriteString(fmt.Sprintf("    %s -. back .-> %s\n", step, steps[i-1]))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			if !visitedSet[id] && id != "" && id != overlay.CurrentNode {
				visitedSet[id] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
			}
		}

		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", overlay.CurrentNode))
		}
	}

	return sb.String()
}
