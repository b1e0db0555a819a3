/*
Package hornbill plans trips to Nagaland through a four-step wizard: travel dates,
destinations, experiences and a final review where the traveller leaves contact details.

The wizard is a small deterministic state machine. Every operation takes the stored
session, applies one change, validates it and stores the result, so the same sequence of
operations always produces the same session. A validation failure never loses data: the
session is stored with the message attached and the caller decides how to show it.

# Concept

The Planner is the facade. It owns the catalog (destinations, experiences, festival
presets and currency rates), serializes operations per session and hands every submitted
TripPlan to a PlanSink. Storage, locking, clocks and sinks are ports, so the same planner
runs behind the CLI, the HTTP API and the MCP server.

# Usage

	p, err := hornbill.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	s, _ := p.Start(ctx)
	s, _ = p.SelectDates(ctx, s.ID, domain.PresetDates("hornbill"))
	s, err = p.Advance(ctx, s.ID)
	if domain.IsValidation(err) {
		fmt.Println(s.Wizard.ValidationError)
	}
*/
package hornbill
