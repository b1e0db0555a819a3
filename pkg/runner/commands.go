package runner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/hornbill/internal/presentation/report"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ErrUsage reports a command the runner could not understand.
var ErrUsage = errors.New("usage")

// Help lists the commands the runner understands.
const Help = `Commands:
  dates quick <days>            travel from tomorrow for <days> days
  dates custom <start> <end>    explicit range, YYYY-MM-DD
  dates preset <id>             festival dates, e.g. "dates preset hornbill"
  destinations <id>...          replace the destination list
  experiences <id>...           replace the experience list
  currency <code>               display costs in another currency
  list destinations [category]  destinations you can pick right now
  list experiences [category]   bookable experiences
  catalog [category]            everything on offer
  set <field> <value>           fill in a contact field (name, email, phone,
                                nationality, preferred_contact, group_size,
                                arrival_details, dietary_restrictions,
                                special_requests)
  contact                       show the contact draft
  next | back                   move between steps
  submit                        send the trip request
  summary                       show the trip so far
  quit                          leave; progress is kept`

// ParseCommand splits a command line into its name and arguments.
func ParseCommand(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}
}

// outcome is the result of one command.
type outcome struct {
	session *domain.Session
	data    any
	report  bool
}

func (r *Runner) execute(ctx context.Context, s *domain.Session, cmd Command) (outcome, error) {
	id := s.ID
	single := func(next *domain.Session, err error) (outcome, error) {
		return outcome{session: next}, err
	}

	switch cmd.Name {
	case "help", "?":
		return outcome{data: Help}, nil
	case "summary", "show":
		return outcome{session: s, report: true}, nil
	case "contact":
		if s.Contact == nil {
			return outcome{data: "No contact details yet. Use: set <field> <value>"}, nil
		}
		return outcome{data: *s.Contact}, nil
	case "catalog":
		return outcome{data: report.Catalog(r.Planner.Catalog(), arg(cmd, 0))}, nil
	case "list", "ls":
		switch arg(cmd, 0) {
		case "destinations":
			dests, err := r.Planner.AvailableDestinations(ctx, id, arg(cmd, 1))
			return outcome{data: dests}, err
		case "experiences":
			return outcome{data: r.Planner.Catalog().ExperiencesIn(arg(cmd, 1))}, nil
		default:
			return outcome{}, fmt.Errorf("%w: list destinations|experiences [category]", ErrUsage)
		}
	case "dates":
		in, err := parseDates(cmd.Args)
		if err != nil {
			return outcome{}, err
		}
		return single(r.Planner.SelectDates(ctx, id, in))
	case "destinations":
		return single(r.Planner.SelectDestinations(ctx, id, splitIDs(cmd.Args)))
	case "experiences":
		return single(r.Planner.SelectExperiences(ctx, id, splitIDs(cmd.Args)))
	case "currency":
		if len(cmd.Args) != 1 {
			return outcome{}, fmt.Errorf("%w: currency <code>", ErrUsage)
		}
		return single(r.Planner.SelectCurrency(ctx, id, strings.ToUpper(cmd.Args[0])))
	case "set":
		if len(cmd.Args) < 1 {
			return outcome{}, fmt.Errorf("%w: set <field> <value>", ErrUsage)
		}
		contact := domain.ContactDetails{}
		if s.Contact != nil {
			contact = *s.Contact
		}
		contact, err := setField(contact, cmd.Args[0], strings.Join(cmd.Args[1:], " "))
		if err != nil {
			return outcome{}, err
		}
		return single(r.Planner.UpdateContact(ctx, id, contact))
	case "next", "advance":
		return single(r.Planner.Advance(ctx, id))
	case "back", "retreat":
		return single(r.Planner.Retreat(ctx, id))
	case "submit":
		contact := domain.ContactDetails{}
		if s.Contact != nil {
			contact = *s.Contact
		}
		return single(r.Planner.Submit(ctx, id, contact))
	default:
		return outcome{}, fmt.Errorf("%w: unknown command %q, try help", ErrUsage, cmd.Name)
	}
}

func arg(cmd Command, i int) string {
	if i < len(cmd.Args) {
		return cmd.Args[i]
	}
	return ""
}

func parseDates(args []string) (domain.DateInput, error) {
	if len(args) == 0 {
		return domain.DateInput{}, fmt.Errorf("%w: dates quick|custom|preset ...", ErrUsage)
	}
	kind := strings.ToLower(args[0])
	switch kind {
	case string(domain.DateQuick):
		if len(args) != 2 {
			return domain.DateInput{}, fmt.Errorf("%w: dates quick <days>", ErrUsage)
		}
		days, err := strconv.Atoi(args[1])
		if err != nil {
			return domain.DateInput{}, fmt.Errorf("%w: %q is not a number of days", ErrUsage, args[1])
		}
		return domain.QuickDates(days), nil
	case string(domain.DateCustom):
		if len(args) != 3 {
			return domain.DateInput{}, fmt.Errorf("%w: dates custom <start> <end>", ErrUsage)
		}
		return domain.ParseDateInput(kind, 0, args[1], args[2], "")
	case string(domain.DatePreset):
		if len(args) != 2 {
			return domain.DateInput{}, fmt.Errorf("%w: dates preset <id>", ErrUsage)
		}
		return domain.PresetDates(args[1]), nil
	default:
		return domain.ParseDateInput(kind, 0, "", "", "")
	}
}

// splitIDs accepts both "a b" and "a,b".
func splitIDs(args []string) []string {
	var ids []string
	for _, a := range args {
		ids = append(ids, strings.Split(a, ",")...)
	}
	return ids
}

// setField writes value into the contact field named by its JSON name.
func setField(contact domain.ContactDetails, field, value string) (domain.ContactDetails, error) {
	field = strings.ReplaceAll(strings.ToLower(field), "-", "_")
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		Result:      &contact,
	})
	if err != nil {
		return contact, err
	}
	if err := dec.Decode(map[string]any{field: value}); err != nil {
		return contact, fmt.Errorf("%w: unknown contact field %q", ErrUsage, field)
	}
	return contact, nil
}
