package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/aretw0/hornbill/pkg/ports"
)

// RedactedValue replaces masked contact fields.
const RedactedValue = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks contact fields of submitted sessions
// whose JSON names match any of the patterns (for example "email|phone").
//
// Drafts are left intact because the wizard still needs them to submit; once the plan
// has been handed to the sink the stored copy no longer has to carry the raw values.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pii pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	if !session.Submitted() || len(m.patterns) == 0 {
		return m.next.Save(ctx, sessionID, session)
	}

	// Work on a copy; the caller keeps using its session.
	cloned := session.Snapshot()

	masked, err := m.mask(cloned.Plan.Contact)
	if err != nil {
		return err
	}
	cloned.Plan.Contact = masked
	if cloned.Contact != nil {
		draft, err := m.mask(*cloned.Contact)
		if err != nil {
			return err
		}
		cloned.Contact = &draft
	}

	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) mask(contact domain.ContactDetails) (domain.ContactDetails, error) {
	raw, err := json.Marshal(contact)
	if err != nil {
		return contact, fmt.Errorf("failed to marshal contact: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return contact, fmt.Errorf("failed to decode contact: %w", err)
	}

	maskMap(fields, m.patterns)

	raw, err = json.Marshal(fields)
	if err != nil {
		return contact, fmt.Errorf("failed to marshal masked contact: %w", err)
	}
	var out domain.ContactDetails
	if err := json.Unmarshal(raw, &out); err != nil {
		return contact, fmt.Errorf("failed to decode masked contact: %w", err)
	}
	return out, nil
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if s, ok := v.(string); !ok || s == "" {
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = RedactedValue
				break
			}
		}
	}
}
