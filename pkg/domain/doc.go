/*
Package domain contains the core domain models of the Hornbill trip planner.

It defines the entities the wizard engine operates on, such as the Session,
the wizard Step, the per-step selections and the terminal TripPlan. This package
is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Step: One of the four wizard steps (Dates, Destinations, Experiences, Review).
  - Session: The runtime snapshot of a planning session (step, selections, history).
  - DateSelection / ExperienceSelection: What the traveller picked, with derived values.
  - ContactDetails: The traveller's contact form.
  - TripPlan: The aggregate produced once the traveller submits from the Review step.
  - ValidationError: The single, user-correctable error kind raised by the engine.
*/
package domain
