/*
Package runtime implements the trip-planning wizard.

The Engine walks a session through four gated steps (dates, destinations,
experiences, review). Operations are pure with respect to their input: each
returns a new snapshot and, when the traveller has to correct something, a
*domain.ValidationError whose message is also recorded on the snapshot.

Festival presets pin the destination set to the host city through
DeriveForcedDestinations, which runs after every date or destination change.
*/
package runtime
