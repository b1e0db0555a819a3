/*
Package ports defines the driven ports (interfaces) of the Hornbill planner.

These interfaces decouple the wizard engine and the Planner facade from storage,
locking, time and plan delivery, so the same flow runs in a unit test, a CLI
session or a replicated HTTP service.

# Key Interfaces

  - StateStore: Persists and loads planning sessions.
  - DistributedLocker: Serializes access to a session across replicas.
  - Clock: Supplies "now"; every date rule is evaluated against it.
  - PlanSink: Receives submitted trip plans.
*/
package ports
