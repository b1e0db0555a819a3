/*
Package observability turns planner lifecycle hooks into Prometheus metrics and
structured log records.

Both are plain domain.LifecycleHooks values, so they compose with Merge and can
be passed to hornbill.WithLifecycleHooks side by side.
*/
package observability
