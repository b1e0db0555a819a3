/*
Package session serializes access to planning sessions.

Every read-modify-write on a session runs under a per-session mutex held in a
reference-counted map, so unrelated sessions never contend and idle sessions
leave no lock behind. When a ports.DistributedLocker is configured the same
critical section is also guarded across replicas.
*/
package session
