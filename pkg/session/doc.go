/*
Package session implements session identity and persistence orchestration.

The Manager creates sessions on login, flips stage-completion flags and stores the
technical results. Every operation on one session runs under a per-session lock
(optionally backed by a DistributedLocker) so concurrent requests cannot interleave a
read-modify-write of the flags.
*/
package session
