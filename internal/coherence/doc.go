// Package coherence estimates how long a pole-mounted antenna array stays
// aligned under wind sway.
//
// For every antenna count the tolerated misalignment ThetaMax is derived from
// the array's half-power beamwidth. Each Monte-Carlo repeat synthesizes a sway
// realization with package sway and records the first time the pointing angle
// deviates from its initial value by ThetaMax. Repeats that never cross are
// Unbounded and are excluded from the mean; the per-wind-speed means are then
// smoothed with a centered moving average whose window shrinks at the edges.
//
// Estimator.Run fans the (antenna count, wind speed) points out over a bounded
// worker pool. Every repeat is seeded through SeedFor, so results do not
// depend on the worker count.
package coherence
