// Package sway simulates the sway of a pole-mounted antenna under turbulent wind.
//
// A realization is produced in three stages:
//
//   - [ComputePSD] evaluates the along-wind, cross-wind and vortex-shedding force
//     spectra and the mechanical transfer function of the pole, and combines them into
//     along-wind and cross-wind displacement PSDs.
//   - [Synthesizer] turns each displacement PSD into a real time series by
//     randomizing the phase of every positive-frequency bin and running an inverse FFT.
//   - [Angles] projects the displacement onto a misalignment angle.
//
// [Process] ties the stages together for a fixed duration and sample rate:
//
//	proc, _ := sway.NewProcess(sway.DefaultConfig())
//	r, _ := proc.Realize(10, sway.NewSource(42))
//	// r.AlongAngle, r.CrossAngle in degrees
//
// Denominators that can vanish (zero wind, zero vortex frequency, zero natural
// frequency) go through [SafeRatio] and contribute zero instead of NaN.
package sway
