// Package motor models the electromechanical behaviour of a non-salient
// permanent magnet synchronous motor driven by a voltage limited inverter.
// ComputeTorqueLimits derives the feasible torque band from the hard current
// command limits and the voltage and phase current circles in the d-q current
// plane. ComputeMotorPower evaluates the net electrical power for a commanded
// torque, summing mechanical power with resistive, speed dependent,
// hysteresis/eddy and controller losses. All functions are pure and safe for
// concurrent use.
package motor
