// Package blc implements black level correction for the RkISP1.
//
// Sensors rarely report a signal of zero for black. The ISP subtracts a fixed
// per-channel offset from every pixel so that black maps to zero. The offsets
// are resolved once at start-up from the camera tuning file and the sensor
// model, then programmed into the ISP on the first frame only.
//
// Measuring the black level at runtime from an optical dark region of the
// sensor is not supported.
package blc
