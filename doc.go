// Package armctl provides an operator console for a multi-joint robotic arm.
//
// The console translates manual controls and gamepad input into a canonical
// command vector and streams it over a persistent websocket link to the
// remote arm controller, reconnecting forever when the link drops. A live
// pose preview derived from the commanded state is rendered in the terminal.
//
// # Usage
//
// Start the console (reads armctl.json if present):
//
//	armctl control
//
// Bench-test without hardware by running a local echo endpoint:
//
//	armctl echo --listen :8765
//	armctl control --endpoint ws://localhost:8765
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/armctl: CLI with control and echo commands
//   - pkg/command: canonical arm command snapshot and wire encoding
//   - pkg/input: operator intent state and gamepad polling
//   - pkg/teleop: change-gated dispatch loop
//   - pkg/link: reconnecting websocket client
//   - pkg/pose: forward-kinematics preview
//   - pkg/config: settings file
package armctl
