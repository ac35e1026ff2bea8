// Package drive defines the actuation surface shared by every motion
// command:
//
//   - [Vector]: the holonomic (magnitude, direction, turn) drive command
//   - [Interface]: anything that accepts a Vector (a chassis, a simulator)
//   - [HeadingHold]: a decorator that replaces the caller's turn with a
//     proportional correction toward a stored heading
//   - [Actuator], [HeadingSensor], [Gyro]: the hardware capabilities the
//     commands consume
//
// # Conventions
//
// Direction is measured counter-clockwise from the robot's right-hand side:
// 0 strafes right, pi/2 drives forward, pi strafes left. Positive turn
// rotates counter-clockwise, which increases the heading reported by a
// [HeadingSensor]. Headings wrap at +/-pi.
package drive
