// Package gcode provides the fixed diagnostic test pattern the dashboard
// offers for download. The sequence exercises straight moves, diagonals and
// arcs so tracking quality can be judged across motion types; it is constant
// and carries no machine state.
package gcode

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name the test pattern is written under.
const FileName = "nova_test.gcode"

// TestPattern is the diagnostic sequence: home, heat, trace a square with
// diagonals and arcs, cool down, release the motors.
const TestPattern = `; NovaMotion diagnostic test pattern
; Square, diagonal and arc moves for tracking verification
G21 ; millimeter units
G90 ; absolute positioning
G28 ; home all axes
M104 S200 ; set hotend temperature
M140 S60 ; set bed temperature
M109 S200 ; wait for hotend
M190 S60 ; wait for bed
G1 Z0.3 F3000 ; first layer height
G1 X20 Y20 F3000 ; move to start corner
; square perimeter
G1 X80 Y20 F1800
G1 X80 Y80 F1800
G1 X20 Y80 F1800
G1 X20 Y20 F1800
; diagonals
G1 X80 Y80 F2400
G1 X20 Y80 F2400
G1 X80 Y20 F2400
; arcs
G1 X50 Y20 F1800
G2 X80 Y50 I0 J30 F1200 ; clockwise quarter arc
G3 X50 Y80 I-30 J0 F1200 ; counter-clockwise quarter arc
; cool down
M104 S0 ; hotend off
M140 S0 ; bed off
G1 Z10 F3000 ; raise nozzle
G28 X Y ; park
M84 ; disable motors
`

// Write places the test pattern into dir under FileName, creating dir if
// needed. Returns the full path written.
func Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("gcode: create dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(TestPattern), 0644); err != nil {
		return "", fmt.Errorf("gcode: write test pattern: %w", err)
	}
	return path, nil
}
