// Package omr grades bubble answer sheets.
//
// A Scanner runs the full pipeline on one decoded sheet image:
//
//  1. imaging.Binarize turns the sheet into an ink mask
//  2. detection.ExtractBubbles finds bubble candidates
//  3. detection.GroupRows arranges them into four-option question rows
//  4. detection.ScoreRow grades each of the first N rows
//  5. the assembler numbers the answers and pads missing questions
//
// Each Scan call works on request-local data only, so one Scanner may serve
// any number of concurrent scans. The pipeline never logs and performs no
// I/O; finding no rows at all is a valid Summary, not an error.
//
// Calibration profiles (detection.Params as YAML) are read and written with
// LoadProfile and SaveProfile.
package omr
