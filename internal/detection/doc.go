// Package detection finds answer bubbles in a sheet mask and decides which
// ones were marked.
//
// The package implements the geometric half of the scanning pipeline. It
// works on the binary ink mask produced by imaging.Binarize and never looks at
// the original colour image.
//
// # Algorithm Overview
//
//  1. Components: FindComponents labels 8-connected ink regions, measuring
//     each one's bounding box and the area inside its outer outline
//  2. Candidates: ExtractBubbles keeps components that are roughly square,
//     of bubble size, and centred in the answer region of the sheet
//  3. Rows: GroupRows bands candidates by vertical centre and keeps bands of
//     exactly four, ordered left to right
//  4. Scoring: ScoreRow measures the ink share of each bubble's box and picks
//     the fullest one if it clears the fill threshold
//
// # Coordinate System
//
// All coordinates are mask coordinates:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bubble boxes are inclusive of their extreme pixels, so a bubble whose
//     ink spans x=10..29 has X=10 and Width=20
//
// # Calibration
//
// Every numeric heuristic lives in Params. DefaultParams is tuned for phone
// photos and 150-200 DPI scans of a single-column four-option sheet; other
// resolutions need other area bounds and row tolerance. Nothing here is a
// universal constant.
//
// # Limitations
//
// There is no deskewing and no template registration:
//   - Rows tilted by more than the row tolerance split apart and are dropped
//   - Stray ink of bubble size inside the answer region can join a band and
//     push it past four members, which drops the whole row
//   - Only the first row layout of the page is understood; multi-column
//     sheets interleave their rows
package detection
