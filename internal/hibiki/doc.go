// Package hibiki renders chord sheets written in hibiki notation.
//
// Chords are written inline in braces before the syllable they belong to,
// and sections are introduced by a bracketed header and closed by a blank
// line:
//
//	[Verse 1]
//	{A}Test{B}ing is {Cadd9}go{Am}od
//
// renders as
//
//	[Verse 1]
//	A   B      Cadd9 Am
//	Testing is go    od
//
// A line ending in (xN) is repeated N times, a header without a body
// repeats the earlier section with that name, and a line ending in (=name)
// can be pasted into later lines with (@name).
package hibiki
