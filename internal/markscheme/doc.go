// Package markscheme checks generated exam questions against their mark
// schemes.
//
// Mark-scheme lines follow exam-board conventions: a leading code such as
// M1 (method), A1 (accuracy), B1 (independent) or SC1 (special case)
// gives the marks a line is worth. Questions split into parts label them
// (a), (b), ... with roman-numeral sub-parts (i), (ii), ...; generated
// mark schemes sometimes number the same parts "Step 1" or "1." instead.
//
// Everything here is pure string analysis with no state.
package markscheme
