// Package pricing implements the per-vehicle competitiveness review.
//
// Each vehicle gets an age/mileage coefficient and an adjustment score built
// across three sequential passes: peer-relative variation within the model
// group, an age-cohort price consistency check, and a mileage-adjacency
// check. Pass order is significant and not commutative; every pass is an
// explicit fold that reads the row set produced by the prior pass and
// returns a new one, so passes stay independently testable. The final score
// drives a descending sort: the higher the score, the more urgent the
// pricing correction.
package pricing
