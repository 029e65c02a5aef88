// Package forecast projects each center's completion rate a few hours
// ahead. The model is a heuristic weighted-trend extrapolation with a
// damping factor and a confidence-derived uncertainty band, not a fitted
// statistical model: it exists to give the dashboard a plausible
// short-horizon outlook, and it degrades to an empty forecast whenever
// history is too thin to extrapolate from.
package forecast
