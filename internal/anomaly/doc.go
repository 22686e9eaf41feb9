// Package anomaly implements robust outlier detection over a category by
// month matrix of summed accounting values.
//
// The pipeline has three stages: build a dense matrix from a flat table
// (BuildMatrix), derive per-row robust statistics (ComputeRowStats), and
// apply threshold rules to produce ranked summary and detail reports
// (Detector.Detect). All stages are pure and request-scoped; statistics
// use median and MAD so the outliers being hunted cannot distort the
// baseline they are measured against.
package anomaly
