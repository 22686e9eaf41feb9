// Package dataprocessing parses the raw fleet and accounting exports into
// the typed inputs of the two pipelines. It owns header resolution
// (tolerant of accents, case and BOM noise), numeric coercion with
// deterministic defaults, and the leadtime workbook join table.
package dataprocessing
