// Package exporter renders the pipeline results to files: the pricing
// review as an Excel workbook and CSV, and the anomaly report as a pair
// of ranked CSVs. CSV output carries a UTF-8 BOM so spreadsheet tools
// pick up the accented Spanish headers.
package exporter
