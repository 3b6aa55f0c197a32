// Package exporter renders analysis results for people and spreadsheets.
//
// WriteConsoleReport prints the per-company information gain tables, the
// average score per company and the best company. WriteRankingCSV and
// WriteRankingXLSX produce the same ranking as a flat table and as a
// workbook. WriteBarChart draws one company's feature scores as a PNG.
//
// All writers take an io.Writer so the console tool, the HTTP handlers and
// the tests share one code path.
package exporter
