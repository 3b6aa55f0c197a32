// Package dataset owns the stock table: the Record and Dataset types, the
// seeded Synthesizer that produces the monthly price/volume records, the CSV
// and XLSX codecs, and a memo Cache for loaded files.
//
// Numeric cells that cannot be parsed are kept as NaN and counted in
// LoadStats so callers can report how much of the file was unusable.
//
// A Cache entry stays valid while the file's modification time and size are
// unchanged:
//
//	cache := dataset.NewCache(logger)
//	ds, err := cache.Load("stock_market_dataset.csv")
//	...
//	cache.Invalidate("stock_market_dataset.csv") // force the next Load to re-read
package dataset
