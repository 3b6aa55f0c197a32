// Package files writes output files so that readers never observe a partial
// file. The dashboard's dataset cache keys on modification time and size, and a
// synthesizer run that replaces the dataset while the dashboard is serving must
// not expose a half-written CSV.
//
// Example usage:
//
//	err := files.WriteAtomic(path, func(w io.Writer) error {
//	    return dataset.WriteCSV(w, ds)
//	})
package files
