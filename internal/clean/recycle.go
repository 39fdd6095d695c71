package clean

// BinUsage is what the shell reports for the Recycle Bin.
type BinUsage struct {
	Size  int64
	Items int64
}

// BinSample holds the Recycle Bin usage around a run.
type BinSample struct {
	Before BinUsage
	After  BinUsage
}

// Freed is the number of bytes the run removed from the Recycle Bin.
func (s BinSample) Freed() int64 {
	return s.Before.Size - s.After.Size
}
