package storage

import "time"

// Record is one keyed value. Values are opaque to the repository.
type Record struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type RecordListFilter struct {
	Prefix string
	Limit  int
	Offset int
}

// Batch groups writes that must land together.
type Batch struct {
	Puts    []Record
	Deletes []string
}

func (b Batch) Empty() bool {
	return len(b.Puts) == 0 && len(b.Deletes) == 0
}
