package history

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/eventscribe/core"
)

// Hand-rolled MUS serializers for the on-disk run log. Field order is
// the wire format; never reorder fields without a migration. Times are
// stored as Unix microseconds.

// RunRecordMUS serializes RunRecord.
var RunRecordMUS = runRecordMUS{}

type runRecordMUS struct{}

func (s runRecordMUS) Marshal(v RunRecord, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.ID), bs)
	n += varint.Int64.Marshal(v.StartedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(v.FinishedAt.UnixMicro(), bs[n:])
	n += ord.String.Marshal(v.SourceURL, bs[n:])
	n += varint.Int64.Marshal(int64(v.Imported), bs[n:])
	n += varint.Int64.Marshal(int64(v.Skipped), bs[n:])
	n += varint.Int64.Marshal(int64(v.Failed), bs[n:])
	n += varint.Uint64.Marshal(uint64(len(v.Items)), bs[n:])
	for _, item := range v.Items {
		n += ItemOutcomeMUS.Marshal(item, bs[n:])
	}
	return
}

func (s runRecordMUS) Unmarshal(bs []byte) (v RunRecord, n int, err error) {
	var (
		id       uint64
		started  int64
		finished int64
		count    uint64
		n1       int
	)
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ID = core.ID(id)
	started, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartedAt = time.UnixMicro(started).UTC()
	finished, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FinishedAt = time.UnixMicro(finished).UTC()
	v.SourceURL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Imported, n1, err = unmarshalInt(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Skipped, n1, err = unmarshalInt(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Failed, n1, err = unmarshalInt(bs[n:])
	n += n1
	if err != nil {
		return
	}
	count, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > uint64(len(bs)-n) {
		err = ErrCorruptRecord
		return
	}
	v.Items = make([]ItemOutcome, count)
	for i := range v.Items {
		v.Items[i], n1, err = ItemOutcomeMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s runRecordMUS) Size(v RunRecord) (size int) {
	size = varint.Uint64.Size(uint64(v.ID))
	size += varint.Int64.Size(v.StartedAt.UnixMicro())
	size += varint.Int64.Size(v.FinishedAt.UnixMicro())
	size += ord.String.Size(v.SourceURL)
	size += varint.Int64.Size(int64(v.Imported))
	size += varint.Int64.Size(int64(v.Skipped))
	size += varint.Int64.Size(int64(v.Failed))
	size += varint.Uint64.Size(uint64(len(v.Items)))
	for _, item := range v.Items {
		size += ItemOutcomeMUS.Size(item)
	}
	return
}

// ItemOutcomeMUS serializes ItemOutcome.
var ItemOutcomeMUS = itemOutcomeMUS{}

type itemOutcomeMUS struct{}

func (s itemOutcomeMUS) Marshal(v ItemOutcome, bs []byte) (n int) {
	n = ord.String.Marshal(v.Title, bs)
	n += ord.String.Marshal(v.DocID, bs[n:])
	n += ord.String.Marshal(v.Status, bs[n:])
	return
}

func (s itemOutcomeMUS) Unmarshal(bs []byte) (v ItemOutcome, n int, err error) {
	var n1 int
	v.Title, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.DocID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s itemOutcomeMUS) Size(v ItemOutcome) (size int) {
	size = ord.String.Size(v.Title)
	size += ord.String.Size(v.DocID)
	size += ord.String.Size(v.Status)
	return
}

func unmarshalInt(bs []byte) (int, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	return int(v), n, err
}

// MarshalRunRecord serializes a RunRecord to bytes.
func MarshalRunRecord(record *RunRecord) []byte {
	buf := make([]byte, RunRecordMUS.Size(*record))
	RunRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRunRecord deserializes a RunRecord from bytes.
func UnmarshalRunRecord(data []byte) (*RunRecord, error) {
	record, _, err := RunRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
